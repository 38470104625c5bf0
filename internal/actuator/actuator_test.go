package actuator

import (
	"testing"

	"github.com/JoshuaAFerguson/universe/internal/models"
)

func testSystem(planet models.Planet) *models.System {
	return &models.System{
		ID:      models.UID{Hi: 1, Lo: 1},
		Planets: []models.Planet{planet},
	}
}

func testContext(sys *models.System) *Context {
	return &Context{
		Tick:      0,
		OriginPos: func(models.UID) models.Vec3 { return models.Vec3{} },
		System:    sys,
		Params:    DefaultParams(),
	}
}

// Scenario 1: a probe orbits a rocky planet and surveys it up through the
// full five-level ladder.
func TestOrbitAndSurveyToCompletion(t *testing.T) {
	planet := models.Planet{ID: models.UID{Hi: 2, Lo: 2}, Type: models.PlanetRocky, MassEarth: 1.0}
	sys := testSystem(planet)
	ctx := testContext(sys)

	probe := models.NewProbe(models.UID{Hi: 1, Lo: 1}, "Bob")
	probe.LocationKind = models.LocationInSystem
	probe.FuelKg = 1000
	probe.EnergyJoules = 1e12
	probe.BodyID = planet.ID

	if res := Execute(ctx, probe, Action{Type: ActionEnterOrbit, BodyID: planet.ID}); !res.Success {
		t.Fatalf("EnterOrbit rejected: %s", res.Error)
	}
	if probe.LocationKind != models.LocationOrbiting {
		t.Fatalf("expected Orbiting, got %v", probe.LocationKind)
	}

	for level := 0; level <= 4; level++ {
		if level == 4 {
			if res := Execute(ctx, probe, Action{Type: ActionLand}); !res.Success {
				t.Fatalf("Land rejected: %s", res.Error)
			}
		}
		budget := surveyTicksPerLevel[level]
		var last Result
		for i := 0; i < budget; i++ {
			last = Execute(ctx, probe, Action{Type: ActionSurvey, SurveyLevel: level})
			if !last.Success {
				t.Fatalf("Survey level %d tick %d rejected: %s", level, i, last.Error)
			}
		}
		if !last.Completed {
			t.Fatalf("expected survey level %d to complete after %d ticks", level, budget)
		}
		if !sys.Planets[0].Surveyed[level] {
			t.Fatalf("expected planet marked surveyed at level %d", level)
		}
	}
}

// Scenario 2: mining a resource-abundant planet actually accumulates that
// resource on the probe.
func TestMineAbundantResource(t *testing.T) {
	planet := models.Planet{ID: models.UID{Hi: 3, Lo: 3}, Type: models.PlanetIron, MassEarth: 1.0}
	planet.ResourceAbundance[models.ResourceIron] = 1.0
	sys := testSystem(planet)
	ctx := testContext(sys)

	probe := models.NewProbe(models.UID{Hi: 1, Lo: 1}, "Bob")
	probe.LocationKind = models.LocationLanded
	probe.BodyID = planet.ID
	probe.EnergyJoules = 1e9
	probe.Capabilities.MiningRate = 1.0

	before := probe.Resources[models.ResourceIron]
	res := Execute(ctx, probe, Action{Type: ActionMine, Resource: models.ResourceIron})
	if !res.Success {
		t.Fatalf("Mine rejected: %s", res.Error)
	}
	if probe.Resources[models.ResourceIron] <= before {
		t.Fatalf("expected iron to accumulate, got %v (was %v)", probe.Resources[models.ResourceIron], before)
	}
}

func TestMineRejectsAbsentResource(t *testing.T) {
	planet := models.Planet{ID: models.UID{Hi: 3, Lo: 3}, Type: models.PlanetIron, MassEarth: 1.0}
	sys := testSystem(planet)
	ctx := testContext(sys)

	probe := models.NewProbe(models.UID{Hi: 1, Lo: 1}, "Bob")
	probe.LocationKind = models.LocationLanded
	probe.BodyID = planet.ID
	probe.EnergyJoules = 1e9

	before := probe.EnergyJoules
	res := Execute(ctx, probe, Action{Type: ActionMine, Resource: models.ResourceWater})
	if res.Success {
		t.Fatalf("expected mining rejection for zero abundance resource")
	}
	if probe.EnergyJoules != before {
		t.Fatalf("rejected action must not deduct energy, got %v (was %v)", probe.EnergyJoules, before)
	}
}

// Scenario 3: a probe may not land on a gas giant.
func TestLandRejectsGasGiant(t *testing.T) {
	planet := models.Planet{ID: models.UID{Hi: 4, Lo: 4}, Type: models.PlanetGasGiant, MassEarth: 300}
	sys := testSystem(planet)
	ctx := testContext(sys)

	probe := models.NewProbe(models.UID{Hi: 1, Lo: 1}, "Bob")
	probe.LocationKind = models.LocationOrbiting
	probe.BodyID = planet.ID
	probe.FuelKg = 1000

	before := probe.FuelKg
	res := Execute(ctx, probe, Action{Type: ActionLand})
	if res.Success {
		t.Fatalf("expected Land to be rejected on a gas giant")
	}
	if probe.LocationKind != models.LocationOrbiting {
		t.Fatalf("rejected Land must not change location, got %v", probe.LocationKind)
	}
	if probe.FuelKg != before {
		t.Fatalf("rejected action must not deduct fuel, got %v (was %v)", probe.FuelKg, before)
	}
}

func TestEnterOrbitInsufficientFuelRejectedWithoutMutation(t *testing.T) {
	planet := models.Planet{ID: models.UID{Hi: 2, Lo: 2}, Type: models.PlanetRocky, MassEarth: 1.0}
	sys := testSystem(planet)
	ctx := testContext(sys)

	probe := models.NewProbe(models.UID{Hi: 1, Lo: 1}, "Bob")
	probe.LocationKind = models.LocationInSystem
	probe.FuelKg = 0.0001
	probe.BodyID = planet.ID

	res := Execute(ctx, probe, Action{Type: ActionEnterOrbit, BodyID: planet.ID})
	if res.Success {
		t.Fatalf("expected rejection for insufficient fuel")
	}
	if probe.LocationKind != models.LocationInSystem {
		t.Fatalf("rejected action must not change location, got %v", probe.LocationKind)
	}
}

func TestRepairConsumesIronAndEnergy(t *testing.T) {
	probe := models.NewProbe(models.UID{Hi: 1, Lo: 1}, "Bob")
	probe.HullIntegrity = 0.5
	probe.Resources[models.ResourceIron] = 1000
	probe.EnergyJoules = 2e9

	res := Execute(&Context{}, probe, Action{Type: ActionRepair})
	if !res.Success {
		t.Fatalf("Repair rejected: %s", res.Error)
	}
	if probe.HullIntegrity <= 0.5 {
		t.Fatalf("expected hull integrity to improve, got %v", probe.HullIntegrity)
	}
	if probe.Resources[models.ResourceIron] != 1000-repairIronKg {
		t.Fatalf("expected iron consumed, got %v", probe.Resources[models.ResourceIron])
	}
}

func TestLaunchFuelScalesWithPlanetMass(t *testing.T) {
	heavy := models.Planet{ID: models.UID{Hi: 4, Lo: 4}, Type: models.PlanetRocky, MassEarth: 3.0}
	sys := testSystem(heavy)
	ctx := testContext(sys)

	probe := models.NewProbe(models.UID{Hi: 1, Lo: 1}, "Bob")
	probe.LocationKind = models.LocationLanded
	probe.BodyID = heavy.ID
	probe.FuelKg = 1000

	before := probe.FuelKg
	res := Execute(ctx, probe, Action{Type: ActionLaunch})
	if !res.Success {
		t.Fatalf("Launch rejected: %s", res.Error)
	}
	spent := before - probe.FuelKg
	wantLight := fuelForMass(launchBaseFuelKg, 1.0)
	if spent <= wantLight {
		t.Fatalf("expected launch from a 3.0 Earth-mass body to cost more than a 1.0 Earth-mass body (%.3f), got %.3f", wantLight, spent)
	}
	expected := fuelForMass(launchBaseFuelKg, heavy.MassEarth)
	if probe.FuelKg != before-expected {
		t.Fatalf("expected launch fuel cost %.6f, got %.6f", expected, spent)
	}
	if probe.LocationKind != models.LocationOrbiting {
		t.Fatalf("expected Orbiting after launch, got %v", probe.LocationKind)
	}
}

func TestLaunchRejectedWithoutCurrentPlanet(t *testing.T) {
	sys := testSystem(models.Planet{ID: models.UID{Hi: 5, Lo: 5}, Type: models.PlanetRocky, MassEarth: 1.0})
	ctx := testContext(sys)

	probe := models.NewProbe(models.UID{Hi: 1, Lo: 1}, "Bob")
	probe.LocationKind = models.LocationLanded
	probe.BodyID = models.UID{Hi: 9, Lo: 9} // not in sys.Planets
	probe.FuelKg = 1000

	res := Execute(ctx, probe, Action{Type: ActionLaunch})
	if res.Success {
		t.Fatalf("expected rejection when the landed body cannot be resolved")
	}
}

func TestWaitAlwaysSucceeds(t *testing.T) {
	probe := models.NewProbe(models.UID{Hi: 1, Lo: 1}, "Bob")
	res := Execute(&Context{}, probe, Action{Type: ActionWait})
	if !res.Success || !res.Completed {
		t.Fatalf("expected Wait to always succeed and complete")
	}
}
