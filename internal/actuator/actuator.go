// File: internal/actuator/actuator.go
// Project: UNIVERSE
// Description: Probe action executor. Validates an Action against current
//              probe state, consumes resources, mutates state, and returns
//              success/completion. Grounded on the teacher's
//              internal/combat/weapons.go CanFire/Fire validate-then-apply
//              split, generalized from one weapon check to the full
//              twenty-action taxonomy. Rejections are total: no mutation,
//              no fuel or energy deducted.
package actuator

import (
	"fmt"
	"math"

	"github.com/JoshuaAFerguson/universe/internal/comms"
	"github.com/JoshuaAFerguson/universe/internal/models"
	"github.com/JoshuaAFerguson/universe/internal/prng"
	"github.com/JoshuaAFerguson/universe/internal/replication"
	"github.com/JoshuaAFerguson/universe/internal/society"
	"github.com/JoshuaAFerguson/universe/internal/travel"
)

// Params bundles the tunable pacing structs the engine derives from
// config.Engine once per run, rather than each subsystem reading its own
// package constants directly.
type Params struct {
	Travel      travel.Params
	Replication replication.Params
	Comms       comms.Params
}

// DefaultParams mirrors every subsystem's own defaults.
func DefaultParams() Params {
	return Params{
		Travel:      travel.DefaultParams(),
		Replication: replication.DefaultParams(),
		Comms:       comms.DefaultParams(),
	}
}

// ActionType names one entry in the full action taxonomy.
type ActionType string

const (
	ActionNavigateToBody ActionType = "navigate_to_body"
	ActionEnterOrbit     ActionType = "enter_orbit"
	ActionLand           ActionType = "land"
	ActionLaunch         ActionType = "launch"
	ActionSurvey         ActionType = "survey"
	ActionMine           ActionType = "mine"
	ActionWait           ActionType = "wait"
	ActionRepair         ActionType = "repair"
	ActionTravelToSystem ActionType = "travel_to_system"
	ActionReplicate      ActionType = "replicate"
	ActionSendMessage    ActionType = "send_message"
	ActionPlaceBeacon    ActionType = "place_beacon"
	ActionBuildStructure ActionType = "build_structure"
	ActionTrade          ActionType = "trade"
	ActionClaimSystem    ActionType = "claim_system"
	ActionRevokeClaim    ActionType = "revoke_claim"
	ActionPropose        ActionType = "propose"
	ActionVote           ActionType = "vote"
	ActionResearch       ActionType = "research"
	ActionShareTech      ActionType = "share_tech"
)

// Action is one command issued to a single probe for the current tick.
type Action struct {
	Type ActionType

	BodyID        models.UID
	SurveyLevel   int
	Resource      models.Resource
	TargetSystem  models.UID
	TargetSector  models.Sector
	TargetProbe   models.UID
	Text          string
	StructureType models.StructureType
	Builders      []models.UID
	Amount        float64
	SameSystem    bool
	ProposalID    int
	InFavor       bool
	Domain        models.TechDomain
	DeadlineTicks int64
}

// Result reports the outcome of one executed action.
type Result struct {
	Success   bool
	Completed bool
	Error     string
}

func reject(format string, args ...interface{}) Result {
	return Result{Success: false, Completed: false, Error: fmt.Sprintf(format, args...)}
}

func ok(completed bool) Result {
	return Result{Success: true, Completed: completed}
}

// Fuel/energy cost constants. The spec fixes the cost *formula* but leaves
// the base coefficients to the implementation (§4.4 / Open Questions); see
// DESIGN.md for the chosen values.
const (
	orbitBaseFuelKg    = 2.0
	landBaseFuelKg     = 2.0
	launchBaseFuelKg   = 4.0
	navigateFlatFuelKg = 0.5

	mineYieldBase      = 10.0
	mineEnergyPerTickJ = 30.0
	surveyEnergyPerTickJ = 50.0

	repairIronKg    = 50.0
	repairEnergyJ   = 1e9 // 1 GJ
	repairHullGain  = 0.05
)

// surveyTicksPerLevel is the tick budget to complete each survey level.
var surveyTicksPerLevel = [5]int{5, 10, 20, 40, 80}

// Context bundles the cross-subsystem state an action needs beyond the
// acting probe itself. The engine constructs one per executed action.
type Context struct {
	Tick   int64
	Seed   int64
	Rng    *prng.Stream
	System *models.System // nil if the probe is interstellar

	OriginPos func(models.UID) models.Vec3 // resolves any probe's current galactic position
	AllProbes map[models.UID]*models.Probe

	Comms     *comms.Manager
	Society   *society.Manager
	Lineage   *[]models.LineageEntry
	NewChildID func() models.UID

	Params Params
}

// Execute validates and applies one action against probe.
func Execute(ctx *Context, probe *models.Probe, action Action) Result {
	switch action.Type {
	case ActionWait:
		return ok(true)
	case ActionNavigateToBody:
		return navigateToBody(ctx, probe, action)
	case ActionEnterOrbit:
		return enterOrbit(ctx, probe, action)
	case ActionLand:
		return land(ctx, probe, action)
	case ActionLaunch:
		return launch(ctx, probe)
	case ActionSurvey:
		return survey(ctx, probe, action)
	case ActionMine:
		return mine(ctx, probe, action)
	case ActionRepair:
		return repair(probe)
	case ActionTravelToSystem:
		return travelToSystem(ctx, probe, action)
	case ActionReplicate:
		return replicateAction(ctx, probe)
	case ActionSendMessage:
		return sendMessage(ctx, probe, action)
	case ActionPlaceBeacon:
		return placeBeacon(ctx, probe, action)
	case ActionBuildStructure:
		return buildStructure(ctx, probe, action)
	case ActionTrade:
		return tradeAction(ctx, probe, action)
	case ActionClaimSystem:
		return claimSystem(ctx, probe)
	case ActionRevokeClaim:
		return revokeClaim(ctx, probe)
	case ActionPropose:
		return propose(ctx, probe, action)
	case ActionVote:
		return vote(ctx, probe, action)
	case ActionResearch:
		return research(probe, action)
	case ActionShareTech:
		return shareTech(ctx, probe, action)
	default:
		return reject("unknown action type %q", action.Type)
	}
}

func fuelForMass(base, massEarth float64) float64 {
	m := massEarth
	if m < 0.01 {
		m = 0.01
	}
	return base * math.Sqrt(m)
}

func currentPlanet(ctx *Context, probe *models.Probe) *models.Planet {
	if ctx.System == nil || probe.BodyID.IsZero() {
		return nil
	}
	return ctx.System.PlanetByID(probe.BodyID)
}

func navigateToBody(ctx *Context, probe *models.Probe, action Action) Result {
	if probe.LocationKind == models.LocationInterstellar {
		return reject("cannot navigate to a body while interstellar")
	}
	if ctx.System == nil {
		return reject("no system context")
	}
	planet := ctx.System.PlanetByID(action.BodyID)
	if planet == nil {
		return reject("body %v not found in system", action.BodyID)
	}
	if probe.FuelKg < navigateFlatFuelKg {
		return reject("insufficient fuel: have %.3f kg, need %.3f kg", probe.FuelKg, navigateFlatFuelKg)
	}

	probe.FuelKg -= navigateFlatFuelKg
	probe.BodyID = action.BodyID
	probe.LocationKind = models.LocationInSystem
	return ok(true)
}

func enterOrbit(ctx *Context, probe *models.Probe, action Action) Result {
	if probe.LocationKind != models.LocationInSystem && probe.LocationKind != models.LocationOrbiting {
		return reject("must be in-system or already orbiting to enter orbit")
	}
	bodyID := action.BodyID
	if bodyID.IsZero() {
		bodyID = probe.BodyID
	}
	if ctx.System == nil {
		return reject("no system context")
	}
	planet := ctx.System.PlanetByID(bodyID)
	if planet == nil {
		return reject("body %v not found in system", bodyID)
	}

	cost := fuelForMass(orbitBaseFuelKg, planet.MassEarth)
	if probe.FuelKg < cost {
		return reject("insufficient fuel: have %.3f kg, need %.3f kg", probe.FuelKg, cost)
	}

	probe.FuelKg -= cost
	probe.BodyID = bodyID
	probe.LocationKind = models.LocationOrbiting
	return ok(true)
}

func land(ctx *Context, probe *models.Probe, action Action) Result {
	if probe.LocationKind != models.LocationOrbiting {
		return reject("must be orbiting to land")
	}
	planet := currentPlanet(ctx, probe)
	if planet == nil {
		return reject("no body to land on")
	}
	if planet.Type.IsGiant() {
		return reject("cannot land on a gas or ice giant")
	}

	cost := fuelForMass(landBaseFuelKg, planet.MassEarth)
	if probe.FuelKg < cost {
		return reject("insufficient fuel: have %.3f kg, need %.3f kg", probe.FuelKg, cost)
	}

	probe.FuelKg -= cost
	probe.LocationKind = models.LocationLanded
	return ok(true)
}

func launch(ctx *Context, probe *models.Probe) Result {
	if probe.LocationKind != models.LocationLanded {
		return reject("must be landed to launch")
	}
	planet := currentPlanet(ctx, probe)
	if planet == nil {
		return reject("no body to launch from")
	}
	cost := fuelForMass(launchBaseFuelKg, planet.MassEarth)
	if probe.FuelKg < cost {
		return reject("insufficient fuel: have %.3f kg, need %.3f kg", probe.FuelKg, cost)
	}

	probe.FuelKg -= cost
	probe.LocationKind = models.LocationOrbiting
	return ok(true)
}

func survey(ctx *Context, probe *models.Probe, action Action) Result {
	level := action.SurveyLevel
	if level < 0 || level > 4 {
		return reject("survey level %d out of range", level)
	}
	planet := currentPlanet(ctx, probe)
	if planet == nil {
		return reject("no body to survey")
	}
	if planet.Surveyed[level] {
		return reject("survey level %d already complete", level)
	}
	if level > 0 && !planet.Surveyed[level-1] {
		return reject("survey level %d requires level %d complete first", level, level-1)
	}
	if level == 4 && probe.LocationKind != models.LocationLanded {
		return reject("survey level 4 requires Landed")
	}
	if level < 4 && probe.LocationKind != models.LocationOrbiting && probe.LocationKind != models.LocationLanded {
		return reject("survey requires Orbiting or Landed")
	}
	if probe.EnergyJoules < surveyEnergyPerTickJ {
		return reject("insufficient energy for survey tick")
	}

	probe.EnergyJoules -= surveyEnergyPerTickJ

	state, ok := probe.Surveys[planet.ID]
	if !ok || state.Level != level {
		state = &models.SurveyState{PlanetID: planet.ID, Level: level}
		probe.Surveys[planet.ID] = state
	}
	state.TicksDone++

	if state.TicksDone >= surveyTicksPerLevel[level] {
		planet.Surveyed[level] = true
		if planet.FirstSurveyedTick == 0 {
			planet.FirstSurveyedTick = ctx.Tick
		}
		if planet.DiscovererID.IsZero() {
			planet.DiscovererID = probe.ID
		}
		state.Discoverer = probe.ID
		delete(probe.Surveys, planet.ID)
		return Result{Success: true, Completed: true}
	}
	return Result{Success: true, Completed: false}
}

func mine(ctx *Context, probe *models.Probe, action Action) Result {
	if probe.LocationKind != models.LocationLanded {
		return reject("must be landed to mine")
	}
	planet := currentPlanet(ctx, probe)
	if planet == nil {
		return reject("no body to mine")
	}
	abundance := planet.ResourceAbundance[action.Resource]
	if abundance <= 0 {
		return reject("no %s abundance on this body", action.Resource)
	}
	if probe.EnergyJoules < mineEnergyPerTickJ {
		return reject("insufficient energy for mining tick")
	}

	probe.EnergyJoules -= mineEnergyPerTickJ

	massEarth := planet.MassEarth
	if massEarth < 0.01 {
		massEarth = 0.01
	}
	yield := mineYieldBase * probe.Capabilities.MiningRate * abundance / math.Sqrt(massEarth)

	probe.Resources[action.Resource] += yield
	probe.MassKg += yield
	planet.ResourceAbundance[action.Resource] = math.Max(0, abundance-yield*1e-6)

	return Result{Success: true, Completed: false}
}

func repair(probe *models.Probe) Result {
	if probe.HullIntegrity >= 1.0 {
		return reject("hull already at full integrity")
	}
	if probe.Resources[models.ResourceIron] < repairIronKg {
		return reject("insufficient iron for repair")
	}
	if probe.EnergyJoules < repairEnergyJ {
		return reject("insufficient energy for repair")
	}

	probe.Resources[models.ResourceIron] -= repairIronKg
	probe.EnergyJoules -= repairEnergyJ
	probe.HullIntegrity = models.Clamp(probe.HullIntegrity+repairHullGain, 0, 1)
	return ok(true)
}

func travelToSystem(ctx *Context, probe *models.Probe, action Action) Result {
	origin := ctx.OriginPos(probe.ID)
	target := ctx.OriginPos(action.TargetSystem)
	if err := travel.Begin(probe, origin, travel.Order{
		TargetPos: target, TargetSystem: action.TargetSystem, TargetSector: action.TargetSector,
	}, ctx.Params.Travel); err != nil {
		return reject("%v", err)
	}
	return ok(true)
}

func replicateAction(ctx *Context, probe *models.Probe) Result {
	if err := replication.Begin(probe, ctx.Params.Replication); err != nil {
		return reject("%v", err)
	}
	return ok(true)
}

func sendMessage(ctx *Context, probe *models.Probe, action Action) Result {
	senderPos := ctx.OriginPos(probe.ID)
	targetPos := ctx.OriginPos(action.TargetProbe)
	if err := comms.SendTargeted(ctx.Comms, probe, senderPos, action.TargetProbe, targetPos, action.Text, ctx.Tick, ctx.Params.Comms); err != nil {
		return reject("%v", err)
	}
	return ok(true)
}

func placeBeacon(ctx *Context, probe *models.Probe, action Action) Result {
	if ctx.System == nil {
		return reject("no system to place a beacon in")
	}
	comms.PlaceBeacon(ctx.Comms, probe, ctx.System.ID, action.Text, ctx.Tick)
	return ok(true)
}

func buildStructure(ctx *Context, probe *models.Probe, action Action) Result {
	if ctx.System == nil {
		return reject("no system to build in")
	}
	spec, exists := models.StructureSpecs[action.StructureType]
	if !exists {
		return reject("unknown structure type %q", action.StructureType)
	}
	for r, cost := range spec.Cost {
		if probe.Resources[r] < cost {
			return reject("insufficient %s for %s", models.Resource(r), action.StructureType)
		}
	}

	builders := action.Builders
	if len(builders) == 0 {
		builders = []models.UID{probe.ID}
	}
	id := models.UID{Hi: uint64(ctx.Tick), Lo: probe.ID.Lo}
	if _, err := ctx.Society.BeginConstruction(id, action.StructureType, ctx.System.ID, builders); err != nil {
		return reject("%v", err)
	}

	for r, cost := range spec.Cost {
		probe.Resources[r] -= cost
	}
	probe.Status = models.StatusBuilding
	return ok(true)
}

func tradeAction(ctx *Context, probe *models.Probe, action Action) Result {
	target, found := ctx.AllProbes[action.TargetProbe]
	if !found {
		return reject("target probe not found")
	}
	sameSystem := probe.SystemID == target.SystemID
	if _, err := ctx.Society.InitiateTrade(probe, target, action.Resource, action.Amount, sameSystem, ctx.Tick); err != nil {
		return reject("%v", err)
	}
	return ok(true)
}

func claimSystem(ctx *Context, probe *models.Probe) Result {
	if ctx.System == nil {
		return reject("no system to claim")
	}
	if err := ctx.Society.Claim(ctx.System.ID, probe); err != nil {
		return reject("%v", err)
	}
	return ok(true)
}

func revokeClaim(ctx *Context, probe *models.Probe) Result {
	if ctx.System == nil {
		return reject("no system to revoke a claim on")
	}
	if err := ctx.Society.Revoke(ctx.System.ID, probe); err != nil {
		return reject("%v", err)
	}
	return ok(true)
}

func propose(ctx *Context, probe *models.Probe, action Action) Result {
	deadline := action.DeadlineTicks
	if deadline <= 0 {
		deadline = ctx.Tick + 1000
	}
	ctx.Society.Propose(probe.ID, action.Text, ctx.Tick, deadline)
	return ok(true)
}

func vote(ctx *Context, probe *models.Probe, action Action) Result {
	if err := ctx.Society.Vote(action.ProposalID, probe.ID, action.InFavor); err != nil {
		return reject("%v", err)
	}
	return ok(true)
}

func research(probe *models.Probe, action Action) Result {
	if probe.ResearchActive && probe.ResearchDomain != action.Domain {
		return reject("already researching a different domain")
	}
	probe.ResearchActive = true
	probe.ResearchDomain = action.Domain
	probe.ResearchTicks++
	return Result{Success: true, Completed: false}
}

func shareTech(ctx *Context, probe *models.Probe, action Action) Result {
	target, found := ctx.AllProbes[action.TargetProbe]
	if !found {
		return reject("target probe not found")
	}
	if err := ctx.Society.ShareTech(probe, target, action.Domain); err != nil {
		return reject("%v", err)
	}
	return ok(true)
}
