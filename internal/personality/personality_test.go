package personality

import (
	"testing"

	"github.com/JoshuaAFerguson/universe/internal/models"
)

func newProbe() *models.Probe {
	p := models.NewProbe(models.UID{Hi: 1, Lo: 1}, "Alice")
	p.Personality.DriftRate = 0.2
	return p
}

func TestApplyDiscoveryDrift(t *testing.T) {
	p := newProbe()
	before := p.Personality.Curiosity
	Apply(p, DriftDiscovery)
	want := before + Medium*p.Personality.DriftRate
	if p.Personality.Curiosity != want {
		t.Fatalf("curiosity = %v, want %v", p.Personality.Curiosity, want)
	}
}

func TestApplyClampsTraits(t *testing.T) {
	p := newProbe()
	p.Personality.Curiosity = 0.999
	p.Personality.DriftRate = 10 // exaggerated to force clamp
	Apply(p, DriftAnomaly)
	if p.Personality.Curiosity > 1 {
		t.Fatalf("expected curiosity clamped to <=1, got %v", p.Personality.Curiosity)
	}
}

func TestSolitudeTickReinforcesSign(t *testing.T) {
	p := newProbe()
	p.Personality.Sociability = -0.3
	Apply(p, DriftSolitudeTick)
	if p.Personality.Sociability >= -0.3 {
		t.Fatalf("expected sociability to drift further negative, got %v", p.Personality.Sociability)
	}

	p2 := newProbe()
	p2.Personality.Sociability = 0.3
	Apply(p2, DriftSolitudeTick)
	if p2.Personality.Sociability <= 0.3 {
		t.Fatalf("expected sociability to drift further positive, got %v", p2.Personality.Sociability)
	}
}

func TestMemoryFadingAndVividQueries(t *testing.T) {
	p := newProbe()
	p.AddMemory(models.Memory{Tick: 1, Text: "launch day", EmotionalWeight: 0.8, Fading: 0})
	p.AddMemory(models.Memory{Tick: 2, Text: "first star", EmotionalWeight: 0.1, Fading: 0.5})

	if VividCount(p, 0.6) != 2 {
		t.Fatalf("expected both memories vivid under threshold 0.6")
	}
	if MostVivid(p) != 0 {
		t.Fatalf("expected index 0 to be most vivid, got %d", MostVivid(p))
	}

	TickFading(p)
	if p.Memories[0].Fading <= 0 {
		t.Fatalf("expected fading to grow after a tick")
	}
}
