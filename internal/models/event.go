// File: internal/models/event.go
// Project: UNIVERSE
// Description: Stochastic simulation events and pending hazard threats.
package models

// SimEvent is a single recorded occurrence in the simulation's history.
type SimEvent struct {
	Type        EventType `json:"type"`
	Subtype     string    `json:"subtype"`
	ProbeID     UID       `json:"probe_id"`
	SystemID    UID       `json:"system_id"`
	Tick        int64     `json:"tick"`
	Description string    `json:"description"`
	Severity    float64   `json:"severity"`
}

// PendingHazard is a queued hazard with a warning delay before it strikes.
type PendingHazard struct {
	ProbeID   UID     `json:"probe_id"`
	Subtype   string  `json:"subtype"`
	Severity  float64 `json:"severity"`
	StrikeTick int64  `json:"strike_tick"`
}

// InjectedEvent is an operator- or agent-supplied event queued for the next
// tick's injection flush.
type InjectedEvent struct {
	Type        EventType `json:"type"`
	Subtype     string    `json:"subtype"`
	Description string    `json:"description"`
	Severity    float64   `json:"severity"`
	TargetProbeID UID     `json:"target_probe_id"` // zero = all probes
	Pending     bool      `json:"pending"`
}
