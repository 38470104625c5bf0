// File: internal/protocol/protocol.go
// Project: UNIVERSE
// Description: Line-delimited JSON REPL driving the engine. Grounded on the
//              teacher's internal/api/server package: a thin transport loop
//              (session.go's read-dispatch-write cycle) plus a dedicated
//              conversion layer (converters.go) between internal state and
//              wire DTOs, with the SSH+BubbleTea transport replaced by a
//              single stdin/stdout bufio.Scanner loop per §4.12/§6.
package protocol

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/JoshuaAFerguson/universe/internal/actuator"
	"github.com/JoshuaAFerguson/universe/internal/logger"
	"github.com/JoshuaAFerguson/universe/internal/models"
	"github.com/JoshuaAFerguson/universe/internal/scenario"
	"github.com/google/uuid"
)

var log = logger.WithComponent("Protocol")

// ErrorKind names one of the fixed protocol error categories (§7).
type ErrorKind string

const (
	KindParseError      ErrorKind = "ParseError"
	KindUnknown         ErrorKind = "Unknown"
	KindInvalidArgument ErrorKind = "InvalidArgument"
	KindPrecondition    ErrorKind = "Precondition"
	KindNotFound        ErrorKind = "NotFound"
	KindCapacity        ErrorKind = "Capacity"
	KindIO              ErrorKind = "IO"
	KindFuelExhausted   ErrorKind = "FuelExhausted"
)

// ProtoError is a classified protocol-layer error; its Kind is surfaced to
// the caller alongside the message so a host can branch on error category
// without string-matching.
type ProtoError struct {
	Kind    ErrorKind
	Message string
}

func (e *ProtoError) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Message) }

func newErr(kind ErrorKind, format string, args ...interface{}) *ProtoError {
	return &ProtoError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// request is the envelope every incoming line is parsed into. Only the
// fields relevant to Cmd are populated by the caller; everything else is
// left zero.
type request struct {
	Cmd string `json:"cmd"`

	Actions map[string]actionWire `json:"actions,omitempty"`

	Tag    string          `json:"tag,omitempty"`
	Event  *injectWire     `json:"event,omitempty"`
	Config json.RawMessage `json:"config,omitempty"`
	Path   string          `json:"path,omitempty"`

	Sector   *[3]int `json:"sector,omitempty"`
	ProbeID  string  `json:"probe_id,omitempty"`
	NewSeed  int64   `json:"new_seed,omitempty"`
	FromTick int64   `json:"from_tick,omitempty"`
	ToTick   int64   `json:"to_tick,omitempty"`
}

// actionWire is the wire shape of one probe's requested action inside a
// tick command's "actions" map.
type actionWire struct {
	Action        string  `json:"action"`
	BodyID        string  `json:"body_id,omitempty"`
	SurveyLevel   int     `json:"survey_level,omitempty"`
	Resource      string  `json:"resource,omitempty"`
	TargetSystem  string  `json:"target_system,omitempty"`
	TargetSector  *[3]int `json:"target_sector,omitempty"`
	TargetProbe   string  `json:"target_probe,omitempty"`
	Text          string  `json:"text,omitempty"`
	StructureType string  `json:"structure_type,omitempty"`
	Builders      []string `json:"builders,omitempty"`
	Amount        float64 `json:"amount,omitempty"`
	SameSystem    bool    `json:"same_system,omitempty"`
	ProposalID    int     `json:"proposal_id,omitempty"`
	InFavor       bool    `json:"in_favor,omitempty"`
	Domain        string  `json:"domain,omitempty"`
	DeadlineTicks int64   `json:"deadline_ticks,omitempty"`
}

type injectWire struct {
	Type          string  `json:"type"`
	Subtype       string  `json:"subtype"`
	Severity      float64 `json:"severity"`
	Description   string  `json:"description"`
	TargetProbeID string  `json:"target_probe_id,omitempty"`
	Pending       bool    `json:"pending,omitempty"`
}

// Engine is every capability the protocol session needs from the running
// simulation. internal/engine.Engine implements this; tests may supply a
// stub, keeping the transport loop decoupled from engine internals exactly
// as the teacher's server package depends on repository interfaces rather
// than concrete database types.
type Engine interface {
	Tick(ctx context.Context, actions map[models.UID]actuator.Action) (*TickResult, error)
	Status() StatusView
	Metrics() []scenario.MetricsSnapshot
	Inject(ev models.InjectedEvent) int
	TakeSnapshot(tag string) int64
	Restore(tag string) (int64, error)
	ApplyConfig(raw json.RawMessage) error
	Save(ctx context.Context, path string) error
	Load(ctx context.Context, path string) error
	Scan(sector models.Sector) ([]models.System, error)
	Fork(tag string, newSeed int64) (int64, error)
	Lineage() []models.LineageEntry
	History(fromTick, toTick int64) []models.SimEvent
	Seed() int64
	CurrentTick() int64
}

// Session drives one line-delimited JSON REPL connection over r/w.
type Session struct {
	engine Engine
	in     *bufio.Scanner
	out    io.Writer
	id     string

	autosaveInterval int64
	autosavePath     string
}

// NewSession constructs a session with a fresh correlation id, following
// the teacher's per-connection session identity pattern.
func NewSession(engine Engine, r io.Reader, w io.Writer) *Session {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024)
	return &Session{engine: engine, in: scanner, out: w, id: uuid.NewString()}
}

// SetAutosave arms a periodic checkpoint: every intervalTicks ticks, the
// session saves to path after dispatching a "tick" command. Pass
// intervalTicks <= 0 or an empty path to disable (the default).
func (s *Session) SetAutosave(intervalTicks int64, path string) {
	s.autosaveInterval = intervalTicks
	s.autosavePath = path
}

// Run executes the read-dispatch-write loop until EOF or a "quit" command.
// It emits the start-up ready line before blocking on the first read.
func (s *Session) Run(ctx context.Context) error {
	log.Info("session %s starting at tick %d", s.id, s.engine.CurrentTick())
	s.writeLine(map[string]interface{}{
		"ok": true, "ready": true, "seed": s.engine.Seed(), "tick": s.engine.CurrentTick(),
	})

	for s.in.Scan() {
		line := s.in.Bytes()
		if len(line) == 0 {
			continue
		}
		resp, quit := s.handle(ctx, line)
		s.writeLine(resp)
		if quit {
			break
		}
	}
	if err := s.in.Err(); err != nil {
		return fmt.Errorf("protocol: read: %w", err)
	}
	return nil
}

func (s *Session) writeLine(v interface{}) {
	enc, err := json.Marshal(v)
	if err != nil {
		log.Error("session %s: marshal response: %v", s.id, err)
		enc = []byte(`{"ok":false,"error":"internal encoding failure"}`)
	}
	if _, err := s.out.Write(append(enc, '\n')); err != nil {
		log.Error("session %s: write response: %v", s.id, err)
	}
}

func (s *Session) handle(ctx context.Context, line []byte) (interface{}, bool) {
	var req request
	if err := json.Unmarshal(line, &req); err != nil {
		return errorResponse(newErr(KindParseError, "%v", err)), false
	}

	switch req.Cmd {
	case "tick":
		return s.handleTick(ctx, req), false
	case "status":
		return s.handleStatus(), false
	case "metrics":
		return s.handleMetrics(), false
	case "inject":
		return s.handleInject(req), false
	case "snapshot":
		return s.handleSnapshot(req), false
	case "restore":
		return s.handleRestore(req), false
	case "config":
		return s.handleConfig(req), false
	case "save":
		return s.handleSave(ctx, req), false
	case "load":
		return s.handleLoad(ctx, req), false
	case "scan":
		return s.handleScan(req), false
	case "scenario":
		return s.handleFork(req), false
	case "lineage":
		return s.handleLineage(), false
	case "history":
		return s.handleHistory(req), false
	case "quit":
		return map[string]interface{}{"ok": true}, true
	default:
		return errorResponse(newErr(KindUnknown, "unrecognized command %q", req.Cmd)), false
	}
}

func errorResponse(err *ProtoError) map[string]interface{} {
	return map[string]interface{}{"ok": false, "error": err.Message, "error_kind": string(err.Kind)}
}
