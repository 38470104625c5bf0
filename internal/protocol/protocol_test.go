package protocol

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/JoshuaAFerguson/universe/internal/actuator"
	"github.com/JoshuaAFerguson/universe/internal/models"
	"github.com/JoshuaAFerguson/universe/internal/scenario"
)

// stubEngine is a minimal, hand-rolled Engine so the transport loop can be
// exercised without constructing a full internal/engine.Engine.
type stubEngine struct {
	seed int64
	tick int64

	lastActions map[models.UID]actuator.Action
	tickErr     error

	injected     []models.InjectedEvent
	snapshotTag  string
	restoreErr   error
	configRaw    json.RawMessage
	savedPath    string
	loadedPath   string
	scanSector   models.Sector
	forkTag      string
	forkSeed     int64
	history      []models.SimEvent
}

func (s *stubEngine) Tick(ctx context.Context, actions map[models.UID]actuator.Action) (*TickResult, error) {
	if s.tickErr != nil {
		return nil, s.tickErr
	}
	s.lastActions = actions
	s.tick++
	probe := models.NewProbe(models.UID{Hi: 1, Lo: 1}, "Stub")
	return &TickResult{Tick: s.tick, Views: []ProbeView{{Probe: probe}}}, nil
}

func (s *stubEngine) Status() StatusView {
	return StatusView{Seed: s.seed, Tick: s.tick, ActiveProbes: 1, TotalProbes: 1, SystemsVisited: 0}
}

func (s *stubEngine) Metrics() []scenario.MetricsSnapshot { return nil }

func (s *stubEngine) Inject(ev models.InjectedEvent) int {
	s.injected = append(s.injected, ev)
	return len(s.injected)
}

func (s *stubEngine) TakeSnapshot(tag string) int64 {
	s.snapshotTag = tag
	return s.tick
}

func (s *stubEngine) Restore(tag string) (int64, error) {
	if s.restoreErr != nil {
		return 0, s.restoreErr
	}
	return s.tick, nil
}

func (s *stubEngine) ApplyConfig(raw json.RawMessage) error {
	s.configRaw = raw
	return nil
}

func (s *stubEngine) Save(ctx context.Context, path string) error {
	s.savedPath = path
	return nil
}

func (s *stubEngine) Load(ctx context.Context, path string) error {
	s.loadedPath = path
	return nil
}

func (s *stubEngine) Scan(sector models.Sector) ([]models.System, error) {
	s.scanSector = sector
	return []models.System{{ID: models.UID{Hi: 5, Lo: 5}, Sector: sector}}, nil
}

func (s *stubEngine) Fork(tag string, newSeed int64) (int64, error) {
	s.forkTag, s.forkSeed = tag, newSeed
	return s.tick, nil
}

func (s *stubEngine) Lineage() []models.LineageEntry { return nil }

func (s *stubEngine) History(fromTick, toTick int64) []models.SimEvent { return s.history }

func (s *stubEngine) Seed() int64 { return s.seed }

func (s *stubEngine) CurrentTick() int64 { return s.tick }

func newTestSession(eng *stubEngine) (*Session, *bytes.Buffer) {
	var out bytes.Buffer
	sess := NewSession(eng, strings.NewReader(""), &out)
	return sess, &out
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var lines []map[string]interface{}
	for _, raw := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		if raw == "" {
			continue
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			t.Fatalf("decode line %q: %v", raw, err)
		}
		lines = append(lines, m)
	}
	return lines
}

func TestHandleUnknownCommand(t *testing.T) {
	eng := &stubEngine{seed: 1}
	sess, _ := newTestSession(eng)

	resp, quit := sess.handle(context.Background(), []byte(`{"cmd":"bogus"}`))
	if quit {
		t.Fatalf("unknown command should not quit the session")
	}
	m := resp.(map[string]interface{})
	if m["ok"].(bool) {
		t.Fatalf("expected ok=false for unknown command")
	}
	if m["error_kind"] != string(KindUnknown) {
		t.Fatalf("expected KindUnknown, got %v", m["error_kind"])
	}
}

func TestHandleMalformedJSON(t *testing.T) {
	eng := &stubEngine{seed: 1}
	sess, _ := newTestSession(eng)

	resp, _ := sess.handle(context.Background(), []byte(`{not json`))
	m := resp.(map[string]interface{})
	if m["error_kind"] != string(KindParseError) {
		t.Fatalf("expected KindParseError, got %v", m["error_kind"])
	}
}

// TestAutosaveFiresOnConfiguredInterval proves SetAutosave actually
// checkpoints every N ticks rather than being a no-op unless armed.
func TestAutosaveFiresOnConfiguredInterval(t *testing.T) {
	eng := &stubEngine{seed: 1}
	sess, _ := newTestSession(eng)
	sess.SetAutosave(2, "checkpoint.db")

	probeID := models.UID{Hi: 1, Lo: 1}
	line := fmt.Sprintf(`{"cmd":"tick","actions":{%q:{"action":"wait"}}}`, probeID.String())

	sess.handle(context.Background(), []byte(line))
	if eng.savedPath != "" {
		t.Fatalf("expected no autosave before the configured interval elapses, got save to %q", eng.savedPath)
	}

	sess.handle(context.Background(), []byte(line))
	if eng.savedPath != "checkpoint.db" {
		t.Fatalf("expected autosave to checkpoint.db on the 2nd tick, got %q", eng.savedPath)
	}
}

// TestAutosaveDisabledByDefault proves a session with no SetAutosave call
// never saves, matching the "empty path/interval disables it" contract.
func TestAutosaveDisabledByDefault(t *testing.T) {
	eng := &stubEngine{seed: 1}
	sess, _ := newTestSession(eng)

	probeID := models.UID{Hi: 1, Lo: 1}
	line := fmt.Sprintf(`{"cmd":"tick","actions":{%q:{"action":"wait"}}}`, probeID.String())
	for i := 0; i < 5; i++ {
		sess.handle(context.Background(), []byte(line))
	}
	if eng.savedPath != "" {
		t.Fatalf("expected no autosave without SetAutosave, got save to %q", eng.savedPath)
	}
}

func TestHandleTickParsesActionsAndAdvances(t *testing.T) {
	eng := &stubEngine{seed: 1}
	sess, _ := newTestSession(eng)

	probeID := models.UID{Hi: 1, Lo: 1}
	line := fmt.Sprintf(`{"cmd":"tick","actions":{%q:{"action":"wait"}}}`, probeID.String())
	resp, quit := sess.handle(context.Background(), []byte(line))
	if quit {
		t.Fatalf("tick should not quit")
	}
	m := resp.(map[string]interface{})
	if m["ok"] != true {
		t.Fatalf("expected ok=true, got %+v", m)
	}
	if eng.tick != 1 {
		t.Fatalf("expected stub tick to advance to 1, got %d", eng.tick)
	}
	if len(eng.lastActions) != 1 {
		t.Fatalf("expected one parsed action, got %d", len(eng.lastActions))
	}
}

func TestHandleTickRejectsUnknownActionKey(t *testing.T) {
	eng := &stubEngine{seed: 1}
	sess, _ := newTestSession(eng)

	resp, _ := sess.handle(context.Background(), []byte(`{"cmd":"tick","actions":{"not-a-uid":{"action":"wait"}}}`))
	m := resp.(map[string]interface{})
	if m["ok"].(bool) {
		t.Fatalf("expected rejection of a malformed action-map key")
	}
	if m["error_kind"] != string(KindParseError) {
		t.Fatalf("expected KindParseError, got %v", m["error_kind"])
	}
}

func TestHandleTickRejectsUnknownResourceName(t *testing.T) {
	eng := &stubEngine{seed: 1}
	sess, _ := newTestSession(eng)

	probeID := models.UID{Hi: 1, Lo: 1}
	line := fmt.Sprintf(`{"cmd":"tick","actions":{%q:{"action":"mine","resource":"unobtainium"}}}`, probeID.String())
	resp, _ := sess.handle(context.Background(), []byte(line))
	m := resp.(map[string]interface{})
	if m["ok"].(bool) {
		t.Fatalf("expected rejection of an unknown resource name")
	}
	if m["error_kind"] != string(KindInvalidArgument) {
		t.Fatalf("expected KindInvalidArgument, got %v", m["error_kind"])
	}
}

func TestHandleStatusAndMetrics(t *testing.T) {
	eng := &stubEngine{seed: 42, tick: 3}
	sess, _ := newTestSession(eng)

	resp, _ := sess.handle(context.Background(), []byte(`{"cmd":"status"}`))
	m := resp.(map[string]interface{})
	if m["seed"].(float64) != 42 || m["tick"].(float64) != 3 {
		t.Fatalf("unexpected status payload: %+v", m)
	}

	resp, _ = sess.handle(context.Background(), []byte(`{"cmd":"metrics"}`))
	m = resp.(map[string]interface{})
	if m["ok"] != true {
		t.Fatalf("expected ok=true for metrics")
	}
}

func TestHandleInjectRequiresEvent(t *testing.T) {
	eng := &stubEngine{}
	sess, _ := newTestSession(eng)

	resp, _ := sess.handle(context.Background(), []byte(`{"cmd":"inject"}`))
	m := resp.(map[string]interface{})
	if m["ok"].(bool) {
		t.Fatalf("expected missing-event rejection")
	}

	resp, _ = sess.handle(context.Background(), []byte(`{"cmd":"inject","event":{"type":"wonder","description":"a gifted vista","severity":0.5}}`))
	m = resp.(map[string]interface{})
	if m["ok"] != true {
		t.Fatalf("expected ok=true for a valid inject, got %+v", m)
	}
	if len(eng.injected) != 1 {
		t.Fatalf("expected one injected event recorded on the stub")
	}
}

func TestHandleSaveLoadRequirePath(t *testing.T) {
	eng := &stubEngine{}
	sess, _ := newTestSession(eng)

	resp, _ := sess.handle(context.Background(), []byte(`{"cmd":"save"}`))
	m := resp.(map[string]interface{})
	if m["ok"].(bool) {
		t.Fatalf("expected missing-path rejection for save")
	}

	resp, _ = sess.handle(context.Background(), []byte(`{"cmd":"save","path":"/tmp/checkpoint.db"}`))
	m = resp.(map[string]interface{})
	if m["ok"] != true || eng.savedPath != "/tmp/checkpoint.db" {
		t.Fatalf("expected save to forward the path, got %+v (savedPath=%q)", m, eng.savedPath)
	}

	resp, _ = sess.handle(context.Background(), []byte(`{"cmd":"load","path":"/tmp/checkpoint.db"}`))
	m = resp.(map[string]interface{})
	if m["ok"] != true || eng.loadedPath != "/tmp/checkpoint.db" {
		t.Fatalf("expected load to forward the path, got %+v (loadedPath=%q)", m, eng.loadedPath)
	}
}

func TestHandleScan(t *testing.T) {
	eng := &stubEngine{}
	sess, _ := newTestSession(eng)

	resp, _ := sess.handle(context.Background(), []byte(`{"cmd":"scan","sector":[1,2,3]}`))
	m := resp.(map[string]interface{})
	if m["ok"] != true {
		t.Fatalf("expected ok=true for scan, got %+v", m)
	}
	if eng.scanSector != (models.Sector{X: 1, Y: 2, Z: 3}) {
		t.Fatalf("expected scan to forward the requested sector, got %+v", eng.scanSector)
	}
}

func TestHandleQuitStopsRun(t *testing.T) {
	eng := &stubEngine{seed: 1}
	var out bytes.Buffer
	sess := NewSession(eng, strings.NewReader(`{"cmd":"status"}`+"\n"+`{"cmd":"quit"}`+"\n"+`{"cmd":"status"}`+"\n"), &out)

	if err := sess.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	lines := decodeLines(t, &out)
	// ready line + status + quit, but not the trailing status after quit.
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines (ready, status, quit ack), got %d: %+v", len(lines), lines)
	}
	if lines[0]["ready"] != true {
		t.Fatalf("expected first line to be the ready banner, got %+v", lines[0])
	}
}
