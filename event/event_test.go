package event

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nimbusdb/nimbus-go-driver/address"
	"github.com/nimbusdb/nimbus-go-driver/bson"
)

func TestCommandMonitorDeliversStartedHook(t *testing.T) {
	var started int
	m := &CommandMonitor{
		Started: func(string, address.Address, *bson.Document) { started++ },
	}
	Start(m, "ping", address.Address("h:27017"), bson.NewDocument())
	if started != 1 {
		t.Fatalf("expected Started to fire exactly once, got %d", started)
	}
}

func TestLogSinkFormatsStartedAndCompleted(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(&buf)
	mon := sink.Monitor()

	addr := address.Address("h:27017")
	body := bson.NewDocument(bson.EC.Int32("ping", 1))

	track := Start(mon, "ping", addr, body)
	track.Succeeded(bson.NewDocument(bson.EC.Boolean("ok", true)))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected exactly 2 lines, got %q", buf.String())
	}
	if lines[0] != `COMMAND.ping h:27017 STARTED: { ping: 1 }` {
		t.Fatalf("STARTED line = %q, want body rendered as { ping: 1 }", lines[0])
	}
	if !strings.HasPrefix(lines[1], `COMMAND.ping h:27017 COMPLETED: { ok: true } (`) {
		t.Fatalf("COMPLETED line = %q, want reply rendered as { ok: true }", lines[1])
	}
}

func TestLogSinkFormatsFailure(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(&buf)
	mon := sink.Monitor()

	track := Start(mon, "find", address.Address("h:27017"), bson.NewDocument())
	track.Failed(errTest{})

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected exactly 2 lines, got %q", out)
	}
	if !strings.HasPrefix(lines[1], "COMMAND.find h:27017 COMPLETED: error boom (") {
		t.Fatalf("unexpected failure line: %q", out)
	}
}

type errTest struct{}

func (errTest) Error() string { return "boom" }

func TestNilMonitorHooksAreNoOps(t *testing.T) {
	track := Start(nil, "find", address.Address("h:27017"), bson.NewDocument())
	track.Succeeded(bson.NewDocument())
}
