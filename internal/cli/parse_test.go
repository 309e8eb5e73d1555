package cli

import (
	"testing"

	"github.com/jabolina/clusterplayground/pkg/playground/types"
)

func TestParse_Put(t *testing.T) {
	event, err := Parse("put x 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cmd, ok := event.(types.KVCommandEvent)
	if !ok {
		t.Fatalf("expected a KVCommandEvent, got %T", event)
	}
	if cmd.Cmd.Put == nil || cmd.Cmd.Put.Key != "x" || cmd.Cmd.Put.Value != "1" {
		t.Errorf("unexpected command: %+v", cmd.Cmd)
	}
	if cmd.TargetPID != nil {
		t.Errorf("expected no target, got %v", *cmd.TargetPID)
	}
}

func TestParse_PutWithTarget(t *testing.T) {
	event, err := Parse("put x 1 3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cmd := event.(types.KVCommandEvent)
	if cmd.TargetPID == nil || *cmd.TargetPID != 3 {
		t.Errorf("expected target 3, got %v", cmd.TargetPID)
	}
}

func TestParse_Get(t *testing.T) {
	event, err := Parse("get x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cmd := event.(types.KVCommandEvent)
	if cmd.Cmd.Get == nil || cmd.Cmd.Get.Key != "x" {
		t.Errorf("unexpected command: %+v", cmd.Cmd)
	}
}

func TestParse_Delete(t *testing.T) {
	event, err := Parse("delete x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cmd := event.(types.KVCommandEvent)
	if cmd.Cmd.Delete == nil || cmd.Cmd.Delete.Key != "x" {
		t.Errorf("unexpected command: %+v", cmd.Cmd)
	}
}

func TestParse_ConnectionAllNodes(t *testing.T) {
	event, err := Parse("connection 1 false")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	conn := event.(types.SetConnectionEvent)
	if conn.From != 1 || conn.To != nil || conn.Connected {
		t.Errorf("unexpected event: %+v", conn)
	}
}

func TestParse_ConnectionSpecificNode(t *testing.T) {
	event, err := Parse("connection 1 2 true")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	conn := event.(types.SetConnectionEvent)
	if conn.From != 1 || conn.To == nil || *conn.To != 2 || !conn.Connected {
		t.Errorf("unexpected event: %+v", conn)
	}
}

func TestParse_Batch(t *testing.T) {
	event, err := Parse("batch 10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if batch := event.(types.StartBatchingProposeEvent); batch.N != 10 {
		t.Errorf("expected N=10, got %d", batch.N)
	}
}

func TestParse_Scenario(t *testing.T) {
	event, err := Parse("scenario chained")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scenario := event.(types.ScenarioEvent); scenario.Name != "chained" {
		t.Errorf("expected chained, got %s", scenario.Name)
	}
}

func TestParse_ScenarioRejectsUnknownName(t *testing.T) {
	if _, err := Parse("scenario bogus"); err == nil {
		t.Error("expected an error for an unknown scenario name")
	}
}

func TestParse_Clear(t *testing.T) {
	event, err := Parse("clear")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := event.(types.ClearConsoleControlEvent); !ok {
		t.Errorf("expected ClearConsoleControlEvent, got %T", event)
	}
}

func TestParse_UnknownCommand(t *testing.T) {
	if _, err := Parse("frobnicate"); err == nil {
		t.Error("expected an error for an unknown command")
	}
}

func TestParse_EmptyLine(t *testing.T) {
	if _, err := Parse("   "); err == nil {
		t.Error("expected an error for an empty line")
	}
}

func TestParse_ConnectionRejectsNonNumericNode(t *testing.T) {
	if _, err := Parse("connection x true"); err == nil {
		t.Error("expected an error for a non-numeric node id")
	}
}
