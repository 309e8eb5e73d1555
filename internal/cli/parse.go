// Package cli parses operator commands into core.ControlEvents:
// put/get/delete/connection/batch/scenario/clear.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jabolina/clusterplayground/pkg/playground/types"
)

// ParseError reports a malformed operator command. It is not fatal —
// callers surface it as a DebugLogUIEvent rather than aborting.
type ParseError struct {
	msg string
}

func (e *ParseError) Error() string { return e.msg }

func parseError(format string, args ...interface{}) error {
	return &ParseError{msg: fmt.Sprintf(format, args...)}
}

const usage = "valid commands are: put/get/delete/connection/batch/scenario/clear"

// Parse translates one line of operator input into a ControlEvent.
func Parse(line string) (types.ControlEvent, error) {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 {
		return nil, parseError(usage)
	}

	switch fields[0] {
	case "clear":
		return types.ClearConsoleControlEvent{}, nil
	case "put":
		return parsePut(fields[1:])
	case "get":
		return parseGet(fields[1:])
	case "delete":
		return parseDelete(fields[1:])
	case "connection":
		return parseConnection(fields[1:])
	case "batch":
		return parseBatch(fields[1:])
	case "scenario":
		return parseScenario(fields[1:])
	default:
		return nil, parseError(usage)
	}
}

func parsePut(args []string) (types.ControlEvent, error) {
	if len(args) < 2 {
		return nil, parseError("usage: put <key> <value> [node-id]")
	}
	target, err := parseOptionalTarget(args[2:])
	if err != nil {
		return nil, err
	}
	return types.KVCommandEvent{Cmd: types.NewPut(args[0], args[1]), TargetPID: target}, nil
}

func parseGet(args []string) (types.ControlEvent, error) {
	if len(args) < 1 {
		return nil, parseError("usage: get <key> [node-id]")
	}
	target, err := parseOptionalTarget(args[1:])
	if err != nil {
		return nil, err
	}
	return types.KVCommandEvent{Cmd: types.NewGet(args[0]), TargetPID: target}, nil
}

func parseDelete(args []string) (types.ControlEvent, error) {
	if len(args) < 1 {
		return nil, parseError("usage: delete <key> [node-id]")
	}
	target, err := parseOptionalTarget(args[1:])
	if err != nil {
		return nil, err
	}
	return types.KVCommandEvent{Cmd: types.NewDelete(args[0]), TargetPID: target}, nil
}

func parseOptionalTarget(args []string) (*types.NodeID, error) {
	if len(args) == 0 {
		return nil, nil
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return nil, parseError("node id must be a number, got %q", args[0])
	}
	node := types.NodeID(id)
	return &node, nil
}

func parseConnection(args []string) (types.ControlEvent, error) {
	const usageMsg = "usage: connection <node-id> [other-node-id] <true|false>"
	if len(args) < 2 {
		return nil, parseError(usageMsg)
	}

	from, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return nil, parseError("connection: first argument must be a number")
	}

	if len(args) == 2 {
		connected, err := strconv.ParseBool(args[1])
		if err != nil {
			return nil, parseError("connection: last argument must be a bool")
		}
		return types.SetConnectionEvent{From: types.NodeID(from), To: nil, Connected: connected}, nil
	}

	if len(args) < 3 {
		return nil, parseError(usageMsg)
	}
	to, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return nil, parseError("connection: second argument must be a number")
	}
	connected, err := strconv.ParseBool(args[2])
	if err != nil {
		return nil, parseError("connection: last argument must be a bool")
	}
	toNode := types.NodeID(to)
	return types.SetConnectionEvent{From: types.NodeID(from), To: &toNode, Connected: connected}, nil
}

func parseBatch(args []string) (types.ControlEvent, error) {
	if len(args) < 1 {
		return nil, parseError("usage: batch <number-of-proposals>")
	}
	n, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return nil, parseError("batch: argument must be a number")
	}
	return types.StartBatchingProposeEvent{N: n}, nil
}

var validScenarios = map[string]struct{}{
	"restore":     {},
	"qloss":       {},
	"constrained": {},
	"chained":     {},
}

func parseScenario(args []string) (types.ControlEvent, error) {
	if len(args) < 1 {
		return nil, parseError("usage: scenario <restore|qloss|constrained|chained>")
	}
	if _, ok := validScenarios[args[0]]; !ok {
		return nil, parseError("usage: scenario <restore|qloss|constrained|chained>")
	}
	return types.ScenarioEvent{Name: args[0]}, nil
}
