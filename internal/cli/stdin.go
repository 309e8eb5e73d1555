package cli

import (
	"bufio"
	"context"
	"io"

	"github.com/jabolina/clusterplayground/pkg/playground/types"
)

// ControlPublisher is the narrow slice of core.EventBus the stdin
// reader needs, kept as an interface so this package does not import
// pkg/playground/core.
type ControlPublisher interface {
	PublishControl(event types.ControlEvent)
	PublishUI(event types.UIEvent)
}

// ReadStdin reads one operator command per line from r until EOF or ctx
// is cancelled, translating each into a ControlEvent on bus. Parse
// errors are reported as a DebugLogUIEvent rather than terminating the
// loop.
func ReadStdin(ctx context.Context, r io.Reader, bus ControlPublisher) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line := scanner.Text()
		if line == "" {
			continue
		}

		event, err := Parse(line)
		if err != nil {
			bus.PublishUI(types.DebugLogUIEvent{Line: err.Error()})
			continue
		}
		bus.PublishControl(event)
	}
}
