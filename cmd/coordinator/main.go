// Command coordinator boots the cluster playground coordinator: it
// derives the port topology from the configured node set, binds the
// mesh and client listeners, and starts accepting operator commands on
// stdin.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/jabolina/clusterplayground/internal/cli"
	"github.com/jabolina/clusterplayground/pkg/playground/core"
	"github.com/jabolina/clusterplayground/pkg/playground/definition"
	"github.com/jabolina/clusterplayground/pkg/playground/metrics"
	"github.com/jabolina/clusterplayground/pkg/playground/types"
	"github.com/jabolina/clusterplayground/pkg/playground/uiserver"
)

var (
	nodesFlag   string
	debugLog    bool
	metricsAddr string
	uiAddr      string
)

func main() {
	root := &cobra.Command{
		Use:   "coordinator",
		Short: "Cluster playground coordinator",
		Long: `Runs the man-in-the-middle network mediator for a replicated
state-machine cluster: it proxies inter-replica traffic, multiplexes
client-API sockets, aggregates cluster view state, paces command
injection, and runs pre-canned partition scenarios.`,
		RunE: run,
	}

	root.Flags().StringVar(&nodesFlag, "nodes", "", "JSON array of node ids, e.g. [1,2,3,4,5] (defaults to the NODES environment variable)")
	root.Flags().BoolVar(&debugLog, "debug-log", false, "enable debug-level logging")
	root.Flags().StringVar(&metricsAddr, "metrics-addr", ":9090", "address to serve /metrics on")
	root.Flags().StringVar(&uiAddr, "ui-addr", ":9091", "address to serve the dashboard websocket on")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(_ *cobra.Command, _ []string) error {
	nodes, err := resolveNodes()
	if err != nil {
		return err
	}

	log := definition.NewDefaultLogger("coordinator")
	log.ToggleDebug(debugLog)

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	bus := core.NewEventBus(log)
	invoker := core.NewInvoker()
	coordinator := core.NewCoordinator(nodes, invoker, bus, log, collector, collector, collector)

	ui := uiserver.NewServer(log)
	console := cli.NewConsoleSink()
	sink := fanoutSink{console, ui}

	dispatcher := core.NewDispatcher(bus, coordinator, sink)
	invoker.Spawn(func() { dispatcher.Run(ctx) })

	serveMetrics(ctx, log, registry)
	serveUI(ctx, log, ui)

	bus.PublishControl(types.Initialize{})

	go cli.ReadStdin(ctx, os.Stdin, bus)

	<-ctx.Done()
	log.Info("shutting down")
	coordinator.Close()
	invoker.Wait()
	return nil
}

// resolveNodes parses --nodes, falling back to the NODES environment
// variable.
func resolveNodes() ([]types.NodeID, error) {
	raw := nodesFlag
	if raw == "" {
		raw = os.Getenv("NODES")
	}
	if raw == "" {
		return nil, fmt.Errorf("no node set configured: pass --nodes or set NODES")
	}

	var ids []uint64
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("NODES must be a JSON array of positive integers: %w", err)
	}

	nodes := make([]types.NodeID, len(ids))
	for i, id := range ids {
		nodes[i] = types.NodeID(id)
	}
	return nodes, nil
}

func serveMetrics(ctx context.Context, log types.Logger, registry *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: metricsAddr, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("metrics server: %v", err)
		}
	}()
	go func() {
		<-ctx.Done()
		_ = server.Close()
	}()
}

func serveUI(ctx context.Context, log types.Logger, ui *uiserver.Server) {
	mux := http.NewServeMux()
	mux.Handle("/ws", ui)
	server := &http.Server{Addr: uiAddr, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("ui server: %v", err)
		}
	}()
	go func() {
		<-ctx.Done()
		_ = server.Close()
	}()
}

// fanoutSink forwards every UIEvent to both the console and the
// websocket push server.
type fanoutSink []core.UISink

func (f fanoutSink) HandleUI(event types.UIEvent) {
	for _, sink := range f {
		sink.HandleUI(event)
	}
}
