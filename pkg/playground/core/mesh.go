package core

import (
	"context"

	"github.com/jabolina/clusterplayground/pkg/playground/types"
)

// Mesh owns every Link Proxy in the inter-replica port mesh: one per
// derived PairPort, 2*C(|N|,2) listeners total.
type Mesh struct {
	proxies []*LinkProxy
}

// BindMesh binds a listener for every PairPort in the topology. Bind
// failures are a startup-time configuration fault: the whole mesh
// fails to come up together rather than partially.
func BindMesh(topology *types.Topology, bus *LinkBus, ingress chan<- Frame, log types.Logger) (*Mesh, error) {
	mesh := &Mesh{}
	for port, peer := range topology.PeerPort {
		proxy, err := ListenLinkProxy(port, peer, bus, ingress, log)
		if err != nil {
			mesh.Close()
			return nil, err
		}
		mesh.proxies = append(mesh.proxies, proxy)
	}
	return mesh, nil
}

// Serve starts every proxy's accept+relay loop through invoker, one
// goroutine per port.
func (m *Mesh) Serve(ctx context.Context, invoker Invoker) {
	for _, proxy := range m.proxies {
		proxy := proxy
		invoker.Spawn(func() { proxy.Serve(ctx, invoker) })
	}
}

// Close stops every proxy's listener, unblocking any pending Accept.
func (m *Mesh) Close() {
	for _, proxy := range m.proxies {
		_ = proxy.Close()
	}
}
