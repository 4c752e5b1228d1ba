package channel

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/floppyio/floppyio-go/pkg/layout"
	"github.com/floppyio/floppyio-go/pkg/log"
	"github.com/floppyio/floppyio-go/pkg/region"
)

// smallRegion gives 31-byte buffers: 30 bytes of text, 27 of binary payload.
const smallRegion = 64

// eventRecorder is a protocol logger that keeps every event.
type eventRecorder struct {
	mu     sync.Mutex
	events []log.Event
}

func (r *eventRecorder) Log(e log.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// frames returns the frame events logged in the given direction.
func (r *eventRecorder) frames(dir log.Direction) []*log.FrameEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*log.FrameEvent
	for _, e := range r.events {
		if e.Frame != nil && e.Direction == dir {
			out = append(out, e.Frame)
		}
	}
	return out
}

func (r *eventRecorder) count(cat log.Category) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Category == cat {
			n++
		}
	}
	return n
}

// newPair returns a host and a peer channel sharing one in-memory region.
// hostCfg and peerCfg have their roles and region size overridden.
func newPair(t *testing.T, size int64, hostCfg, peerCfg Config) (*Channel, *Channel, *region.Memory) {
	t.Helper()
	mem := region.NewMemory(size)

	hostCfg.Role = layout.RoleHost
	hostCfg.RegionSize = size
	host, err := New(mem, hostCfg)
	require.NoError(t, err)

	peerCfg.Role = layout.RolePeer
	peerCfg.RegionSize = size
	peer, err := New(mem, peerCfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		host.Close()
		peer.Close()
	})
	return host, peer, mem
}
