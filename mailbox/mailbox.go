// Package mailbox hands frames from a producer to a consumer running on
// its own cadence.
//
// The Mailbox has a single slot: a frame put while another one is pending
// is dropped, so the consumer always gets the oldest frame it has not seen
// and producers never block.
package mailbox

import (
	"sync"
	"sync/atomic"

	"github.com/srlehn/rawimg/img"
)

type Mailbox struct {
	mu      sync.Mutex
	pending *img.Image

	accepted atomic.Uint64
	rejected atomic.Uint64
	taken    atomic.Uint64
}

func New() *Mailbox { return &Mailbox{} }

// Put stores frame if the slot is empty and reports whether it did.
// The mailbox takes over the handle of an accepted frame; a rejected
// frame stays with the caller. Null images are rejected.
func (m *Mailbox) Put(frame *img.Image) bool {
	if m == nil || frame.IsNull() {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending != nil {
		m.rejected.Add(1)
		return false
	}
	m.pending = frame
	m.accepted.Add(1)
	return true
}

// Take empties the slot. It returns nil if no frame is pending.
// The caller owns the returned handle.
func (m *Mailbox) Take() *img.Image {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	frame := m.pending
	m.pending = nil
	m.mu.Unlock()
	if frame != nil {
		m.taken.Add(1)
	}
	return frame
}

// Pending reports whether a frame waits in the slot.
func (m *Mailbox) Pending() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending != nil
}

// Drain releases a pending frame.
func (m *Mailbox) Drain() {
	if frame := m.Take(); frame != nil {
		frame.Release()
	}
}

// Stats counts the calls of Put and Take.
type Stats struct {
	Accepted uint64 // frames stored by Put
	Rejected uint64 // frames dropped by Put because the slot was occupied
	Taken    uint64 // frames removed by Take
}

func (m *Mailbox) Stats() Stats {
	if m == nil {
		return Stats{}
	}
	return Stats{
		Accepted: m.accepted.Load(),
		Rejected: m.rejected.Load(),
		Taken:    m.taken.Load(),
	}
}
