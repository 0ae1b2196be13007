package wsbridge

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/koscakluka/ema-rescue/core/narration"
)

// RemotePlayer is a [narration.Player] whose audio plays in the client.
// The client reports each clip's end with a narration_finished message.
type RemotePlayer struct {
	send func(Outbound) error

	mu      sync.Mutex
	pending map[string]func()
}

func NewRemotePlayer(send func(Outbound) error) *RemotePlayer {
	return &RemotePlayer{send: send, pending: make(map[string]func())}
}

func (p *RemotePlayer) Play(ctx context.Context, clip narration.ClipID, onFinished func()) error {
	id := uuid.NewString()

	p.mu.Lock()
	p.pending[id] = onFinished
	p.mu.Unlock()

	if err := p.send(Outbound{Type: TypeNarrationPlay, Payload: NarrationPayload{ID: id, Clip: clip.String()}}); err != nil {
		p.mu.Lock()
		delete(p.pending, id)
		p.mu.Unlock()
		return fmt.Errorf("failed to send clip to client: %w", err)
	}
	return nil
}

// Stop forgets every pending clip, so late finish reports are ignored.
func (p *RemotePlayer) Stop() error {
	p.mu.Lock()
	clear(p.pending)
	p.mu.Unlock()

	return p.send(Outbound{Type: TypeNarrationStop})
}

// Finished resolves the clip the client played out. It reports whether the
// clip was still pending.
func (p *RemotePlayer) Finished(id string) bool {
	p.mu.Lock()
	onFinished, ok := p.pending[id]
	delete(p.pending, id)
	p.mu.Unlock()

	if !ok {
		return false
	}
	if onFinished != nil {
		onFinished()
	}
	return true
}
