package patrol

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"agentorg/internal/types"
)

// Dispatcher sends directive messages to specific actors. Successive
// dispatches within one pass are paced by a rate limiter so a single
// detector can never burst many simultaneous downstream calls.
type Dispatcher struct {
	comms   Comms
	limiter *rate.Limiter
	fromID  string
}

// NewDispatcher creates a dispatcher sending on behalf of fromID.
// The first dispatch goes out immediately; each subsequent one waits out
// the pacing interval.
func NewDispatcher(comms Comms, cfg *Config) *Dispatcher {
	every := rate.Inf
	if cfg.DispatchPacing > 0 {
		every = rate.Every(cfg.DispatchPacing)
	}
	return &Dispatcher{
		comms:   comms,
		limiter: rate.NewLimiter(every, 1),
		fromID:  cfg.AnnouncerID,
	}
}

// Dispatch sends one directive message. A cancelled context aborts the
// pacing wait immediately so shutdown is never delayed by the limiter.
func (d *Dispatcher) Dispatch(ctx context.Context, toActorID, body string) error {
	if d.comms == nil {
		return fmt.Errorf("no communication channel configured")
	}
	if err := d.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("dispatch pacing interrupted: %w", err)
	}

	msg := &types.Message{
		FromID: d.fromID,
		ToID:   toActorID,
		Body:   body,
	}
	if err := d.comms.SendMessage(ctx, msg); err != nil {
		dispatchFailures.Inc()
		return fmt.Errorf("failed to dispatch to %s: %w", toActorID, err)
	}
	dispatchesTotal.Inc()
	return nil
}
