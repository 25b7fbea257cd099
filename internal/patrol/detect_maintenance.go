package patrol

import (
	"context"
	"fmt"
)

// runMemoryMaintenance triggers one upkeep round of the long-term memory
// subsystem. Maintenance is best-effort housekeeping; a failure is logged
// and the pass moves on.
func (p *Patrol) runMemoryMaintenance(ctx context.Context, pass *passState) {
	if p.deps.Memory == nil {
		return
	}
	if err := p.deps.Memory.Maintain(ctx, pass.now); err != nil {
		fmt.Printf("Patrol: memory maintenance failed: %v\n", err)
	}
}
