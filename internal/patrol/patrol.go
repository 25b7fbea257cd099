package patrol

import (
	"context"
	"fmt"
	"sync"
	"time"

	"agentorg/internal/types"
)

// Patrol is the periodic reconciliation and notification engine. It runs
// thirteen detectors in a fixed order on every pass, consults the
// cooldown ledger before emitting findings, dispatches directive messages
// where someone must act, and merges the rest into a single digest.
//
// All bookkeeping (cooldowns, daily-digest marker, provider status cache)
// is owned by the instance and lives in memory only; Reinitialize clears
// it when the host application swaps its active workspace.
type Patrol struct {
	mu sync.Mutex

	deps       Deps
	config     *Config
	cooldowns  *CooldownLedger
	dispatcher *Dispatcher

	// Provider availability cache for transition detection.
	// Providers never seen are assumed available.
	healthStatus map[string]bool

	// lastDigestDay gates the daily digest to once per calendar day
	lastDigestDay string

	// Control
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool

	// Reentrancy guard: a new pass never starts while one is executing
	passActive bool
}

// PassReport summarizes one pass for callers and tests
type PassReport struct {
	Findings    []Finding
	Synced      int  // Project tasks synchronized from operations
	Repaired    int  // Integrity repairs applied
	DigestSent  bool // Whether a combined digest was announced
	DailyDigest bool // Whether the once-per-day digest was built
}

// New creates a patrol engine. Collaborators are injected fully
// initialized; the engine never resolves dependencies lazily.
func New(deps Deps) (*Patrol, error) {
	if deps.Tasks == nil {
		return nil, fmt.Errorf("task store is required")
	}

	config := deps.Config
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Patrol{
		deps:         deps,
		config:       config,
		cooldowns:    NewCooldownLedger(config.cooldownWindows()),
		dispatcher:   NewDispatcher(deps.Comms, config),
		healthStatus: make(map[string]bool),
	}, nil
}

// Start begins the patrol loop. Calling Start while already running is a
// no-op. A zero or negative interval uses the configured default.
func (p *Patrol) Start(interval time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return
	}
	if interval <= 0 {
		interval = p.config.CheckInterval
	}

	p.ctx, p.cancel = context.WithCancel(context.Background())
	p.running = true

	p.wg.Add(1)
	go p.loop(interval)

	fmt.Printf("Patrol: started (interval=%v, warmup=%v)\n", interval, p.config.WarmupDelay)
}

// Stop cancels all pending work and waits for an in-flight pass to wind
// down. Safe to call when never started, and safe to call twice.
func (p *Patrol) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.cancel()
	p.running = false
	p.mu.Unlock()

	p.wg.Wait()
	fmt.Println("Patrol: stopped")
}

// Reinitialize stops the patrol and clears all in-memory bookkeeping:
// cooldowns, the daily-digest date marker, and the cached provider
// status. Used when the host application swaps its active workspace.
func (p *Patrol) Reinitialize() {
	p.Stop()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.cooldowns.Reset()
	p.lastDigestDay = ""
	p.healthStatus = make(map[string]bool)
	fmt.Println("Patrol: reinitialized")
}

// loop drives passes on the given interval after an initial warm-up
// delay. A timer (not a ticker) is used so the next tick is scheduled
// only after the previous pass settles — passes never queue up.
func (p *Patrol) loop(interval time.Duration) {
	defer p.wg.Done()

	timer := time.NewTimer(p.config.WarmupDelay)
	defer timer.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return

		case <-timer.C:
			if _, err := p.RunOnce(p.ctx); err != nil {
				fmt.Printf("Patrol: pass failed: %v\n", err)
			}
			timer.Reset(interval)
		}
	}
}

// RunOnce executes a single detection pass. If a pass is already
// executing the call is skipped and reports ErrPassInProgress. The
// reentrancy guard is always released, even when a detector panics.
func (p *Patrol) RunOnce(ctx context.Context) (*PassReport, error) {
	p.mu.Lock()
	if p.passActive {
		p.mu.Unlock()
		passesSkipped.Inc()
		fmt.Println("Patrol: previous pass still running, skipping tick")
		return nil, ErrPassInProgress
	}
	p.passActive = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.passActive = false
		p.mu.Unlock()
	}()

	report := p.runPass(ctx, time.Now().UTC())
	passesTotal.Inc()
	return report, nil
}

// ErrPassInProgress reports a tick skipped by the reentrancy guard
var ErrPassInProgress = fmt.Errorf("patrol pass already in progress")

// detector is one named step of the pass
type detector struct {
	name string
	run  func(ctx context.Context, pass *passState)
}

// passState carries the shared view of one pass across detectors
type passState struct {
	now    time.Time
	digest *Digest
	report *PassReport
}

// emit records a finding and counts it
func (ps *passState) emit(f Finding) {
	ps.report.Findings = append(ps.report.Findings, f)
	findingsTotal.WithLabelValues(string(f.Kind)).Inc()
}

// runPass executes every detector in fixed order with a shared "now",
// then flushes the digest and prunes the cooldown ledger. A requested
// stop is honored between detectors so shutdown latency stays bounded.
func (p *Patrol) runPass(ctx context.Context, now time.Time) *PassReport {
	pass := &passState{
		now:    now,
		digest: NewDigest(),
		report: &PassReport{},
	}

	detectors := []detector{
		{"stale_work_nudge", p.detectStaleWork},
		{"reconciliation", p.detectReconciliation},
		{"deadlines", p.detectDeadlines},
		{"kpi_refresh", p.detectKPIRefresh},
		{"backlog", p.detectBacklog},
		{"approvals", p.detectApprovals},
		{"activity", p.detectActivity},
		{"memory_maintenance", p.runMemoryMaintenance},
		{"provider_health", p.detectProviderHealth},
		{"integrity", p.detectIntegrity},
		{"resource_forecast", p.detectResourceForecast},
		{"todo_staleness", p.detectTodoStaleness},
		{"daily_digest", p.buildDailyDigest},
	}

	for _, d := range detectors {
		if ctx.Err() != nil {
			fmt.Println("Patrol: stop requested, aborting pass")
			return pass.report
		}
		p.runDetector(ctx, d, pass)
	}

	if ctx.Err() == nil {
		p.flushDigest(ctx, pass)
	}
	p.cooldowns.Prune(now)

	return pass.report
}

// runDetector runs one detector behind a defensive boundary: a failure
// or panic is logged and treated as "no findings this pass" for that
// detector.
func (p *Patrol) runDetector(ctx context.Context, d detector, pass *passState) {
	defer func() {
		if r := recover(); r != nil {
			detectorFailures.WithLabelValues(d.name).Inc()
			fmt.Printf("Patrol: detector %s panicked: %v\n", d.name, r)
		}
	}()
	d.run(ctx, pass)
}

// flushDigest pushes the combined digest when at least one section
// produced output. An empty pass announces nothing.
func (p *Patrol) flushDigest(ctx context.Context, pass *passState) {
	if p.deps.Notifier == nil || pass.digest.Empty() {
		return
	}

	body := pass.digest.Render()
	ann := &types.Announcement{
		AnnouncerID: p.announcerID(),
		Body:        body,
	}
	if err := p.deps.Notifier.Announce(ctx, ann); err != nil {
		fmt.Printf("Patrol: failed to push digest: %v\n", err)
		return
	}
	pass.report.DigestSent = true
}

// announcerID prefers the directory's designated announcer, falling back
// to the configured ID
func (p *Patrol) announcerID() string {
	if p.deps.Directory != nil {
		for _, actor := range p.deps.Directory.List() {
			if actor.Announce {
				return actor.ID
			}
		}
	}
	return p.config.AnnouncerID
}

// actorActive reports whether an assignee exists and can work. Without a
// directory every assignee is assumed valid.
func (p *Patrol) actorActive(id string) bool {
	if p.deps.Directory == nil {
		return true
	}
	actor := p.deps.Directory.Get(id)
	return actor != nil && actor.IsActive()
}

// assigneeGone reports whether an assignee is permanently gone: absent
// from the directory or terminated. A suspended actor is not gone.
func (p *Patrol) assigneeGone(id string) bool {
	actor := p.deps.Directory.Get(id)
	return actor == nil || actor.Status == types.ActorTerminated
}
