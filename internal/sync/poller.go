package sync

import (
	"context"
	"log"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/focusflow/internal/dashboard"
	"github.com/nhle/focusflow/internal/store"
)

// SyncState represents the current state of the dashboard sync.
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncRunning
	SyncError
)

// SyncStatus holds the sync state of the dashboard.
type SyncStatus struct {
	State    SyncState
	LastSync time.Time
	Error    error
}

// SnapshotMsg is a tea.Msg sent when a dashboard load completes. On
// failure Snapshot is nil and Err is set.
type SnapshotMsg struct {
	Snapshot     *dashboard.Snapshot
	Err          error
	NewTaskCount int
}

// Loader fetches a full dashboard snapshot.
type Loader interface {
	Load(ctx context.Context) (*dashboard.Snapshot, error)
}

// fetchTimeout is the maximum time allowed for a single snapshot load.
const fetchTimeout = 30 * time.Second

// DefaultInterval is used when no positive interval is configured.
const DefaultInterval = 120 * time.Second

// Poller refreshes the dashboard snapshot in the background, on an
// interval and on demand.
type Poller struct {
	loader   Loader
	cache    store.Store
	interval time.Duration

	status    SyncStatus
	resultCh  chan SnapshotMsg
	triggerCh chan struct{}
	stopCh    chan struct{}
	mu        gosync.Mutex
	running   bool
}

// New creates a poller. cache may be nil, in which case snapshots are not
// persisted.
func New(loader Loader, cache store.Store, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		loader:    loader,
		cache:     cache,
		interval:  interval,
		resultCh:  make(chan SnapshotMsg, 16),
		triggerCh: make(chan struct{}, 1),
	}
}

// Start returns a tea.Cmd that starts the polling goroutine and
// subscribes to results. A stopped poller may be started again.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	stop := make(chan struct{})
	p.stopCh = stop
	p.mu.Unlock()

	go p.poll(stop)

	return p.waitForResult()
}

// Stop halts the polling goroutine.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	close(p.stopCh)
	p.running = false
}

// Refresh triggers an immediate load. Requests made while one is already
// queued collapse into it.
func (p *Poller) Refresh() tea.Cmd {
	select {
	case p.triggerCh <- struct{}{}:
	default:
	}
	return nil
}

// Status returns the current sync status.
func (p *Poller) Status() SyncStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *Poller) poll(stop <-chan struct{}) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.fetch()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p.fetch()
		case <-p.triggerCh:
			p.fetch()
			ticker.Reset(p.interval)
		}
	}
}

// fetch performs a single load, replaces the cache and sends a
// SnapshotMsg on the result channel.
func (p *Poller) fetch() {
	p.setStatus(SyncRunning, nil)

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	snap, err := p.loader.Load(ctx)
	if err != nil {
		p.setStatus(SyncError, err)
		p.sendResult(SnapshotMsg{Err: err})
		return
	}

	newCount := 0
	if p.cache != nil {
		existing, err := p.cache.GetTasks(ctx, store.TaskFilter{})
		if err != nil {
			log.Printf("reading cached tasks: %v", err)
		}
		known := make(map[int64]bool, len(existing))
		for _, t := range existing {
			known[t.ID] = true
		}
		// The first load has nothing to compare against.
		if len(existing) > 0 {
			for _, t := range snap.Tasks {
				if !known[t.ID] {
					newCount++
				}
			}
		}

		// A cache failure costs only the offline view.
		if err := p.cache.ReplaceSnapshot(ctx, snap.Tasks, snap.Unread); err != nil {
			log.Printf("caching snapshot: %v", err)
		}
	}

	p.setStatus(SyncIdle, nil)
	p.sendResult(SnapshotMsg{Snapshot: snap, NewTaskCount: newCount})
}

func (p *Poller) setStatus(state SyncState, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status.State = state
	p.status.Error = err
	if state == SyncIdle && err == nil {
		p.status.LastSync = time.Now()
	}
}

// sendResult sends a SnapshotMsg on the result channel without blocking.
func (p *Poller) sendResult(msg SnapshotMsg) {
	select {
	case p.resultCh <- msg:
	default:
		log.Printf("dropping dashboard result: channel full")
	}
}

func (p *Poller) waitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-p.resultCh
		if !ok {
			return nil
		}
		return result
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next result.
// Call it after handling each SnapshotMsg to keep listening.
func (p *Poller) WaitForNextResult() tea.Cmd {
	return p.waitForResult()
}
