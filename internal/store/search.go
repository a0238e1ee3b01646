package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/logger"
)

const (
	searchMinQuery = 2
	searchDebounce = 500 * time.Millisecond
)

// SearchDebouncer coalesces keystrokes into gateway calls: only the
// trailing edge of a burst reaches the backend, and queries shorter
// than two characters resolve to empty immediately without a call.
//
// Results are delivered through the callback given at construction.
// A result for a superseded query is dropped, so the callback only
// ever sees the outcome of the latest input.
type SearchDebouncer struct {
	gw      SearchGateway
	delay   time.Duration
	deliver func(query string, result *SearchResult, err error)

	mu     sync.Mutex
	timer  *time.Timer
	seq    int
	closed bool
}

func NewSearchDebouncer(gw SearchGateway, deliver func(string, *SearchResult, error)) *SearchDebouncer {
	return &SearchDebouncer{
		gw:      gw,
		delay:   searchDebounce,
		deliver: deliver,
	}
}

// Input registers one keystroke's worth of query text.
func (d *SearchDebouncer) Input(ctx context.Context, query string) {
	query = strings.TrimSpace(query)

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.seq++
	seq := d.seq
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	if len([]rune(query)) < searchMinQuery {
		d.mu.Unlock()
		d.deliver(query, &SearchResult{
			Projects: []domain.Project{},
			Tasks:    []domain.Task{},
		}, nil)
		return
	}

	d.timer = time.AfterFunc(d.delay, func() {
		d.run(ctx, seq, query)
	})
	d.mu.Unlock()
}

func (d *SearchDebouncer) run(ctx context.Context, seq int, query string) {
	result, err := d.gw.Search(ctx, query)

	d.mu.Lock()
	stale := d.closed || seq != d.seq
	d.mu.Unlock()
	if stale {
		logger.Debug("dropping stale search result", "query", query)
		return
	}
	d.deliver(query, result, err)
}

// Stop cancels any pending fire. Further Input calls are ignored.
func (d *SearchDebouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
