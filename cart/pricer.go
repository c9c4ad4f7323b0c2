package cart

import (
	"context"
	"sync"
	"time"

	"github.com/Deymosik/bonafide-client/domain"
	"go.uber.org/zap"
)

const (
	defaultQuietWindow = 300 * time.Millisecond
	pricingTimeout     = 10 * time.Second
)

// pricer turns a burst of selection changes into at most one pricing
// request per quiet window. Only the latest payload survives a window;
// superseded ones are discarded, not queued. In-flight requests are never
// aborted, but each carries a sequence number and a response older than
// the last applied one is dropped, so a slow early answer cannot
// overwrite a fresher selection.
type pricer struct {
	calc  func(context.Context, []domain.SelectionLine) (*domain.PriceSummary, error)
	apply func(domain.PriceSummary)
	log   *zap.Logger

	window time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending []domain.SelectionLine
	seq     uint64
	applied uint64
	closed  bool
}

func newPricer(
	calc func(context.Context, []domain.SelectionLine) (*domain.PriceSummary, error),
	apply func(domain.PriceSummary),
	log *zap.Logger,
) *pricer {
	return &pricer{
		calc:   calc,
		apply:  apply,
		log:    log,
		window: defaultQuietWindow,
	}
}

// Schedule records the latest selection and (re)arms the quiet-window
// timer. Calls landing within the window replace the payload wholesale.
func (p *pricer) Schedule(selection []domain.SelectionLine) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.pending = selection
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(p.window, p.fire)
}

// Cancel drops the pending window and fences off any in-flight request:
// its response will compare stale and be discarded.
func (p *pricer) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelLocked()
}

func (p *pricer) cancelLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.pending = nil
	p.seq++
	p.applied = p.seq
}

func (p *pricer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelLocked()
	p.closed = true
}

func (p *pricer) fire() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	selection := p.pending
	p.pending = nil
	p.timer = nil
	p.seq++
	seq := p.seq
	p.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), pricingTimeout)
	defer cancel()
	summary, err := p.calc(ctx, selection)
	if err != nil {
		// Stale-but-consistent beats clearing: keep the previous summary.
		p.log.Error("selection pricing failed", zap.Error(err))
		return
	}

	p.mu.Lock()
	if p.closed || seq <= p.applied {
		p.mu.Unlock()
		return
	}
	p.applied = seq
	p.mu.Unlock()

	p.apply(*summary)
}
