package cart

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Deymosik/bonafide-client/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gotest.tools/v3/assert"
)

type summaryRecorder struct {
	m         sync.Mutex
	summaries []domain.PriceSummary
}

func (r *summaryRecorder) apply(s domain.PriceSummary) {
	r.m.Lock()
	defer r.m.Unlock()
	r.summaries = append(r.summaries, s)
}

func (r *summaryRecorder) applied() []domain.PriceSummary {
	r.m.Lock()
	defer r.m.Unlock()
	return append([]domain.PriceSummary(nil), r.summaries...)
}

func summaryFor(total string) *domain.PriceSummary {
	return &domain.PriceSummary{
		Subtotal:       decimal.RequireFromString(total),
		DiscountAmount: decimal.New(0, -2),
		FinalTotal:     decimal.RequireFromString(total),
	}
}

func TestPricer_LatestPayloadWinsWithinWindow(t *testing.T) {
	var (
		m        sync.Mutex
		payloads [][]domain.SelectionLine
	)
	calc := func(_ context.Context, sel []domain.SelectionLine) (*domain.PriceSummary, error) {
		m.Lock()
		payloads = append(payloads, sel)
		m.Unlock()
		return summaryFor("10.00"), nil
	}
	rec := &summaryRecorder{}
	p := newPricer(calc, rec.apply, zap.NewNop())
	p.window = 30 * time.Millisecond
	defer p.Close()

	p.Schedule([]domain.SelectionLine{{ProductID: 1, Quantity: 1}})
	p.Schedule([]domain.SelectionLine{{ProductID: 2, Quantity: 2}})

	require.Eventually(t, func() bool {
		m.Lock()
		defer m.Unlock()
		return len(payloads) == 1
	}, 2*time.Second, 5*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	m.Lock()
	defer m.Unlock()
	assert.Equal(t, 1, len(payloads))
	assert.Equal(t, int64(2), payloads[0][0].ProductID)
}

func TestPricer_StaleResponseDiscarded(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	calc := func(_ context.Context, sel []domain.SelectionLine) (*domain.PriceSummary, error) {
		if sel[0].ProductID == 1 {
			close(started)
			<-release // first request answers late
			return summaryFor("1.00"), nil
		}
		return summaryFor("2.00"), nil
	}
	rec := &summaryRecorder{}
	p := newPricer(calc, rec.apply, zap.NewNop())
	p.window = 5 * time.Millisecond
	defer p.Close()

	p.Schedule([]domain.SelectionLine{{ProductID: 1, Quantity: 1}})
	<-started

	p.Schedule([]domain.SelectionLine{{ProductID: 2, Quantity: 1}})
	require.Eventually(t, func() bool {
		return len(rec.applied()) == 1
	}, 2*time.Second, 5*time.Millisecond)

	close(release)
	time.Sleep(100 * time.Millisecond)

	applied := rec.applied()
	assert.Equal(t, 1, len(applied))
	assert.Equal(t, "2.00", applied[0].FinalTotal.String())
}

func TestPricer_CancelFencesInFlightRequest(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	calc := func(context.Context, []domain.SelectionLine) (*domain.PriceSummary, error) {
		close(started)
		<-release
		return summaryFor("5.00"), nil
	}
	rec := &summaryRecorder{}
	p := newPricer(calc, rec.apply, zap.NewNop())
	p.window = 5 * time.Millisecond
	defer p.Close()

	p.Schedule([]domain.SelectionLine{{ProductID: 1, Quantity: 1}})
	<-started
	p.Cancel()
	close(release)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, len(rec.applied()))
}

func TestPricer_ErrorKeepsPreviousSummary(t *testing.T) {
	var calls int
	var m sync.Mutex
	calc := func(context.Context, []domain.SelectionLine) (*domain.PriceSummary, error) {
		m.Lock()
		defer m.Unlock()
		calls++
		return nil, fmt.Errorf("backend unavailable")
	}
	rec := &summaryRecorder{}
	p := newPricer(calc, rec.apply, zap.NewNop())
	p.window = 5 * time.Millisecond
	defer p.Close()

	p.Schedule([]domain.SelectionLine{{ProductID: 1, Quantity: 1}})
	require.Eventually(t, func() bool {
		m.Lock()
		defer m.Unlock()
		return calls == 1
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, 0, len(rec.applied()))
}

func TestPricer_ScheduleAfterCloseIsIgnored(t *testing.T) {
	var calls int
	var m sync.Mutex
	calc := func(context.Context, []domain.SelectionLine) (*domain.PriceSummary, error) {
		m.Lock()
		defer m.Unlock()
		calls++
		return summaryFor("1.00"), nil
	}
	rec := &summaryRecorder{}
	p := newPricer(calc, rec.apply, zap.NewNop())
	p.window = time.Millisecond
	p.Close()

	p.Schedule([]domain.SelectionLine{{ProductID: 1, Quantity: 1}})
	time.Sleep(50 * time.Millisecond)

	m.Lock()
	defer m.Unlock()
	assert.Equal(t, 0, calls)
}
