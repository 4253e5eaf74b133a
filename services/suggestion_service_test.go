package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycast-app/skycast-backend/types"
)

type fakeSuggester struct {
	mu      sync.Mutex
	queries []string
	results map[string][]types.LocationData
	block   map[string]chan struct{}
}

func newFakeSuggester() *fakeSuggester {
	return &fakeSuggester{
		results: make(map[string][]types.LocationData),
		block:   make(map[string]chan struct{}),
	}
}

func (f *fakeSuggester) Suggest(_ context.Context, query string) ([]types.LocationData, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	gate := f.block[query]
	results := f.results[query]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return results, nil
}

func (f *fakeSuggester) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

// resultRecorder captures every onResults delivery.
type resultRecorder struct {
	mu        sync.Mutex
	delivered [][]types.LocationData
	notify    chan struct{}
}

func newResultRecorder() *resultRecorder {
	return &resultRecorder{notify: make(chan struct{}, 16)}
}

func (r *resultRecorder) apply(results []types.LocationData) {
	r.mu.Lock()
	r.delivered = append(r.delivered, results)
	r.mu.Unlock()
	r.notify <- struct{}{}
}

func (r *resultRecorder) waitForDelivery(t *testing.T) {
	t.Helper()
	select {
	case <-r.notify:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for suggestion delivery")
	}
}

func (r *resultRecorder) last(t *testing.T) []types.LocationData {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.delivered)
	return r.delivered[len(r.delivered)-1]
}

func TestSuggestionService_DebounceCancelsPending(t *testing.T) {
	suggester := newFakeSuggester()
	suggester.results["Wilmi"] = []types.LocationData{{Name: "Wilmington"}}
	recorder := newResultRecorder()

	svc := NewSuggestionService(suggester, recorder.apply)
	svc.delay = 20 * time.Millisecond
	defer svc.Close()

	// Rapid typing: only the last input may produce a lookup.
	svc.OnInputChanged("Wil")
	svc.OnInputChanged("Wilm")
	svc.OnInputChanged("Wilmi")

	recorder.waitForDelivery(t)

	assert.Equal(t, 1, suggester.callCount())
	assert.Equal(t, []string{"Wilmi"}, suggester.queries)
	require.Len(t, recorder.last(t), 1)
	assert.Equal(t, "Wilmington", recorder.last(t)[0].Name)
}

func TestSuggestionService_ShortInputClearsWithoutNetwork(t *testing.T) {
	suggester := newFakeSuggester()
	recorder := newResultRecorder()

	svc := NewSuggestionService(suggester, recorder.apply)
	svc.delay = 10 * time.Millisecond
	defer svc.Close()

	svc.OnInputChanged("Wi")
	recorder.waitForDelivery(t)

	assert.Equal(t, 0, suggester.callCount())
	assert.Empty(t, recorder.last(t))
}

func TestSuggestionService_LastScheduledWinsOverArrivalOrder(t *testing.T) {
	suggester := newFakeSuggester()
	suggester.results["first query"] = []types.LocationData{{Name: "Stale"}}
	suggester.results["second query"] = []types.LocationData{{Name: "Fresh"}}
	gate := make(chan struct{})
	suggester.block["first query"] = gate
	recorder := newResultRecorder()

	svc := NewSuggestionService(suggester, recorder.apply)
	svc.delay = 10 * time.Millisecond
	defer svc.Close()

	svc.OnInputChanged("first query")

	// Let the first lookup fire and block inside Suggest.
	require.Eventually(t, func() bool { return suggester.callCount() == 1 }, time.Second, 5*time.Millisecond)

	svc.OnInputChanged("second query")
	recorder.waitForDelivery(t)

	// First lookup resolves after the second; its result must be discarded.
	close(gate)
	time.Sleep(50 * time.Millisecond)

	last := recorder.last(t)
	require.Len(t, last, 1)
	assert.Equal(t, "Fresh", last[0].Name)
}

func TestSuggestionService_CloseCancelsPendingTimer(t *testing.T) {
	suggester := newFakeSuggester()
	recorder := newResultRecorder()

	svc := NewSuggestionService(suggester, recorder.apply)
	svc.delay = 10 * time.Millisecond

	svc.OnInputChanged("Wilmington")
	svc.Close()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, suggester.callCount())

	// Input after Close is ignored.
	svc.OnInputChanged("Wilmington")
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 0, suggester.callCount())
}
