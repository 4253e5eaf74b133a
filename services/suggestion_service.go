package services

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/skycast-app/skycast-backend/logger"
	"github.com/skycast-app/skycast-backend/types"
)

const suggestionDebounce = 300 * time.Millisecond

// Suggester is the slice of the geocoding client the suggestion provider
// depends on.
type Suggester interface {
	Suggest(ctx context.Context, query string) ([]types.LocationData, error)
}

// SuggestionService is a debounced, length-gated autocomplete provider over
// the geocoding direct-search path. Each input change cancels the previously
// scheduled lookup; only the most recently scheduled lookup may apply its
// results, regardless of response arrival order.
type SuggestionService struct {
	mu        sync.Mutex
	suggester Suggester
	onResults func([]types.LocationData)
	delay     time.Duration
	timer     *time.Timer
	gen       uint64
	closed    bool
}

// NewSuggestionService creates a suggestion provider. onResults receives the
// candidate list each time a lookup fires; a nil/empty list clears visible
// suggestions.
func NewSuggestionService(suggester Suggester, onResults func([]types.LocationData)) *SuggestionService {
	return &SuggestionService{
		suggester: suggester,
		onResults: onResults,
		delay:     suggestionDebounce,
	}
}

// OnInputChanged schedules a lookup for text after the debounce quiet period,
// cancelling any pending one. Inputs of two characters or fewer clear the
// suggestions at fire time without a network call.
func (s *SuggestionService) OnInputChanged(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	if s.timer != nil {
		s.timer.Stop()
	}

	s.gen++
	gen := s.gen
	s.timer = time.AfterFunc(s.delay, func() {
		s.fire(gen, text)
	})
}

func (s *SuggestionService) fire(gen uint64, text string) {
	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if utf8.RuneCountInString(text) <= 2 {
		s.apply(gen, nil)
		return
	}

	results, err := s.suggester.Suggest(context.Background(), text)
	if err != nil {
		logger.GetLogger().Warnw("Suggestion lookup failed",
			"query", text,
			"error", err,
		)
		results = nil
	}
	s.apply(gen, results)
}

// apply delivers results only if gen is still the latest scheduled lookup.
func (s *SuggestionService) apply(gen uint64, results []types.LocationData) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || gen != s.gen {
		return
	}
	if s.onResults != nil {
		s.onResults(results)
	}
}

// Close cancels any pending lookup and detaches the provider. Further input
// changes are ignored.
func (s *SuggestionService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
