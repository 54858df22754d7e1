package prices

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/guarzo/pkmchase/internal/model"
)

// MockProvider implements a mock price provider for testing and offline
// development
type MockProvider struct {
	// Sets maps a price-source set id to the records SetPrices returns
	Sets map[string][]model.Card

	// Cards maps a card name, or "name#number" for a specific printing, to
	// its CardPrice record
	Cards map[string]model.Card

	// Fail makes every call return this error
	Fail error

	// FailNames makes CardPrice fail for specific card names
	FailNames map[string]error

	Delay time.Duration

	setCalls  atomic.Int32
	cardCalls atomic.Int32
	inFlight  atomic.Int32
	maxFlight atomic.Int32
	mu        sync.Mutex
	looked    []string
}

// NewMockProvider creates a new mock provider
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Sets:  map[string][]model.Card{},
		Cards: map[string]model.Card{},
	}
}

// Available always returns true for mock provider
func (m *MockProvider) Available() bool {
	return true
}

// GetProviderName returns the provider name
func (m *MockProvider) GetProviderName() string {
	return "MockPriceProvider"
}

// SetPrices returns the configured records for setID
func (m *MockProvider) SetPrices(ctx context.Context, setID string, limit int) ([]model.Card, error) {
	m.setCalls.Add(1)
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	if m.Fail != nil {
		return nil, m.Fail
	}
	cards := m.Sets[setID]
	if len(cards) == 0 {
		return nil, &model.UpstreamRequestError{Source: "mock", StatusCode: 404}
	}
	if limit > 0 && len(cards) > limit {
		cards = cards[:limit]
	}
	return append([]model.Card(nil), cards...), nil
}

// CardPrice returns the configured record for the card, preferring a
// "name#number" entry over a name-only one
func (m *MockProvider) CardPrice(ctx context.Context, card model.Card, setID string) (model.Card, error) {
	m.cardCalls.Add(1)
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		peak := m.maxFlight.Load()
		if n <= peak || m.maxFlight.CompareAndSwap(peak, n) {
			break
		}
	}

	m.mu.Lock()
	m.looked = append(m.looked, card.Name)
	m.mu.Unlock()

	if err := m.wait(ctx); err != nil {
		return model.Card{}, err
	}
	if m.Fail != nil {
		return model.Card{}, m.Fail
	}
	if err := m.FailNames[card.Name]; err != nil {
		return model.Card{}, err
	}
	for _, key := range []string{card.Name + "#" + card.Number, card.Name} {
		for name, rec := range m.Cards {
			if strings.EqualFold(name, key) {
				return rec, nil
			}
		}
	}
	return model.Card{}, &model.UpstreamRequestError{Source: "mock", StatusCode: 404}
}

func (m *MockProvider) wait(ctx context.Context) error {
	if m.Delay <= 0 {
		return nil
	}
	select {
	case <-time.After(m.Delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetCalls returns how many times SetPrices was called
func (m *MockProvider) SetCalls() int { return int(m.setCalls.Load()) }

// CardCalls returns how many times CardPrice was called
func (m *MockProvider) CardCalls() int { return int(m.cardCalls.Load()) }

// MaxConcurrent returns the peak number of overlapping CardPrice calls
func (m *MockProvider) MaxConcurrent() int { return int(m.maxFlight.Load()) }

// Looked returns card names passed to CardPrice, in call order
func (m *MockProvider) Looked() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.looked...)
}
