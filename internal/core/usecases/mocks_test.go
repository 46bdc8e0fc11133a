// internal/core/usecases/mocks_test.go
package usecases

import (
	"context"
	"sync"
	"time"

	"horizon/internal/core/domain"
	"horizon/internal/core/ports"
)

// mockSource is a mock of ports.Source for orchestrator tests.
type mockSource struct {
	name         string
	horizon      domain.Horizon
	searchFunc   func(ctx context.Context, query string, maxResults int, opts ports.SearchOptions) (domain.RankedList, error)
	healthFunc   func(ctx context.Context) domain.HealthStatus
	searchCalls  int
	mu           sync.Mutex
}

func newMockSource(name string, horizon domain.Horizon) *mockSource {
	return &mockSource{name: name, horizon: horizon}
}

func (m *mockSource) Name() string             { return m.name }
func (m *mockSource) Horizon() domain.Horizon   { return m.horizon }
func (m *mockSource) CostPerQuery() float64     { return 0 }

func (m *mockSource) Search(ctx context.Context, query string, maxResults int, opts ports.SearchOptions) (domain.RankedList, error) {
	m.mu.Lock()
	m.searchCalls++
	m.mu.Unlock()
	if m.searchFunc != nil {
		return m.searchFunc(ctx, query, maxResults, opts)
	}
	return domain.RankedList{}, nil
}

func (m *mockSource) HealthCheck(ctx context.Context) domain.HealthStatus {
	if m.healthFunc != nil {
		return m.healthFunc(ctx)
	}
	return domain.HealthHealthy
}

func (m *mockSource) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.searchCalls
}

// mockSourceWithList builds a mock that always succeeds with the given list.
func mockSourceWithList(name string, horizon domain.Horizon, list domain.RankedList) *mockSource {
	mock := newMockSource(name, horizon)
	mock.searchFunc = func(ctx context.Context, query string, maxResults int, opts ports.SearchOptions) (domain.RankedList, error) {
		return list, nil
	}
	return mock
}

// mockSourceWithError builds a mock whose Search always fails.
func mockSourceWithError(name string, horizon domain.Horizon, err error) *mockSource {
	mock := newMockSource(name, horizon)
	mock.searchFunc = func(ctx context.Context, query string, maxResults int, opts ports.SearchOptions) (domain.RankedList, error) {
		return nil, err
	}
	return mock
}

// mockNotifier is a mock of ports.Notifier for orchestrator tests.
type mockNotifier struct {
	mu     sync.Mutex
	events []ports.Event
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{}
}

func (m *mockNotifier) Notify(ctx context.Context, event ports.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockNotifier) Close() error { return nil }

func (m *mockNotifier) eventsOfType(t ports.EventType) []ports.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ports.Event
	for _, e := range m.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func (m *mockNotifier) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

func reg(s *mockSource) SourceRegistration {
	return SourceRegistration{Source: s, Config: ports.SourceConfig{Enabled: true, Timeout: 2 * time.Second}}
}
