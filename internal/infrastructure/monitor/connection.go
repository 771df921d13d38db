package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CheckFunc pings a dependency and returns nil when it is reachable.
type CheckFunc func(ctx context.Context) error

// PendingReporter is implemented by the offline buffer store.
type PendingReporter interface {
	Pending() (map[string]int, error)
}

// Monitor periodically checks Postgres, Redis and the offline buffer and caches the result.
type Monitor struct {
	postgres CheckFunc
	redis    CheckFunc
	buffer   PendingReporter

	recoverHooks []func()

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

func New(postgres, redis CheckFunc, buf PendingReporter, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		postgres: postgres,
		redis:    redis,
		buffer:   buf,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// OnRecover registers fn to run in its own goroutine each time Postgres
// comes back after being unreachable. Register hooks before Start.
func (m *Monitor) OnRecover(fn func()) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	m.recoverHooks = append(m.recoverHooks, fn)
	m.mu.Unlock()
}

// IsOnline reports whether Postgres was reachable at the last check.
func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.PostgreSQL
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Refresh()
	for {
		select {
		case <-ticker.C:
			m.Refresh()
		case <-m.stopCh:
			return
		}
	}
}

// Refresh runs every check once and stores the result.
func (m *Monitor) Refresh() {
	bufferOK, pending := m.checkBuffer()
	status := Status{
		PostgreSQL: m.check("postgres", m.postgres, 3*time.Second),
		Redis:      m.check("redis", m.redis, 2*time.Second),
		Buffer:     bufferOK,
		Pending:    pending,
		LastCheck:  time.Now(),
	}
	for _, n := range pending {
		status.BufferSize += n
	}

	m.mu.Lock()
	previous := m.status
	m.status = status
	hooks := m.recoverHooks
	m.mu.Unlock()

	if previous.LastCheck.IsZero() || previous.PostgreSQL == status.PostgreSQL {
		return
	}
	if !status.PostgreSQL {
		m.logger.Warn("postgres unreachable, writes will be buffered")
		return
	}
	m.logger.Info("postgres reachable again", zap.Int("buffered", status.BufferSize))
	for _, fn := range hooks {
		go fn()
	}
}

func (m *Monitor) check(name string, fn CheckFunc, timeout time.Duration) bool {
	if fn == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		m.logger.Debug("dependency check failed", zap.String("dependency", name), zap.Error(err))
		return false
	}
	return true
}

func (m *Monitor) checkBuffer() (bool, map[string]int) {
	if m.buffer == nil {
		return false, nil
	}
	pending, err := m.buffer.Pending()
	if err != nil {
		m.logger.Warn("buffer check failed", zap.Error(err))
		return false, nil
	}
	return true, pending
}
