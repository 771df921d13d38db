package monitor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fixedPending map[string]int

func (f fixedPending) Pending() (map[string]int, error) { return f, nil }

type brokenBuffer struct{}

func (brokenBuffer) Pending() (map[string]int, error) { return nil, errors.New("database not open") }

func ok(context.Context) error   { return nil }
func down(context.Context) error { return errors.New("connection refused") }

func TestMonitor_Refresh(t *testing.T) {
	m := New(ok, down, fixedPending{"task": 2, "activity": 5}, 0, nil)
	m.Refresh()

	status := m.GetStatus()
	assert.True(t, status.PostgreSQL)
	assert.False(t, status.Redis)
	assert.True(t, status.Buffer)
	assert.Equal(t, 7, status.BufferSize)
	assert.Equal(t, 5, status.Pending["activity"])
	assert.False(t, status.Healthy())
	assert.True(t, m.IsOnline())
}

func TestMonitor_MissingChecksAreOffline(t *testing.T) {
	m := New(nil, nil, nil, 0, nil)
	m.Refresh()

	assert.False(t, m.IsOnline())
	assert.False(t, m.GetStatus().Buffer)
}

func TestMonitor_StopIsIdempotent(t *testing.T) {
	m := New(ok, ok, fixedPending{}, 0, nil)
	m.Start()
	m.Stop()
	m.Stop()
}

func TestMonitor_BufferErrorKeepsServiceHealthy(t *testing.T) {
	m := New(ok, ok, brokenBuffer{}, 0, nil)
	m.Refresh()

	status := m.GetStatus()
	assert.False(t, status.Buffer)
	assert.Zero(t, status.BufferSize)
	assert.True(t, status.Healthy(), "buffer failures alone do not make the service unhealthy")
}

func TestMonitor_OnRecoverFiresOnlyOnTransition(t *testing.T) {
	var pgUp atomic.Bool
	pg := func(context.Context) error {
		if pgUp.Load() {
			return nil
		}
		return errors.New("connection refused")
	}
	recovered := make(chan struct{}, 4)
	m := New(pg, ok, fixedPending{}, 0, nil)
	m.OnRecover(func() { recovered <- struct{}{} })
	m.OnRecover(nil)

	m.Refresh()
	m.Refresh()
	assert.False(t, m.IsOnline())

	pgUp.Store(true)
	m.Refresh()
	select {
	case <-recovered:
	case <-time.After(time.Second):
		t.Fatal("recover hook did not run")
	}

	m.Refresh()
	select {
	case <-recovered:
		t.Fatal("recover hook ran without a transition")
	case <-time.After(50 * time.Millisecond):
	}
}
