package monitor

import "time"

type Status struct {
	PostgreSQL bool      `json:"postgresql"`
	Redis      bool      `json:"redis"`
	Buffer     bool      `json:"buffer"`
	BufferSize int       `json:"buffer_size"`
	LastCheck  time.Time `json:"last_check"`
	// Pending counts buffered writes per entity.
	Pending map[string]int `json:"pending,omitempty"`
}

// Healthy reports whether the stores required to serve requests are reachable.
// The offline buffer is reported but does not affect health.
func (s Status) Healthy() bool {
	return s.PostgreSQL && s.Redis
}
