package monitor

import "time"

// Status is a point-in-time snapshot of infrastructure reachability.
type Status struct {
	PostgreSQL bool      `json:"postgresql"`
	Redis      bool      `json:"redis"`
	Buffer     bool      `json:"buffer"`
	BufferSize int       `json:"buffer_size"`
	LastCheck  time.Time `json:"last_check"`
}
