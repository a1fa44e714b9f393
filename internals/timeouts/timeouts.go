package timeouts

import "time"

const (
	Probe         = 2 * time.Second
	Call          = 10 * time.Second
	Sweep         = 60 * time.Second
	KanbanStartup = 60 * time.Second
)
