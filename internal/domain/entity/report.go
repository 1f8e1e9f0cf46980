package entity

import "time"

// Report is the outcome of one benchmark run.
type Report struct {
	RunID      string            `json:"runId"`
	StartedAt  time.Time         `json:"startedAt"`
	FinishedAt time.Time         `json:"finishedAt"`
	Addresses  int               `json:"addresses"`
	Statistics []ProviderSummary `json:"statistics"`
	// Failures maps a provider name to the error that aborted it.
	Failures map[string]string `json:"failures,omitempty"`
}

// Duration is the wall time of the run.
func (r Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
