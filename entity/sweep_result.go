package entity

import "time"

// SweepResult summarizes one pending-order cancellation run for a store scope.
type SweepResult struct {
	Scope     string      `json:"scope"`
	Enabled   bool        `json:"enabled"`
	Matched   int         `json:"matched"`
	Cancelled int         `json:"cancelled"`
	Skipped   int         `json:"skipped"`
	Failed    int         `json:"failed"`
	Errors    []ItemError `json:"errors,omitempty"`
	Started   time.Time   `json:"started"`
	Finished  time.Time   `json:"finished"`
}

type ItemError struct {
	Order string `json:"order"`
	Error string `json:"error"`
}
