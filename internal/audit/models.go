// Package audit records the verification decisions the service makes.
// Every completed run emits one event so compliance can reconstruct who
// was assessed, when, and with what outcome.
package audit

import "time"

// Action identifies what happened to a verification run.
type Action string

const (
	ActionRunCompleted Action = "verification_completed"
	ActionRunFailed    Action = "verification_failed"
)

// Event is emitted after a verification run settles. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp        time.Time `json:"timestamp"`
	RunID            string    `json:"run_id"`
	Action           Action    `json:"action"`
	OrganisationName string    `json:"organisation_name"`
	ProviderType     string    `json:"provider_type"`
	Decision         string    `json:"decision"`
	RiskScore        float64   `json:"risk_score"`
	ChecksCompleted  int       `json:"checks_completed"`
	ChecksFailed     int       `json:"checks_failed"`
	Reason           string    `json:"reason,omitempty"`
}
