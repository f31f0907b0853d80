package verification

import "time"

// Status is the terminal classification of one check.
type Status string

const (
	StatusPassed        Status = "passed"
	StatusFailed        Status = "failed"
	StatusFlagged       Status = "flagged"
	StatusError         Status = "error"
	StatusNotApplicable Status = "not_applicable"
)

// DecisionStatus is the vocabulary of the aggregate risk assessment. It is
// richer than Status; Collapse maps it back for callers that only understand
// the five-way check vocabulary.
type DecisionStatus string

const (
	DecisionApproved       DecisionStatus = "approved"
	DecisionMonitoring     DecisionStatus = "approved_with_monitoring"
	DecisionEnhancedDD     DecisionStatus = "enhanced_due_diligence_required"
	DecisionRejected       DecisionStatus = "rejected"
)

// Collapse maps a decision status onto the five-way check status set.
func (d DecisionStatus) Collapse() Status {
	switch d {
	case DecisionApproved:
		return StatusPassed
	case DecisionMonitoring, DecisionEnhancedDD:
		return StatusFlagged
	case DecisionRejected:
		return StatusFailed
	}
	return StatusError
}

// ProviderType categorises an educational provider for risk adjustment.
type ProviderType string

const (
	ProviderTrainingProvider ProviderType = "training_provider"
	ProviderFECollege        ProviderType = "fe_college"
	ProviderHEInstitution    ProviderType = "he_institution"
	ProviderApprenticeship   ProviderType = "apprenticeship_provider"
	ProviderPrivateTraining  ProviderType = "private_training"
	ProviderAdultCommunity   ProviderType = "adult_community"
)

// CheckResult is the uniform outcome record every check produces. Adapters
// construct these; nothing mutates them afterwards.
type CheckResult struct {
	CheckType       CheckType      `json:"check_type"`
	Status          Status         `json:"status"`
	RiskScore       float64        `json:"risk_score"`
	DataSource      string         `json:"data_source"`
	Timestamp       time.Time      `json:"timestamp"`
	Details         map[string]any `json:"details,omitempty"`
	Recommendations []string       `json:"recommendations,omitempty"`
	Confidence      float64        `json:"confidence"`

	// Decision is set only on the aggregate risk assessment result.
	Decision DecisionStatus `json:"decision,omitempty"`
}

// ProviderApplication is the input aggregate for one verification run.
// Immutable for the duration of the run; persistence is the caller's concern.
type ProviderApplication struct {
	OrganisationName string       `json:"organisation_name"`
	TradingName      string       `json:"trading_name,omitempty"`
	CompanyNumber    string       `json:"company_number"`
	UKPRN            string       `json:"ukprn,omitempty"`
	CentreNumber     string       `json:"centre_number,omitempty"`
	ProviderType     ProviderType `json:"provider_type"`
	ContactEmail     string       `json:"contact_email"`
	Address          string       `json:"address"`
	Postcode         string       `json:"postcode"`
	Qualifications   []string     `json:"qualifications_offered,omitempty"`
}

// HasUKPRN reports whether the provider claims a UKRLP registration.
func (a ProviderApplication) HasUKPRN() bool { return a.UKPRN != "" }

// ClampScore bounds a risk or confidence score to [0, 1].
func ClampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
