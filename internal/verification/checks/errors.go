package checks

import (
	"errors"
	"fmt"
	"time"

	"eduvet/internal/verification"
)

// Category is the normalized failure taxonomy for external sources.
type Category string

const (
	// CategoryTimeout indicates the source took too long to respond.
	CategoryTimeout Category = "timeout"

	// CategoryBadData indicates the source returned invalid/malformed data.
	CategoryBadData Category = "bad_data"

	// CategoryAuthentication indicates credential or permission issues.
	CategoryAuthentication Category = "authentication"

	// CategoryOutage indicates the source is unavailable (5xx, reset).
	CategoryOutage Category = "provider_outage"

	// CategoryNotFound indicates the requested record doesn't exist.
	CategoryNotFound Category = "not_found"

	// CategoryRateLimited indicates too many requests.
	CategoryRateLimited Category = "rate_limited"

	// CategoryNotConfigured indicates missing credentials for the source.
	CategoryNotConfigured Category = "not_configured"

	// CategoryInternal indicates an unexpected internal error.
	CategoryInternal Category = "internal"
)

// CheckError wraps source failures with normalized categorization so the
// shared transport can decide what is worth retrying.
type CheckError struct {
	Category   Category
	Source     string
	Message    string
	Underlying error
	Retryable  bool
}

func (e *CheckError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s [%s]: %s: %v", e.Source, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Source, e.Category, e.Message)
}

func (e *CheckError) Unwrap() error { return e.Underlying }

// NewCheckError creates a categorized check error. Timeouts, outages and
// rate limits are transient and marked retryable.
func NewCheckError(category Category, source, message string, underlying error) *CheckError {
	retryable := category == CategoryTimeout ||
		category == CategoryOutage ||
		category == CategoryRateLimited

	return &CheckError{
		Category:   category,
		Source:     source,
		Message:    message,
		Underlying: underlying,
		Retryable:  retryable,
	}
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var ce *CheckError
	if errors.As(err, &ce) {
		return ce.Retryable
	}
	return false
}

// CategoryOf extracts the category from an error.
func CategoryOf(err error) Category {
	var ce *CheckError
	if errors.As(err, &ce) {
		return ce.Category
	}
	return CategoryInternal
}

// errorRiskScores sets the conservative score attached to an error result.
// The taxonomy keeps these in a mid-to-high band: an error is not evidence of
// wrongdoing, only of a check the engine could not complete.
var errorRiskScores = map[Category]float64{
	CategoryTimeout:        0.5,
	CategoryAuthentication: 0.5,
	CategoryNotConfigured:  0.5,
	CategoryOutage:         0.6,
	CategoryRateLimited:    0.6,
	CategoryBadData:        0.6,
	CategoryInternal:       0.7,
}

// ErrorResult converts an adapter failure into the uniform error envelope.
// Every dispatched check must yield a result, so this is the boundary where
// exceptions stop propagating.
func ErrorResult(checkType verification.CheckType, source string, err error) verification.CheckResult {
	score, ok := errorRiskScores[CategoryOf(err)]
	if !ok {
		score = 0.7
	}
	return verification.CheckResult{
		CheckType:  checkType,
		Status:     verification.StatusError,
		RiskScore:  score,
		DataSource: source,
		Timestamp:  time.Now(),
		Details: map[string]any{
			"error":          err.Error(),
			"error_category": string(CategoryOf(err)),
		},
		Recommendations: []string{"Manual verification required due to system error"},
		Confidence:      0,
	}
}

// NotApplicableResult reports a check skipped because its required identifier
// was absent. Absence is a minor risk signal, not a failure, and no network
// call is made.
func NotApplicableResult(checkType verification.CheckType, source, message, recommendation string, riskScore float64) verification.CheckResult {
	result := verification.CheckResult{
		CheckType:  checkType,
		Status:     verification.StatusNotApplicable,
		RiskScore:  verification.ClampScore(riskScore),
		DataSource: source,
		Timestamp:  time.Now(),
		Details:    map[string]any{"message": message},
		Confidence: 1,
	}
	if recommendation != "" {
		result.Recommendations = []string{recommendation}
	}
	return result
}
