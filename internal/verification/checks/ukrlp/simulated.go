package ukrlp

import (
	"context"
	"strings"
	"time"

	"eduvet/internal/verification"
	"eduvet/internal/verification/checks"
)

// Simulated is the development fallback when no register access is
// configured. Registered UKPRNs start with "10", matching the real register's
// allocation range.
type Simulated struct {
	Latency time.Duration
}

func (s Simulated) Type() verification.CheckType { return verification.CheckUKPRNValidation }

func (s Simulated) Check(_ context.Context, app verification.ProviderApplication) verification.CheckResult {
	time.Sleep(s.Latency)

	if !app.HasUKPRN() {
		return checks.NotApplicableResult(
			s.Type(), "Simulated UKRLP",
			"No UKPRN provided",
			"Consider UKPRN registration for credibility",
			0.3,
		)
	}

	ukprn := strings.TrimSpace(app.UKPRN)
	if !ValidFormat(ukprn) {
		result := formatFailure(s.Type(), ukprn)
		result.DataSource = "Simulated UKRLP"
		return result
	}

	if !strings.HasPrefix(ukprn, "10") {
		result := notRegistered(s.Type(), ukprn)
		result.DataSource = "Simulated UKRLP"
		return result
	}

	return verification.CheckResult{
		CheckType:  s.Type(),
		Status:     verification.StatusPassed,
		RiskScore:  0.1,
		DataSource: "Simulated UKRLP",
		Timestamp:  time.Now(),
		Details: map[string]any{
			"ukprn":           ukprn,
			"provider_name":   app.OrganisationName,
			"provider_status": "Active",
			"name_match":      true,
			"simulated":       true,
		},
		Confidence: 0.9,
	}
}
