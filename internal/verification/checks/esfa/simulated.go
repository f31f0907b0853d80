package esfa

import (
	"context"
	"time"

	"eduvet/internal/verification"
	"eduvet/internal/verification/checks"
)

// Simulated is the development fallback when the register is unreachable.
// Every provider with a UKPRN sits on RoATP as a main provider with no
// restrictions.
type Simulated struct {
	Latency time.Duration
}

func (s Simulated) Type() verification.CheckType { return verification.CheckESFAFundingStatus }

func (s Simulated) Check(_ context.Context, app verification.ProviderApplication) verification.CheckResult {
	time.Sleep(s.Latency)

	if !app.HasUKPRN() {
		return checks.NotApplicableResult(
			s.Type(), "Simulated ESFA",
			"No UKPRN provided - RoATP is keyed by UKPRN",
			"Consider RoATP application for apprenticeship delivery",
			0.2,
		)
	}

	result := Assess("Main provider", nil, map[string]any{
		"ukprn":     app.UKPRN,
		"simulated": true,
	})
	result.DataSource = "Simulated ESFA"
	return result
}
