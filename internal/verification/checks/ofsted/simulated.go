package ofsted

import (
	"context"
	"time"

	"eduvet/internal/verification"
)

// Simulated is the development fallback when report scraping is disabled.
// Every provider inspects as Good with effective safeguarding.
type Simulated struct {
	Latency time.Duration
}

func (s Simulated) Type() verification.CheckType { return verification.CheckOfstedRating }

func (s Simulated) Check(_ context.Context, app verification.ProviderApplication) verification.CheckResult {
	time.Sleep(s.Latency)

	result := Assess("Good", "Good", map[string]any{
		"ukprn":                  app.UKPRN,
		"latest_inspection_date": "2023-01-01",
		"simulated":              true,
	})
	result.DataSource = "Simulated Ofsted"
	return result
}
