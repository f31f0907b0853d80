// Package ukrlp validates a UKPRN against the UK Register of Learning
// Providers. The register has no public JSON API, so the live checker
// scrapes the provider detail page.
package ukrlp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"eduvet/internal/verification"
	"eduvet/internal/verification/checks"
	"eduvet/internal/verification/checks/rest"
	"eduvet/internal/verification/checks/scrape"
	"eduvet/internal/verification/namematch"
)

const (
	// Source names the data source on every result this package produces.
	Source = "UKRLP"

	defaultBaseURL = "https://www.ukrlp.co.uk"
)

// Client is the live UKRLP checker.
type Client struct {
	rest    *rest.Client
	baseURL string
	logger  *slog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithBaseURL overrides the register base URL; tests point it at httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithRESTClient overrides the transport.
func WithRESTClient(rc *rest.Client) Option {
	return func(c *Client) { c.rest = rc }
}

// WithLogger sets the logger. Nil is tolerated.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a live UKRLP checker.
func New(opts ...Option) *Client {
	c := &Client{
		rest:    rest.New(Source),
		baseURL: defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Type() verification.CheckType { return verification.CheckUKPRNValidation }

// Check validates the UKPRN format locally, then confirms the registration
// and provider name against the register.
func (c *Client) Check(ctx context.Context, app verification.ProviderApplication) verification.CheckResult {
	if !app.HasUKPRN() {
		return checks.NotApplicableResult(
			c.Type(), Source,
			"No UKPRN provided",
			"Consider UKPRN registration for credibility",
			0.3,
		)
	}

	ukprn := strings.TrimSpace(app.UKPRN)
	if !ValidFormat(ukprn) {
		return formatFailure(c.Type(), ukprn)
	}

	url := fmt.Sprintf("%s/ukrlp/ukrlp_provider.page_pls_provDetails?pn_p_id=%s", c.baseURL, ukprn)
	doc, err := c.rest.GetHTML(ctx, url, nil)
	if err != nil {
		if checks.CategoryOf(err) == checks.CategoryNotFound {
			return notRegistered(c.Type(), ukprn)
		}
		if c.logger != nil {
			c.logger.WarnContext(ctx, "ukrlp lookup failed", "ukprn", ukprn, "error", err)
		}
		return checks.ErrorResult(c.Type(), Source, err)
	}

	providerName := scrape.FindDefinition(doc, "Provider name")
	providerStatus := scrape.FindDefinition(doc, "Provider status")
	if providerName == "" {
		return notRegistered(c.Type(), ukprn)
	}

	nameMatch := namematch.Match(providerName, app.OrganisationName) ||
		(app.TradingName != "" && namematch.Match(providerName, app.TradingName))
	active := providerStatus == "" ||
		strings.EqualFold(providerStatus, "active") ||
		strings.EqualFold(providerStatus, "verified")

	status := verification.StatusPassed
	score := 0.1
	var recs []string
	switch {
	case !active:
		status = verification.StatusFlagged
		score = 0.6
		recs = append(recs, "Provider registration is not active - confirm status with UKRLP")
	case !nameMatch:
		status = verification.StatusFlagged
		score = 0.4
		recs = append(recs, "Provider name does not match UKRLP records")
	}

	return verification.CheckResult{
		CheckType:  c.Type(),
		Status:     status,
		RiskScore:  score,
		DataSource: Source,
		Timestamp:  time.Now(),
		Details: map[string]any{
			"ukprn":           ukprn,
			"provider_name":   providerName,
			"provider_status": providerStatus,
			"name_match":      nameMatch,
		},
		Recommendations: recs,
		Confidence:      0.9,
	}
}

// ValidFormat reports whether a UKPRN is exactly 8 digits.
func ValidFormat(ukprn string) bool {
	if len(ukprn) != 8 {
		return false
	}
	for _, r := range ukprn {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func formatFailure(checkType verification.CheckType, ukprn string) verification.CheckResult {
	return verification.CheckResult{
		CheckType:  checkType,
		Status:     verification.StatusFailed,
		RiskScore:  0.8,
		DataSource: Source,
		Timestamp:  time.Now(),
		Details: map[string]any{
			"error": "Invalid UKPRN format",
			"ukprn": ukprn,
		},
		Recommendations: []string{"UKPRN must be 8 digits"},
		Confidence:      1,
	}
}

func notRegistered(checkType verification.CheckType, ukprn string) verification.CheckResult {
	return verification.CheckResult{
		CheckType:  checkType,
		Status:     verification.StatusFailed,
		RiskScore:  0.9,
		DataSource: Source,
		Timestamp:  time.Now(),
		Details: map[string]any{
			"error": "UKPRN not found in register",
			"ukprn": ukprn,
		},
		Recommendations: []string{"Verify UKPRN is correct and provider is registered"},
		Confidence:      0.9,
	}
}
