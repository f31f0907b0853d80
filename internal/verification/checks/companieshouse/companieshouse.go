// Package companieshouse verifies company registration against the Companies
// House public data API. The profile lookup is mandatory; officers, filing
// history, charges and PSC lookups are best-effort enrichments, each feeding
// an additive risk factor.
package companieshouse

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"eduvet/internal/verification"
	"eduvet/internal/verification/cache"
	"eduvet/internal/verification/checks"
	"eduvet/internal/verification/checks/rest"
)

const (
	// Source names the data source on every result this package produces.
	Source = "Companies House API"

	defaultBaseURL = "https://api.company-information.service.gov.uk"
)

// Client is the live Companies House checker.
type Client struct {
	rest     *rest.Client
	baseURL  string
	auth     string
	cache    cache.SourceCache
	cacheTTL time.Duration
	logger   *slog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL; tests point it at httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithRESTClient overrides the transport.
func WithRESTClient(rc *rest.Client) Option {
	return func(c *Client) { c.rest = rc }
}

// WithCache enables response caching for company profiles.
func WithCache(sc cache.SourceCache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = sc
		c.cacheTTL = ttl
	}
}

// WithLogger sets the logger. Nil is tolerated.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a live Companies House checker. The API key is sent as the
// username of a Basic auth header with an empty password.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		rest:    rest.New(Source),
		baseURL: defaultBaseURL,
		auth:    "Basic " + base64.StdEncoding.EncodeToString([]byte(apiKey+":")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Type() verification.CheckType { return verification.CheckCompanyRegistration }

// Check verifies the company profile and enriches the assessment with
// officer, filing, charge and PSC data.
func (c *Client) Check(ctx context.Context, app verification.ProviderApplication) verification.CheckResult {
	if app.CompanyNumber == "" {
		return checks.NotApplicableResult(
			c.Type(), Source,
			"No company number provided",
			"Company registration number is required for verification",
			0.3,
		)
	}

	number := strings.ToUpper(strings.TrimSpace(app.CompanyNumber))

	profile, err := c.fetchProfile(ctx, number)
	if err != nil {
		if checks.CategoryOf(err) == checks.CategoryNotFound {
			return verification.CheckResult{
				CheckType:  c.Type(),
				Status:     verification.StatusFailed,
				RiskScore:  0.9,
				DataSource: Source,
				Timestamp:  time.Now(),
				Details: map[string]any{
					"error":          "Company not found",
					"company_number": number,
				},
				Recommendations: []string{"Verify company number is correct"},
				Confidence:      0.95,
			}
		}
		c.log(ctx, "company profile lookup failed", number, err)
		return checks.ErrorResult(c.Type(), Source, err)
	}

	enrich := c.fetchEnrichments(ctx, number)
	return c.assess(app, profile, enrich)
}

func (c *Client) fetchProfile(ctx context.Context, number string) (*companyProfile, error) {
	if c.cache != nil {
		var cached companyProfile
		hit, err := c.cache.Get(ctx, "companieshouse", number, &cached)
		if err != nil {
			c.log(ctx, "cache read failed", number, err)
		}
		if hit {
			return &cached, nil
		}
	}

	var profile companyProfile
	url := fmt.Sprintf("%s/company/%s", c.baseURL, number)
	if err := c.rest.GetJSON(ctx, url, c.headers(), &profile); err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, "companieshouse", number, profile, c.cacheTTL); err != nil {
			c.log(ctx, "cache write failed", number, err)
		}
	}
	return &profile, nil
}

// enrichments holds the best-effort sub-lookups. A nil field means the
// lookup failed; the assessment treats that as its own minor factor rather
// than failing the whole check.
type enrichments struct {
	officers *officerList
	filings  *filingList
	charges  *chargeList
	psc      *pscList
}

// fetchEnrichments runs the four sub-lookups concurrently so the check stays
// within the adapter deadline even when every endpoint is slow. Each lookup
// only fills its field on success; failures are logged and left nil.
func (c *Client) fetchEnrichments(ctx context.Context, number string) enrichments {
	var e enrichments

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var officers officerList
		if err := c.rest.GetJSON(ctx, fmt.Sprintf("%s/company/%s/officers", c.baseURL, number), c.headers(), &officers); err == nil {
			e.officers = &officers
		} else {
			c.log(ctx, "officers lookup failed", number, err)
		}
		return nil
	})
	g.Go(func() error {
		var filings filingList
		if err := c.rest.GetJSON(ctx, fmt.Sprintf("%s/company/%s/filing-history", c.baseURL, number), c.headers(), &filings); err == nil {
			e.filings = &filings
		} else {
			c.log(ctx, "filing history lookup failed", number, err)
		}
		return nil
	})
	g.Go(func() error {
		var charges chargeList
		if err := c.rest.GetJSON(ctx, fmt.Sprintf("%s/company/%s/charges", c.baseURL, number), c.headers(), &charges); err == nil {
			e.charges = &charges
		} else {
			c.log(ctx, "charges lookup failed", number, err)
		}
		return nil
	})
	g.Go(func() error {
		var psc pscList
		if err := c.rest.GetJSON(ctx, fmt.Sprintf("%s/company/%s/persons-with-significant-control", c.baseURL, number), c.headers(), &psc); err == nil {
			e.psc = &psc
		} else {
			c.log(ctx, "psc lookup failed", number, err)
		}
		return nil
	})
	_ = g.Wait()

	return e
}

func (c *Client) headers() map[string]string {
	return map[string]string{"Authorization": c.auth}
}

func (c *Client) log(ctx context.Context, msg, number string, err error) {
	if c.logger == nil {
		return
	}
	c.logger.WarnContext(ctx, msg, "company_number", number, "error", err)
}
