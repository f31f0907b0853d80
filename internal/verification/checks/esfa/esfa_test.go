package esfa

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"eduvet/internal/verification"
	"eduvet/internal/verification/checks/rest"
)

func newTestClient(srv *httptest.Server) *Client {
	rc := rest.New(Source,
		rest.WithHTTPClient(srv.Client()),
		rest.WithBackoff(time.Millisecond),
	)
	return New(WithBaseURL(srv.URL), WithRESTClient(rc))
}

func TestAssessStatuses(t *testing.T) {
	tests := []struct {
		status       string
		restrictions []string
		wantStatus   verification.Status
		wantScore    float64
	}{
		{"Main provider", nil, verification.StatusPassed, 0.1},
		{"Supporting provider", nil, verification.StatusPassed, 0.2},
		{"Employer provider", nil, verification.StatusPassed, 0.15},
		{"", nil, verification.StatusFlagged, 0.6},
		{"Main provider", []string{"level cap"}, verification.StatusFlagged, 0.4},
		{"", []string{"new starts paused"}, verification.StatusFlagged, 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			result := Assess(tt.status, tt.restrictions, nil)
			assert.Equal(t, tt.wantStatus, result.Status)
			assert.InDelta(t, tt.wantScore, result.RiskScore, 0.001)
		})
	}
}

func TestCheckListedProviderPasses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/providers/10012345", r.URL.Path)
		w.Write([]byte(`{"provider_status": "Main provider", "funding_restrictions": []}`))
	}))
	defer srv.Close()

	result := newTestClient(srv).Check(context.Background(), verification.ProviderApplication{
		OrganisationName: "Excellence Training Academy Ltd",
		UKPRN:            "10012345",
	})

	assert.Equal(t, verification.CheckESFAFundingStatus, result.CheckType)
	assert.Equal(t, verification.StatusPassed, result.Status)
	assert.InDelta(t, 0.1, result.RiskScore, 0.001)
}

func TestCheckUnlistedProviderFlagged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	result := newTestClient(srv).Check(context.Background(), verification.ProviderApplication{
		OrganisationName: "Not On Register Ltd",
		UKPRN:            "10099999",
	})

	assert.Equal(t, verification.StatusFlagged, result.Status)
	assert.InDelta(t, 0.6, result.RiskScore, 0.001)
	assert.Contains(t, result.Recommendations, "Consider RoATP application for apprenticeship delivery")
}

func TestCheckMissingUKPRNNotApplicable(t *testing.T) {
	result := New().Check(context.Background(), verification.ProviderApplication{
		OrganisationName: "No UKPRN Ltd",
	})

	assert.Equal(t, verification.StatusNotApplicable, result.Status)
	assert.InDelta(t, 0.2, result.RiskScore, 0.001)
}

func TestSimulated(t *testing.T) {
	result := Simulated{}.Check(context.Background(), verification.ProviderApplication{
		OrganisationName: "Anything",
		UKPRN:            "10012345",
	})

	assert.Equal(t, verification.StatusPassed, result.Status)
	assert.InDelta(t, 0.1, result.RiskScore, 0.001)
}
