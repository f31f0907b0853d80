package ofqual

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
	return New("sub-key", WithBaseURL(srv.URL), WithRESTClient(rc))
}

func TestCheckRecognisedOrganisationPasses(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Ocp-Apim-Subscription-Key")
		w.Write([]byte(`{"results": [{"name": "Pearson Education Ltd", "recognitionNumber": "RN5342", "status": "Recognised"}]}`))
	}))
	defer srv.Close()

	result := newTestClient(srv).Check(context.Background(), verification.ProviderApplication{
		OrganisationName: "Pearson Education",
	})

	assert.Equal(t, "sub-key", gotKey)
	assert.Equal(t, verification.CheckOfqualRecognition, result.CheckType)
	assert.Equal(t, verification.StatusPassed, result.Status)
	assert.InDelta(t, 0.1, result.RiskScore, 0.001)
	assert.Equal(t, "RN5342", result.Details["recognition_number"])
}

func TestCheckUnrecognisedWithQualificationsFlagged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()

	result := newTestClient(srv).Check(context.Background(), verification.ProviderApplication{
		OrganisationName: "Unknown Training Ltd",
		Qualifications:   []string{"BTEC Level 3 Business"},
	})

	assert.Equal(t, verification.StatusFlagged, result.Status)
	assert.InDelta(t, 0.4, result.RiskScore, 0.001)
}

func TestCheckUnrecognisedWithoutQualificationsNotApplicable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"items": []}`))
	}))
	defer srv.Close()

	result := newTestClient(srv).Check(context.Background(), verification.ProviderApplication{
		OrganisationName: "Unknown Training Ltd",
	})

	assert.Equal(t, verification.StatusNotApplicable, result.Status)
	assert.InDelta(t, 0.2, result.RiskScore, 0.001)
}

func TestCheckQualification(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus verification.Status
		wantScore  float64
	}{
		{
			name:       "regulated and current",
			body:       `{"results": [{"title": "GCSE Mathematics", "operationalEndDate": "", "organisationName": "AQA"}]}`,
			wantStatus: verification.StatusPassed,
			wantScore:  0.1,
		},
		{
			name:       "regulated but withdrawn",
			body:       `{"results": [{"title": "GNVQ Business", "operationalEndDate": "2007-08-31", "organisationName": "Edexcel"}]}`,
			wantStatus: verification.StatusFlagged,
			wantScore:  0.4,
		},
		{
			name:       "unregulated",
			body:       `{"results": []}`,
			wantStatus: verification.StatusFlagged,
			wantScore:  0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			result := newTestClient(srv).CheckQualification(context.Background(), "GCSE Mathematics")

			assert.Equal(t, tt.wantStatus, result.Status)
			assert.InDelta(t, tt.wantScore, result.RiskScore, 0.001)
			assert.True(t, result.CheckType.IsQualification())
		})
	}
}

func TestSimulated(t *testing.T) {
	sim := Simulated{}

	recognised := sim.Check(context.Background(), verification.ProviderApplication{
		OrganisationName: "Pearson Education UK",
	})
	assert.Equal(t, verification.StatusPassed, recognised.Status)

	qual := sim.CheckQualification(context.Background(), "BTEC Level 3 Business")
	assert.Equal(t, verification.StatusPassed, qual.Status)
	assert.Equal(t, verification.QualificationCheckType("BTEC Level 3 Business"), qual.CheckType)

	unregulated := sim.CheckQualification(context.Background(), "Intro to Juggling")
	assert.Equal(t, verification.StatusFlagged, unregulated.Status)
	assert.InDelta(t, 0.5, unregulated.RiskScore, 0.001)
}
