package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"eduvet/internal/verification"
	"eduvet/internal/verification/handler"
	"eduvet/internal/verification/store"
	dErrors "eduvet/pkg/domain-errors"
	"eduvet/pkg/testutil"
)

type stubService struct {
	verifyRun  store.Run
	verifyErr  error
	getRun     store.Run
	getErr     error
	listRuns   []store.Run
	listErr    error
	verifiedAs verification.ProviderApplication
}

func (s *stubService) Verify(_ context.Context, app verification.ProviderApplication) (store.Run, error) {
	s.verifiedAs = app
	return s.verifyRun, s.verifyErr
}

func (s *stubService) GetRun(context.Context, string) (store.Run, error) {
	return s.getRun, s.getErr
}

func (s *stubService) ListRuns(context.Context, int) ([]store.Run, error) {
	return s.listRuns, s.listErr
}

func newRouter(svc *stubService) http.Handler {
	r := chi.NewRouter()
	handler.New(svc, nil).Register(r)
	return r
}

func sampleRun() store.Run {
	return store.Run{
		ID:        "run-1",
		Decision:  verification.DecisionApproved,
		RiskScore: 0.12,
		CreatedAt: time.Now().UTC(),
		Results: []verification.CheckResult{
			{CheckType: verification.CheckRiskAssessment, Status: verification.StatusPassed},
		},
	}
}

func TestVerifyReturnsCreatedRun(t *testing.T) {
	svc := &stubService{verifyRun: sampleRun()}
	router := newRouter(svc)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/verification/runs", map[string]any{
		"organisation_name": "Excellence Training Academy Ltd",
		"company_number":    "12345678",
		"provider_type":     "fe_college",
	})
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatus(t, rr, http.StatusCreated)
	run := testutil.UnmarshalResponse[store.Run](t, rr)
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, verification.DecisionApproved, run.Decision)
	assert.Equal(t, verification.ProviderFECollege, svc.verifiedAs.ProviderType)
}

func TestVerifyDefaultsProviderType(t *testing.T) {
	svc := &stubService{verifyRun: sampleRun()}
	router := newRouter(svc)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/verification/runs", map[string]any{
		"organisation_name": "Excellence Training Academy Ltd",
	})
	testutil.DoRequest(router, req)

	assert.Equal(t, verification.ProviderTrainingProvider, svc.verifiedAs.ProviderType)
}

func TestVerifyRequiresOrganisationName(t *testing.T) {
	router := newRouter(&stubService{})

	req := testutil.NewJSONRequest(t, http.MethodPost, "/verification/runs", map[string]any{
		"company_number": "12345678",
	})
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
}

func TestVerifyRejectsMalformedBody(t *testing.T) {
	router := newRouter(&stubService{})

	req := testutil.NewJSONRequest(t, http.MethodPost, "/verification/runs", nil)
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
}

func TestGetRunNotFound(t *testing.T) {
	svc := &stubService{getErr: dErrors.New(dErrors.CodeNotFound, "verification run not found")}
	router := newRouter(svc)

	req := testutil.NewJSONRequest(t, http.MethodGet, "/verification/runs/missing", nil)
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
}

func TestGetRunReturnsRun(t *testing.T) {
	svc := &stubService{getRun: sampleRun()}
	router := newRouter(svc)

	req := testutil.NewJSONRequest(t, http.MethodGet, "/verification/runs/run-1", nil)
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	run := testutil.UnmarshalResponse[store.Run](t, rr)
	assert.Equal(t, "run-1", run.ID)
}

func TestListRunsRejectsBadLimit(t *testing.T) {
	router := newRouter(&stubService{})

	req := testutil.NewJSONRequest(t, http.MethodGet, "/verification/runs?limit=banana", nil)
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
}

func TestListRunsReturnsEnvelope(t *testing.T) {
	svc := &stubService{listRuns: []store.Run{sampleRun()}}
	router := newRouter(svc)

	req := testutil.NewJSONRequest(t, http.MethodGet, "/verification/runs?limit=10", nil)
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[map[string][]store.Run](t, rr)
	assert.Len(t, (*resp)["runs"], 1)
}

func TestInternalErrorIsRedacted(t *testing.T) {
	svc := &stubService{listErr: dErrors.New(dErrors.CodeInternal, "pool exhausted")}
	router := newRouter(svc)

	req := testutil.NewJSONRequest(t, http.MethodGet, "/verification/runs", nil)
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusAndError(t, rr, http.StatusInternalServerError, "internal_error")
	assert.NotContains(t, rr.Body.String(), "pool exhausted")
}
