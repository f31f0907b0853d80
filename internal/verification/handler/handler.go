// Package handler exposes verification runs over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"eduvet/internal/verification"
	"eduvet/internal/verification/store"
	dErrors "eduvet/pkg/domain-errors"
	"eduvet/pkg/platform/httputil"
)

// Service defines the verification operations the handler needs.
type Service interface {
	Verify(ctx context.Context, app verification.ProviderApplication) (store.Run, error)
	GetRun(ctx context.Context, id string) (store.Run, error)
	ListRuns(ctx context.Context, limit int) ([]store.Run, error)
}

// Handler wires verification endpoints to the service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a verification handler.
func New(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Register mounts verification endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/verification/runs", h.handleVerify)
	r.Get("/verification/runs", h.handleListRuns)
	r.Get("/verification/runs/{id}", h.handleGetRun)
}

// verifyRequest mirrors ProviderApplication on the wire. Keeping a separate
// request type lets the API evolve without leaking transport concerns into
// the domain.
type verifyRequest struct {
	OrganisationName string   `json:"organisation_name"`
	TradingName      string   `json:"trading_name"`
	CompanyNumber    string   `json:"company_number"`
	UKPRN            string   `json:"ukprn"`
	CentreNumber     string   `json:"centre_number"`
	ProviderType     string   `json:"provider_type"`
	ContactEmail     string   `json:"contact_email"`
	Address          string   `json:"address"`
	Postcode         string   `json:"postcode"`
	Qualifications   []string `json:"qualifications_offered"`
}

func (req verifyRequest) toApplication() verification.ProviderApplication {
	providerType := verification.ProviderType(req.ProviderType)
	if providerType == "" {
		providerType = verification.ProviderTrainingProvider
	}
	return verification.ProviderApplication{
		OrganisationName: req.OrganisationName,
		TradingName:      req.TradingName,
		CompanyNumber:    req.CompanyNumber,
		UKPRN:            req.UKPRN,
		CentreNumber:     req.CentreNumber,
		ProviderType:     providerType,
		ContactEmail:     req.ContactEmail,
		Address:          req.Address,
		Postcode:         req.Postcode,
		Qualifications:   req.Qualifications,
	}
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.OrganisationName == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "organisation_name is required"))
		return
	}

	run, err := h.service.Verify(ctx, req.toApplication())
	if err != nil {
		h.logger.ErrorContext(ctx, "verification failed",
			"provider", req.OrganisationName,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "verification run created",
		"run_id", run.ID,
		"provider", req.OrganisationName,
		"decision", string(run.Decision),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, run)
}

func (h *Handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := h.service.GetRun(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, run)
}

func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be a positive integer"))
			return
		}
		limit = n
	}

	runs, err := h.service.ListRuns(r.Context(), limit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"runs": runs})
}
