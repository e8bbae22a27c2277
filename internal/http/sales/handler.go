package sales

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/soulfoods/morsel/internal/sales"
)

type Handler struct {
	svc *sales.Service
}

func NewHandler(svc *sales.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Route("/sales", func(r chi.Router) {
		r.Get("/daily", h.daily)
		r.Get("/summary", h.summary)
		r.Get("/report", h.report)
	})

	r.Get("/regions", h.regions)
}

func (h *Handler) daily(w http.ResponseWriter, r *http.Request) {
	filter := filterFromQuery(r)

	daily, err := h.svc.Daily(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toDailyList(daily)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	filter := filterFromQuery(r)

	summary, err := h.svc.Summarize(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toSummaryResponse(filter, summary)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	filter := filterFromQuery(r)

	daily, summary, err := h.svc.Report(r.Context(), filter)
	if err != nil && !errors.Is(err, sales.ErrNoRows) {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if errors.Is(err, sales.ErrNoRows) {
		// Well-formed empty result; worth a trace, not a failure.
		slog.Warn("report matched no records", "region", filter.Region)
	}

	w.Header().Set("Content-Type", "application/json")

	resp := reportResponse{
		Daily:   toDailyList(daily),
		Summary: toSummaryResponse(filter, summary),
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) regions(w http.ResponseWriter, r *http.Request) {
	regions, err := h.svc.Regions(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toRegionsResponse(regions)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// filterFromQuery reads the region filter. "all" is what the dashboard
// sends when no region is selected and means the same as no parameter.
func filterFromQuery(r *http.Request) sales.Filter {
	region := strings.TrimSpace(r.URL.Query().Get("region"))
	if strings.EqualFold(region, "all") {
		region = ""
	}

	return sales.Filter{Region: region}
}
