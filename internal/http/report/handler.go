package report

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/soulfoods/morsel/internal/metrics"
	"github.com/soulfoods/morsel/internal/report"
	"github.com/soulfoods/morsel/internal/sales"
)

type Handler struct {
	svc *report.Service
	reg *metrics.Registry
	dir string
}

func NewHandler(svc *report.Service, reg *metrics.Registry, dir string) *Handler {
	return &Handler{svc: svc, reg: reg, dir: dir}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Post("/download", h.download)
}

type reportRequest struct {
	Region string `json:"region,omitempty"`
	Format string `json:"format,omitempty"`
}

type createReportResponse struct {
	Path   string        `json:"path"`
	Format report.Format `json:"format"`
	Region string        `json:"region"`
}

// create renders a report file into the configured report directory and
// returns where it landed.
func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	req, format, ok := h.decode(w, r)
	if !ok {
		return
	}

	path, err := h.svc.WriteFile(r.Context(), filterFor(req.Region), h.dir, format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.reg.ReportsWritten.Inc()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	resp := createReportResponse{Path: path, Format: format, Region: req.Region}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// download streams the report straight to the client instead of writing
// it server side.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	req, format, ok := h.decode(w, r)
	if !ok {
		return
	}

	filter := filterFor(req.Region)

	switch format {
	case report.FormatCSV:
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", attachment(format))

		if err := h.svc.CSV(r.Context(), filter, w); err != nil {
			// Headers are gone; all we can do is log.
			slog.Error("failed to stream report", "error", err)
			return
		}

	case report.FormatXLSX:
		f, err := h.svc.Excel(r.Context(), filter)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", attachment(format))

		if err := f.Write(w); err != nil {
			slog.Error("failed to stream report", "error", err)
			return
		}
	}

	h.reg.ReportsWritten.Inc()
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (reportRequest, report.Format, bool) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return req, "", false
	}

	format, err := report.ParseFormat(req.Format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return req, "", false
	}

	return req, format, true
}

func filterFor(region string) sales.Filter {
	region = strings.TrimSpace(region)
	if strings.EqualFold(region, "all") {
		region = ""
	}

	return sales.Filter{Region: region}
}

func attachment(format report.Format) string {
	return fmt.Sprintf("attachment; filename=%q", "sales_report."+string(format))
}
