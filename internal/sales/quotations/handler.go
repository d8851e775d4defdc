package quotations

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/protorq/protorq/internal/observability"
	"github.com/protorq/protorq/internal/platform/httpx"
)

// Handler exposes the quotation workflow over HTTP.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the quotation HTTP handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	pdf, err := h.service.Generate(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writePDF(w, strings.TrimSpace(req.LeadID), pdf)
}

func (h *Handler) Regenerate(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadId")
	pdf, err := h.service.Regenerate(r.Context(), leadID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writePDF(w, leadID, pdf)
}

func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "Lead ID and requester email are required")
		return
	}
	resp, err := h.service.Send(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, resp)
}

// writePDF streams the document; once bytes are on the wire a failure can
// only be logged.
func (h *Handler) writePDF(w http.ResponseWriter, leadID string, pdf []byte) {
	if err := httpx.PDF(w, leadID+".pdf", pdf); err != nil {
		h.logger.Warn("write quotation pdf", slog.String("lead_id", leadID), slog.Any("error", err))
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if httpx.StatusFor(err) >= http.StatusInternalServerError {
		h.logger.Error("quotation request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		observability.ReportError(r, err, map[string]string{"component": "quotations"})
	}
	httpx.RespondError(w, err)
}
