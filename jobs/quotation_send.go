package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/badoux/checkmail"
	"github.com/hibiken/asynq"

	jobmetrics "github.com/protorq/protorq/internal/jobs"
	"github.com/protorq/protorq/internal/platform/httpx"
)

// QuotationSource regenerates the stored quotation of a lead.
type QuotationSource interface {
	Regenerate(ctx context.Context, leadID string) ([]byte, error)
}

// QuotationSendHandler processes TaskTypeQuotationSend tasks.
type QuotationSendHandler struct {
	source  QuotationSource
	mailer  Mailer
	metrics *jobmetrics.Metrics
	logger  *slog.Logger
}

// NewQuotationSendHandler wires the delivery job.
func NewQuotationSendHandler(source QuotationSource, mailer Mailer, metrics *jobmetrics.Metrics, logger *slog.Logger) *QuotationSendHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuotationSendHandler{source: source, mailer: mailer, metrics: metrics, logger: logger}
}

// TaskHandler registers the handler with a Worker.
func (h *QuotationSendHandler) TaskHandler() TaskHandler {
	return TaskHandler{Type: TaskTypeQuotationSend, Handler: h.Handle}
}

// Handle mails the regenerated PDF. Payloads that can never succeed are
// dropped with asynq.SkipRetry.
func (h *QuotationSendHandler) Handle(ctx context.Context, t *asynq.Task) error {
	tracker := h.metrics.Track(TaskTypeQuotationSend)

	var payload QuotationSendPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return tracker.End(fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry))
	}
	logger := h.logger.With(slog.String("lead_id", payload.LeadID), slog.String("email", payload.Email))

	if err := checkmail.ValidateFormat(payload.Email); err != nil {
		logger.Warn("dropping quotation mail with malformed recipient", slog.Any("error", err))
		return tracker.End(fmt.Errorf("recipient %q: %v: %w", payload.Email, err, asynq.SkipRetry))
	}

	pdf, err := h.source.Regenerate(ctx, payload.LeadID)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) || errors.Is(err, httpx.ErrValidation) {
			logger.Warn("dropping quotation mail", slog.String("reason", httpx.Describe(err)))
			return tracker.End(fmt.Errorf("%v: %w", err, asynq.SkipRetry))
		}
		return tracker.End(fmt.Errorf("regenerate quotation %s: %w", payload.LeadID, err))
	}

	if err := h.mailer.SendQuotation(ctx, payload.Email, payload.LeadID, pdf); err != nil {
		return tracker.End(err)
	}
	logger.Info("quotation mailed", slog.Int("bytes", len(pdf)))
	return tracker.End(nil)
}
