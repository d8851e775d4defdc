package quotations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/protorq/protorq/internal/platform/httpx"
	locks "github.com/protorq/protorq/internal/shared"
)

// LeadRecord is the part of a lead the quotation workflow reads.
type LeadRecord struct {
	ID              string
	RequesterEmail  string
	RequesterNumber string
	Cancelled       bool
	Quotation       *Document
}

// Store is the lead persistence consumed by the workflow. FindLead reports
// a missing lead with httpx.ErrNotFound. ReplaceQuotation writes the
// document and the completed status in a single statement so readers never
// see one without the other. A lead cancelled while its PDF was rendering is
// left untouched and reported with httpx.ErrConflict.
type Store interface {
	FindLead(ctx context.Context, id string) (*LeadRecord, error)
	ReplaceQuotation(ctx context.Context, id string, doc *Document) error
	MarkCompleted(ctx context.Context, id string) error
}

// DocumentRenderer converts a document into PDF bytes.
type DocumentRenderer interface {
	Render(ctx context.Context, doc *Document, totals Totals, to Recipient) ([]byte, error)
}

// Archiver keeps a copy of every freshly generated PDF.
type Archiver interface {
	StorePDF(ctx context.Context, leadID string, pdf []byte) error
}

// Notifier queues delivery of a quotation to a requester.
type Notifier interface {
	EnqueueQuotationSend(ctx context.Context, leadID, email string) error
}

// Options carries the optional collaborators of a Service.
type Options struct {
	Locker          locks.Locker
	Archive         Archiver
	Notifier        Notifier
	Metrics         *Metrics
	DefaultCurrency string
	Clock           func() time.Time
}

// Service orchestrates quotation generation, regeneration and delivery.
type Service struct {
	store    Store
	renderer DocumentRenderer
	locker   locks.Locker
	archive  Archiver
	notifier Notifier
	metrics  *Metrics
	logger   *slog.Logger
	currency string
	now      func() time.Time
	flights  singleflight.Group
}

// NewService wires the workflow. A nil locker disables per-lead locking.
func NewService(store Store, renderer DocumentRenderer, logger *slog.Logger, opts Options) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	locker := opts.Locker
	if locker == nil {
		locker = locks.NoopLocker{}
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	currency := strings.TrimSpace(opts.DefaultCurrency)
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Service{
		store:    store,
		renderer: renderer,
		locker:   locker,
		archive:  opts.Archive,
		notifier: opts.Notifier,
		metrics:  opts.Metrics,
		logger:   logger,
		currency: currency,
		now:      clock,
	}
}

// Generate renders a fresh quotation for the lead, replaces the stored one
// and marks the lead completed. Nothing is persisted when rendering fails.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) ([]byte, error) {
	leadID := strings.TrimSpace(req.LeadID)
	if leadID == "" {
		return nil, httpx.Errorf(httpx.ErrValidation, "Lead ID is required")
	}
	doc, err := req.BuildDocument(leadID, s.currency, s.now())
	if err != nil {
		return nil, err
	}

	lead, err := s.store.FindLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if lead.Cancelled {
		return nil, httpx.Errorf(httpx.ErrConflict, "Cannot generate a quotation for a cancelled lead")
	}

	unlock, err := s.locker.Acquire(ctx, locks.LeadLockKey(leadID))
	if err != nil {
		if errors.Is(err, locks.ErrLockHeld) {
			s.metrics.lockConflict()
			return nil, httpx.Errorf(httpx.ErrConflict, "A quotation is already being generated for this lead")
		}
		return nil, fmt.Errorf("quotations: lock lead %s: %w", leadID, err)
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("release quotation lock", slog.String("lead_id", leadID), slog.Any("error", err))
		}
	}()

	start := time.Now()
	pdf, err := s.renderer.Render(ctx, doc, ResolveTotals(doc), req.Recipient())
	s.metrics.observeRender("generate", start, err)
	if err != nil {
		return nil, err
	}

	if err := s.store.ReplaceQuotation(ctx, leadID, doc); err != nil {
		return nil, fmt.Errorf("quotations: save quotation for %s: %w", leadID, err)
	}

	s.archivePDF(ctx, leadID, pdf)
	s.logger.Info("quotation generated",
		slog.String("lead_id", leadID),
		slog.Int("items", len(doc.LineItems)),
		slog.String("final_total", ResolveTotals(doc).FinalTotal.String()),
	)
	return pdf, nil
}

// Regenerate renders the stored quotation again without recomputing
// persisted totals. Concurrent calls for the same stored document share one
// render.
func (s *Service) Regenerate(ctx context.Context, leadID string) ([]byte, error) {
	leadID = strings.TrimSpace(leadID)
	if leadID == "" {
		return nil, httpx.Errorf(httpx.ErrValidation, "Lead ID is required")
	}
	lead, err := s.store.FindLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	doc := lead.Quotation
	if doc == nil || len(doc.LineItems) == 0 {
		return nil, httpx.Errorf(httpx.ErrNotFound, "Quotation not found for this lead")
	}
	if doc.LeadID == "" {
		doc.LeadID = leadID
	}

	to := Recipient{Email: lead.RequesterEmail, Number: lead.RequesterNumber}
	result := s.flights.DoChan(flightKey(leadID, doc, to), func() (any, error) {
		start := time.Now()
		pdf, err := s.renderer.Render(context.WithoutCancel(ctx), doc, ResolveTotals(doc), to)
		s.metrics.observeRender("regenerate", start, err)
		return pdf, err
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-result:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

// Send marks the lead completed and queues delivery of its quotation.
func (s *Service) Send(ctx context.Context, req SendRequest) (SendResponse, error) {
	leadID := strings.TrimSpace(req.LeadID)
	email := strings.ToLower(strings.TrimSpace(req.RequesterEmail))
	if leadID == "" || email == "" {
		return SendResponse{}, httpx.Errorf(httpx.ErrValidation, "Lead ID and requester email are required")
	}
	lead, err := s.store.FindLead(ctx, leadID)
	if err != nil {
		return SendResponse{}, err
	}
	if lead.Cancelled {
		return SendResponse{}, httpx.Errorf(httpx.ErrConflict, "Cannot send a quotation for a cancelled lead")
	}
	if err := s.store.MarkCompleted(ctx, leadID); err != nil {
		return SendResponse{}, fmt.Errorf("quotations: complete lead %s: %w", leadID, err)
	}
	if s.notifier != nil {
		if err := s.notifier.EnqueueQuotationSend(ctx, leadID, email); err != nil {
			return SendResponse{}, fmt.Errorf("quotations: queue delivery for %s: %w", leadID, err)
		}
	}
	s.logger.Info("quotation send requested", slog.String("lead_id", leadID), slog.String("email", email))
	return SendResponse{Message: "Quotation sent successfully", Email: email}, nil
}

func (s *Service) archivePDF(ctx context.Context, leadID string, pdf []byte) {
	if s.archive == nil {
		return
	}
	if err := s.archive.StorePDF(context.WithoutCancel(ctx), leadID, pdf); err != nil {
		s.logger.Warn("archive quotation pdf", slog.String("lead_id", leadID), slog.Any("error", err))
	}
}

func flightKey(leadID string, doc *Document, to Recipient) string {
	stamp := "legacy"
	if doc.GeneratedAt != nil {
		stamp = strconv.FormatInt(doc.GeneratedAt.UnixNano(), 10)
	}
	return leadID + "|" + stamp + "|" + to.Email + "|" + to.Number
}
