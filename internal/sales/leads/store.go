package leads

import (
	"context"

	"github.com/protorq/protorq/internal/sales/quotations"
)

// QuotationStore adapts the lead repository to the quotation workflow.
type QuotationStore struct {
	repo Repository
}

func NewQuotationStore(repo Repository) *QuotationStore {
	return &QuotationStore{repo: repo}
}

func (s *QuotationStore) FindLead(ctx context.Context, id string) (*quotations.LeadRecord, error) {
	lead, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &quotations.LeadRecord{
		ID:              lead.ID,
		RequesterEmail:  lead.RequesterEmail,
		RequesterNumber: lead.RequesterNumber,
		Cancelled:       lead.Status == StatusCancelled,
		Quotation:       lead.Quotation,
	}, nil
}

func (s *QuotationStore) ReplaceQuotation(ctx context.Context, id string, doc *quotations.Document) error {
	return s.repo.ReplaceQuotation(ctx, id, doc)
}

func (s *QuotationStore) MarkCompleted(ctx context.Context, id string) error {
	return s.repo.Update(ctx, id, map[string]any{"status": string(StatusCompleted)})
}
