package leads

import (
	"time"

	"github.com/protorq/protorq/internal/sales/quotations"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Valid reports whether s is a known lifecycle state.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAssigned, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type AuthorType string

const (
	AuthorAdmin    AuthorType = "admin"
	AuthorEmployee AuthorType = "employee"
)

// Comment is an append-only note on a lead.
type Comment struct {
	Comment    string     `json:"comment"`
	AuthorType AuthorType `json:"authorType"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Lead is a prospective buyer's request for a product.
type Lead struct {
	ID                string               `json:"id"`
	ProductName       string               `json:"productName"`
	QuantityRequested int                  `json:"quantityRequested"`
	RequesterEmail    string               `json:"requesterEmail"`
	RequesterNumber   string               `json:"requesterNumber"`
	AssignedEmployee  string               `json:"assignedEmployee"`
	Status            Status               `json:"status"`
	Quotation         *quotations.Document `json:"quotation"`
	Comments          []Comment            `json:"comments"`
	CreatedAt         time.Time            `json:"createdAt"`
	UpdatedAt         time.Time            `json:"updatedAt"`
}
