package leads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/protorq/protorq/internal/platform/db"
	"github.com/protorq/protorq/internal/platform/httpx"
	"github.com/protorq/protorq/internal/sales/quotations"
)

var (
	ErrNotFound  = httpx.Errorf(httpx.ErrNotFound, "Lead not found")
	ErrCancelled = httpx.Errorf(httpx.ErrConflict, "Cannot generate a quotation for a cancelled lead")
)

type Repository interface {
	Create(ctx context.Context, lead *Lead) error
	Get(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context) ([]Lead, error)
	Update(ctx context.Context, id string, updates map[string]any) error
	Assign(ctx context.Context, id, employee string, comment *Comment) error
	Delete(ctx context.Context, id string) error
	ReplaceQuotation(ctx context.Context, id string, doc *quotations.Document) error
}

type dbtx interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

type pool interface {
	dbtx
	db.TxBeginner
}

type repository struct {
	db   dbtx
	pool db.TxBeginner
}

// NewRepository builds the pgx-backed lead store.
func NewRepository(p pool) Repository {
	return &repository{db: p, pool: p}
}

const leadColumns = `id, product_name, quantity_requested, requester_email, requester_number,
	assigned_employee, status, quotation, comments, created_at, updated_at`

// updatable maps partial-update keys to columns; anything else is ignored.
var updatable = map[string]string{
	"product_name":       "product_name",
	"quantity_requested": "quantity_requested",
	"requester_email":    "requester_email",
	"requester_number":   "requester_number",
	"assigned_employee":  "assigned_employee",
	"status":             "status",
}

func (r *repository) Create(ctx context.Context, lead *Lead) error {
	id, err := uuid.NewRandom()
	if err != nil {
		return fmt.Errorf("leads: new id: %w", err)
	}
	if lead.Status == "" {
		lead.Status = StatusPending
	}
	comments, err := json.Marshal(nonNilComments(lead.Comments))
	if err != nil {
		return fmt.Errorf("leads: encode comments: %w", err)
	}
	err = r.db.QueryRow(ctx, `
		INSERT INTO leads (id, product_name, quantity_requested, requester_email, requester_number,
		                   assigned_employee, status, comments)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		id, lead.ProductName, lead.QuantityRequested, lead.RequesterEmail, lead.RequesterNumber,
		lead.AssignedEmployee, string(lead.Status), comments,
	).Scan(&lead.CreatedAt, &lead.UpdatedAt)
	if err != nil {
		return fmt.Errorf("leads: insert: %w", err)
	}
	lead.ID = id.String()
	lead.Comments = nonNilComments(lead.Comments)
	return nil
}

func (r *repository) Get(ctx context.Context, id string) (*Lead, error) {
	key, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	row := r.db.QueryRow(ctx, "SELECT "+leadColumns+" FROM leads WHERE id = $1", key)
	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("leads: get %s: %w", id, err)
	}
	return lead, nil
}

func (r *repository) List(ctx context.Context) ([]Lead, error) {
	rows, err := r.db.Query(ctx, "SELECT "+leadColumns+" FROM leads ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("leads: list: %w", err)
	}
	defer rows.Close()

	leads := []Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("leads: scan: %w", err)
		}
		leads = append(leads, *lead)
	}
	return leads, rows.Err()
}

func (r *repository) Update(ctx context.Context, id string, updates map[string]any) error {
	key, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	query := "UPDATE leads SET updated_at = NOW()"
	args := []any{key}
	argPos := 2

	keys := make([]string, 0, len(updates))
	for k := range updates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		column, ok := updatable[k]
		if !ok {
			continue
		}
		query += fmt.Sprintf(", %s = $%d", column, argPos)
		args = append(args, updates[k])
		argPos++
	}
	query += " WHERE id = $1"

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("leads: update %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Assign(ctx context.Context, id, employee string, comment *Comment) error {
	key, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	appended := []byte("[]")
	if comment != nil {
		appended, err = json.Marshal([]Comment{*comment})
		if err != nil {
			return fmt.Errorf("leads: encode comment: %w", err)
		}
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE leads
		SET assigned_employee = $2,
		    status = $3,
		    comments = comments || $4::jsonb,
		    updated_at = NOW()
		WHERE id = $1`,
		key, employee, string(StatusAssigned), appended,
	)
	if err != nil {
		return fmt.Errorf("leads: assign %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	key, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	tag, err := r.db.Exec(ctx, "DELETE FROM leads WHERE id = $1", key)
	if err != nil {
		return fmt.Errorf("leads: delete %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceQuotation swaps the stored document and completes the lead in one
// statement inside a RepeatableRead transaction. A lead cancelled after the
// quotation was requested keeps its status and is reported as ErrCancelled.
func (r *repository) ReplaceQuotation(ctx context.Context, id string, doc *quotations.Document) error {
	key, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("leads: encode quotation: %w", err)
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE leads
			SET quotation = $2::jsonb, status = $3, updated_at = NOW()
			WHERE id = $1 AND status <> $4`,
			key, payload, string(StatusCompleted), string(StatusCancelled),
		)
		if err != nil {
			return fmt.Errorf("leads: replace quotation %s: %w", id, err)
		}
		if tag.RowsAffected() > 0 {
			return nil
		}
		var status string
		if err := tx.QueryRow(ctx, "SELECT status FROM leads WHERE id = $1", key).Scan(&status); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("leads: replace quotation %s: %w", id, err)
		}
		return ErrCancelled
	})
}

func scanLead(row pgx.Row) (*Lead, error) {
	var (
		lead      Lead
		id        uuid.UUID
		status    string
		quotation []byte
		comments  []byte
	)
	err := row.Scan(
		&id, &lead.ProductName, &lead.QuantityRequested, &lead.RequesterEmail, &lead.RequesterNumber,
		&lead.AssignedEmployee, &status, &quotation, &comments, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	lead.ID = id.String()
	lead.Status = Status(status)
	if len(quotation) > 0 && string(quotation) != "null" {
		var doc quotations.Document
		if err := json.Unmarshal(quotation, &doc); err != nil {
			return nil, fmt.Errorf("decode quotation: %w", err)
		}
		lead.Quotation = &doc
	}
	if len(comments) > 0 {
		if err := json.Unmarshal(comments, &lead.Comments); err != nil {
			return nil, fmt.Errorf("decode comments: %w", err)
		}
	}
	lead.Comments = nonNilComments(lead.Comments)
	return &lead, nil
}

func nonNilComments(c []Comment) []Comment {
	if c == nil {
		return []Comment{}
	}
	return c
}
