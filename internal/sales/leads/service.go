package leads

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/protorq/protorq/internal/platform/httpx"
)

const (
	msgCreateRequired = "Product name, quantity, and requester email are required"
	msgQuantity       = "Quantity must be a positive number"
	msgEmail          = "Please enter a valid email address"
	msgStatus         = "Status must be one of pending, assigned, in-progress, completed, cancelled"
	msgEmployee       = "Employee email is required"
	msgCancelled      = "Lead is cancelled"
)

type Service struct {
	repo     Repository
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, validate: validator.New(), logger: logger, now: time.Now}
}

func (s *Service) List(ctx context.Context) ([]Lead, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Lead, error) {
	return s.repo.Get(ctx, strings.TrimSpace(id))
}

func (s *Service) Create(ctx context.Context, req CreateLeadRequest) (*Lead, error) {
	req.ProductName = strings.TrimSpace(req.ProductName)
	req.RequesterEmail = strings.ToLower(strings.TrimSpace(req.RequesterEmail))
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err, msgCreateRequired)
	}

	lead := &Lead{
		ProductName:       req.ProductName,
		QuantityRequested: *req.QuantityRequested,
		RequesterEmail:    req.RequesterEmail,
		RequesterNumber:   strings.TrimSpace(req.RequesterNumber),
		AssignedEmployee:  strings.TrimSpace(req.AssignedEmployee),
		Status:            StatusPending,
	}
	if err := s.repo.Create(ctx, lead); err != nil {
		return nil, err
	}
	s.logger.Info("lead created", slog.String("lead_id", lead.ID), slog.String("product", lead.ProductName))
	return lead, nil
}

// Update applies only the fields present in req. A cancelled lead keeps its
// status.
func (s *Service) Update(ctx context.Context, id string, req UpdateLeadRequest) (*Lead, error) {
	req.ProductName = trimmedOrNil(req.ProductName)
	req.RequesterEmail = trimmedOrNil(req.RequesterEmail)
	if req.RequesterEmail != nil {
		lowered := strings.ToLower(*req.RequesterEmail)
		req.RequesterEmail = &lowered
	}
	req.Status = trimmedOrNil(req.Status)
	if req.QuantityRequested != nil && *req.QuantityRequested < 1 {
		return nil, httpx.Errorf(httpx.ErrValidation, msgQuantity)
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err, msgCreateRequired)
	}

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	if req.ProductName != nil {
		updates["product_name"] = *req.ProductName
	}
	if req.QuantityRequested != nil {
		updates["quantity_requested"] = *req.QuantityRequested
	}
	if req.RequesterEmail != nil {
		updates["requester_email"] = *req.RequesterEmail
	}
	if req.RequesterNumber.Set {
		updates["requester_number"] = strings.TrimSpace(req.RequesterNumber.Value)
	}
	if req.AssignedEmployee != nil {
		updates["assigned_employee"] = strings.TrimSpace(*req.AssignedEmployee)
	}
	if req.Status != nil {
		next := Status(*req.Status)
		if existing.Status == StatusCancelled && next != StatusCancelled {
			return nil, httpx.Errorf(httpx.ErrConflict, msgCancelled)
		}
		updates["status"] = string(next)
	}

	if err := s.repo.Update(ctx, existing.ID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, existing.ID)
}

// Assign hands the lead to an employee and moves it to assigned, recording
// an admin comment when one is given.
func (s *Service) Assign(ctx context.Context, id string, req AssignLeadRequest) (*Lead, error) {
	employee := strings.TrimSpace(req.AssignedEmployee)
	if employee == "" {
		return nil, httpx.Errorf(httpx.ErrValidation, msgEmployee)
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status == StatusCancelled {
		return nil, httpx.Errorf(httpx.ErrConflict, msgCancelled)
	}

	var comment *Comment
	if text := strings.TrimSpace(req.Comment); text != "" {
		comment = &Comment{Comment: text, AuthorType: AuthorAdmin, CreatedAt: s.now().UTC()}
	}
	if err := s.repo.Assign(ctx, existing.ID, employee, comment); err != nil {
		return nil, err
	}
	s.logger.Info("lead assigned", slog.String("lead_id", existing.ID), slog.String("employee", employee))
	return s.repo.Get(ctx, existing.ID)
}

// Delete removes the lead together with its quotation.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, strings.TrimSpace(id))
}

func trimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

func validationError(err error, requiredMsg string) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return httpx.Errorf(httpx.ErrValidation, requiredMsg)
	}
	for _, fe := range verrs {
		switch {
		case fe.Tag() == "required":
			return httpx.Errorf(httpx.ErrValidation, requiredMsg)
		case fe.Field() == "QuantityRequested":
			return httpx.Errorf(httpx.ErrValidation, msgQuantity)
		case fe.Tag() == "email":
			return httpx.Errorf(httpx.ErrValidation, msgEmail)
		case fe.Field() == "Status":
			return httpx.Errorf(httpx.ErrValidation, msgStatus)
		}
	}
	return httpx.Errorf(httpx.ErrValidation, fmt.Sprintf("invalid %s", verrs[0].Field()))
}
