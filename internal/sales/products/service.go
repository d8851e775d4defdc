package products

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/protorq/protorq/internal/platform/httpx"
)

const (
	msgRequired = "All fields are required"
	msgPrice    = "Price must be a positive number"
	msgCategory = "Category must be one of Couplings, Gear pump, Torque Limiters"
)

type Service struct {
	repo     Repository
	validate *validator.Validate
	logger   *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, validate: validator.New(), logger: logger}
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	return s.repo.Get(ctx, strings.TrimSpace(id))
}

func (s *Service) Create(ctx context.Context, req CreateProductRequest) (*Product, error) {
	req.ProductName = strings.TrimSpace(req.ProductName)
	req.ProductDescription = strings.TrimSpace(req.ProductDescription)
	req.Category = strings.TrimSpace(req.Category)
	if err := s.validate.Struct(req); err != nil {
		return nil, httpx.Errorf(httpx.ErrValidation, msgRequired)
	}
	if req.Price.IsNegative() {
		return nil, httpx.Errorf(httpx.ErrValidation, msgPrice)
	}
	category := Category(req.Category)
	if !category.Valid() {
		return nil, httpx.Errorf(httpx.ErrValidation, msgCategory)
	}

	p := &Product{
		ProductName:        req.ProductName,
		ProductDescription: req.ProductDescription,
		Price:              *req.Price,
		Category:           category,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("product created", slog.String("product_id", p.ID), slog.String("category", string(p.Category)))
	return p, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateProductRequest) (*Product, error) {
	updates := make(map[string]any)
	if req.ProductName != nil {
		updates["product_name"] = strings.TrimSpace(*req.ProductName)
	}
	if req.ProductDescription != nil {
		updates["product_description"] = strings.TrimSpace(*req.ProductDescription)
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, httpx.Errorf(httpx.ErrValidation, msgPrice)
		}
		updates["price"] = *req.Price
	}
	if req.Category != nil {
		category := Category(strings.TrimSpace(*req.Category))
		if !category.Valid() {
			return nil, httpx.Errorf(httpx.ErrValidation, msgCategory)
		}
		updates["category"] = string(category)
	}

	existing, err := s.repo.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, existing.ID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, existing.ID)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, strings.TrimSpace(id))
}
