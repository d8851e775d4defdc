package products

import (
	"github.com/shopspring/decimal"
)

type CreateProductRequest struct {
	ProductName        string           `json:"productName" validate:"required"`
	ProductDescription string           `json:"productDescription" validate:"required"`
	Price              *decimal.Decimal `json:"price" validate:"required"`
	Category           string           `json:"category" validate:"required"`
}

type UpdateProductRequest struct {
	ProductName        *string          `json:"productName"`
	ProductDescription *string          `json:"productDescription"`
	Price              *decimal.Decimal `json:"price"`
	Category           *string          `json:"category"`
}

type ProductResponse struct {
	Message string   `json:"message"`
	Product *Product `json:"product"`
}
