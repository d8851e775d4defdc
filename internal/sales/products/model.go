package products

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryCouplings      Category = "Couplings"
	CategoryGearPump       Category = "Gear pump"
	CategoryTorqueLimiters Category = "Torque Limiters"
)

// Categories lists the catalog categories in display order.
var Categories = []Category{CategoryCouplings, CategoryGearPump, CategoryTorqueLimiters}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Product is one catalog entry offered on quotations.
type Product struct {
	ID                 string          `json:"id"`
	ProductName        string          `json:"productName"`
	ProductDescription string          `json:"productDescription"`
	Price              decimal.Decimal `json:"price"`
	Category           Category        `json:"category"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}
