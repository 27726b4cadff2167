package products

import (
	"time"

	"github.com/catalog-api/catalog-api/internal/catalog/attributes"
)

// Product is a purchasable item with fixed core fields plus an attached set
// of attributes. The attribute set is serialized inline on every read.
type Product struct {
	ID           int64                  `json:"id"`
	Name         string                 `json:"name"`
	Price        float64                `json:"price"`
	Manufacturer string                 `json:"manufacturer"`
	ProductType  string                 `json:"product_type"`
	ReleaseDate  time.Time              `json:"release_date"`
	CreatedAt    time.Time              `json:"created_at"`
	ModifiedAt   time.Time              `json:"modified_at"`
	Attributes   []attributes.Attribute `json:"attributes"`
}
