package products

import (
	"time"
)

// ProductForm carries the client-settable fields for create and update.
// Price is a pointer so a missing field is distinguishable from zero.
// ReleaseDate defaults to the creation moment when absent.
type ProductForm struct {
	Name         string     `json:"name" validate:"required,max=255"`
	Price        *float64   `json:"price" validate:"required,gte=0"`
	Manufacturer string     `json:"manufacturer" validate:"omitempty,max=255"`
	ProductType  string     `json:"product_type" validate:"omitempty,max=255"`
	ReleaseDate  *time.Time `json:"release_date"`
}

// AssociationForm is the narrow partial-update body for add-attribute and
// remove-attribute. Any other fields present in the request are ignored.
type AssociationForm struct {
	AttributeID int64 `json:"attribute_id" validate:"required,gt=0"`
}
