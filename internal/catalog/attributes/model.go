package attributes

import (
	"time"
)

// Attribute is a typed key/value descriptor (e.g. Color: Red) attachable to
// any number of products.
type Attribute struct {
	ID         int64     `json:"id"`
	Type       string    `json:"type"`
	Value      string    `json:"value"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}
