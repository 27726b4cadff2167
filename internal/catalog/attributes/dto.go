package attributes

// AttributeForm carries the client-settable fields for create and update.
// ID and timestamps are always server-assigned.
type AttributeForm struct {
	Type  string `json:"type" validate:"required,max=255"`
	Value string `json:"value" validate:"required,max=255"`
}
