package leads

import (
	"bytes"
	"encoding/json"
)

type CreateLeadRequest struct {
	ProductName       string `json:"productName" validate:"required"`
	QuantityRequested *int   `json:"quantityRequested" validate:"required,min=1"`
	RequesterEmail    string `json:"requesterEmail" validate:"required,email"`
	RequesterNumber   string `json:"requesterNumber"`
	AssignedEmployee  string `json:"assignedEmployee"`
}

// UpdateLeadRequest carries a partial update; absent fields are left alone.
type UpdateLeadRequest struct {
	ProductName       *string        `json:"productName"`
	QuantityRequested *int           `json:"quantityRequested" validate:"omitempty,min=1"`
	RequesterEmail    *string        `json:"requesterEmail" validate:"omitempty,email"`
	RequesterNumber   NullableString `json:"requesterNumber"`
	AssignedEmployee  *string        `json:"assignedEmployee"`
	Status            *string        `json:"status" validate:"omitempty,oneof=pending assigned in-progress completed cancelled"`
}

type AssignLeadRequest struct {
	AssignedEmployee string `json:"assignedEmployee" validate:"required"`
	Comment          string `json:"comment"`
}

// LeadResponse wraps a lead with a confirmation message.
type LeadResponse struct {
	Message string `json:"message"`
	Lead    *Lead  `json:"lead"`
}

// NullableString distinguishes an absent field from an explicit null,
// which clears the stored value.
type NullableString struct {
	Set   bool
	Value string
}

func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = ""
		return nil
	}
	return json.Unmarshal(data, &n.Value)
}
