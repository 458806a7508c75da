package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// Placeholder is a role slot on a template or document. On a template
// only Role and the widget layout are set; during document creation the
// slot is bound to a signer's email and, when a contact record could be
// resolved, the contact id. Widget metadata is carried through
// unmodified.
type Placeholder struct {
	Role        string `json:"role"`
	Email       string `json:"email,omitempty"`
	SignerObjID uint   `json:"signer_obj_id,omitempty"`
	Order       int    `json:"order,omitempty"`
	Widgets     JSON   `json:"widgets,omitempty"`
}

// PlaceholderList stores placeholders as a JSON column.
type PlaceholderList []Placeholder

func (p PlaceholderList) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

func (p *PlaceholderList) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("type assertion to []byte failed")
	}

	if len(bytes) == 0 {
		*p = nil
		return nil
	}

	return json.Unmarshal(bytes, p)
}
