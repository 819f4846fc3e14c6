package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSONMap represents a JSON map type that can be stored in the database
type JSONMap map[string]interface{}

// Value implements the driver.Valuer interface for database storage
func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements the sql.Scanner interface for database retrieval
func (j *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	return json.Unmarshal(scanBytes(value), j)
}

// GormDataType tells GORM how to handle this type
func (JSONMap) GormDataType() string {
	return "jsonb"
}

// ContactInfo is how a customer wants to be reached about a booking or waitlist slot
type ContactInfo struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone,omitempty"`
}

// Value implements the driver.Valuer interface for database storage
func (c ContactInfo) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements the sql.Scanner interface for database retrieval
func (c *ContactInfo) Scan(value interface{}) error {
	if value == nil {
		*c = ContactInfo{}
		return nil
	}
	raw := scanBytes(value)
	if raw == nil {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(raw, c)
}

// GormDataType tells GORM how to handle this type
func (ContactInfo) GormDataType() string {
	return "jsonb"
}

// IsZero reports whether no contact details were given
func (c ContactInfo) IsZero() bool {
	return c.Name == "" && c.Email == "" && c.Phone == ""
}

func scanBytes(value interface{}) []byte {
	switch v := value.(type) {
	case []byte:
		return v
	case string:
		return []byte(v)
	default:
		return nil
	}
}
