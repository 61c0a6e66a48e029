package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// URLList is a list of URLs stored as a JSONB column.
type URLList []string

// Value implements driver.Valuer.
func (l URLList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *URLList) Scan(src any) error {
	if src == nil {
		*l = nil
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into URLList", src)
	}

	return json.Unmarshal(data, l)
}
