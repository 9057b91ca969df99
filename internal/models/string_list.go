package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// StringList is stored in a text column as a comma-joined list and sent over
// the wire as a JSON array. Items must not contain commas.
type StringList []string

func (l *StringList) Scan(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
	if raw == "" {
		*l = StringList{}
		return nil
	}
	*l = strings.Split(raw, ",")
	return nil
}

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return strings.Join(l, ","), nil
}
