package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// IntList stores a set of small integers as a JSON text column.
type IntList []int

// Contains reports whether v is in the list.
func (l IntList) Contains(v int) bool {
	for _, n := range l {
		if n == v {
			return true
		}
	}
	return false
}

func (l IntList) Value() (driver.Value, error) {
	if l == nil {
		l = IntList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal int list: %w", err)
	}
	return string(b), nil
}

func (l *IntList) Scan(src any) error {
	return scanJSON(src, l)
}

// OrdinalWeekdays stores ordinal weekday pairs as a JSON text column.
type OrdinalWeekdays []OrdinalWeekday

func (o OrdinalWeekdays) Value() (driver.Value, error) {
	if o == nil {
		o = OrdinalWeekdays{}
	}
	b, err := json.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("marshal ordinal weekdays: %w", err)
	}
	return string(b), nil
}

func (o *OrdinalWeekdays) Scan(src any) error {
	return scanJSON(src, o)
}

func scanJSON(src, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dst)
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dst)
	default:
		return fmt.Errorf("scan json column: unsupported type %T", src)
	}
}
