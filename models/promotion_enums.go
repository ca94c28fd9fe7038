package models

import (
	"database/sql/driver"
	"fmt"
)

// PromotionType says whether a promotion's value is a percentage or an
// absolute amount.
type PromotionType int

const (
	PromotionTypePercentage PromotionType = iota + 1
	PromotionTypeAbsolute
)

var promotionTypeNames = map[PromotionType]string{
	PromotionTypePercentage: "PERCENTAGE",
	PromotionTypeAbsolute:   "ABSOLUTE",
}

// ParsePromotionType converts an enum name such as "PERCENTAGE" into a
// PromotionType. Names are case sensitive.
func ParsePromotionType(name string) (PromotionType, error) {
	for t, n := range promotionTypeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, NewDataValidationError("'%s' is not a valid PromotionType", name)
}

func (t PromotionType) String() string {
	return promotionTypeNames[t]
}

// IsValid reports whether t is one of the declared types.
func (t PromotionType) IsValid() bool {
	_, ok := promotionTypeNames[t]
	return ok
}

func (t PromotionType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *PromotionType) UnmarshalText(text []byte) error {
	parsed, err := ParsePromotionType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value stores the enum by name; the zero value is stored as NULL.
func (t PromotionType) Value() (driver.Value, error) {
	if t == 0 {
		return nil, nil
	}
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid PromotionType %d", int(t))
	}
	return t.String(), nil
}

func (t *PromotionType) Scan(src any) error {
	name, ok, err := scanEnumName(src)
	if err != nil || !ok {
		*t = 0
		return err
	}
	return t.UnmarshalText([]byte(name))
}

// PromotionScope is the breadth a promotion applies to: one product, a
// product category, or the whole store.
type PromotionScope int

const (
	PromotionScopeProductID PromotionScope = iota + 1
	PromotionScopeProductCategory
	PromotionScopeEntireStore
)

var promotionScopeNames = map[PromotionScope]string{
	PromotionScopeProductID:       "PRODUCT_ID",
	PromotionScopeProductCategory: "PRODUCT_CATEGORY",
	PromotionScopeEntireStore:     "ENTIRE_STORE",
}

// ParsePromotionScope converts an enum name such as "ENTIRE_STORE" into a
// PromotionScope. Names are case sensitive.
func ParsePromotionScope(name string) (PromotionScope, error) {
	for s, n := range promotionScopeNames {
		if n == name {
			return s, nil
		}
	}
	return 0, NewDataValidationError("'%s' is not a valid PromotionScope", name)
}

func (s PromotionScope) String() string {
	return promotionScopeNames[s]
}

func (s PromotionScope) IsValid() bool {
	_, ok := promotionScopeNames[s]
	return ok
}

func (s PromotionScope) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *PromotionScope) UnmarshalText(text []byte) error {
	parsed, err := ParsePromotionScope(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s PromotionScope) Value() (driver.Value, error) {
	if s == 0 {
		return nil, nil
	}
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid PromotionScope %d", int(s))
	}
	return s.String(), nil
}

func (s *PromotionScope) Scan(src any) error {
	name, ok, err := scanEnumName(src)
	if err != nil || !ok {
		*s = 0
		return err
	}
	return s.UnmarshalText([]byte(name))
}

func scanEnumName(src any) (string, bool, error) {
	switch v := src.(type) {
	case nil:
		return "", false, nil
	case string:
		return v, true, nil
	case []byte:
		return string(v), true, nil
	default:
		return "", false, fmt.Errorf("cannot scan %T into an enum name", src)
	}
}
