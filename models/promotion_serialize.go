package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"promotion-backend/utils"

	"github.com/google/uuid"
)

// Serialize renders the promotion as a plain dictionary keyed by column
// name. Timestamps are ISO-8601 strings, enums are their names and unset
// optional fields are nil.
func (p *Promotion) Serialize() map[string]any {
	data := map[string]any{
		"promotion_id":          nil,
		"promotion_name":        p.PromotionName,
		"promotion_description": p.PromotionDescription,
		"promotion_type":        nil,
		"promotion_scope":       nil,
		"start_date":            utils.FormatDateTime(p.StartDate),
		"end_date":              utils.FormatDateTime(p.EndDate),
		"promotion_value":       p.PromotionValue,
		"promotion_code":        nil,
		"created_by":            p.CreatedBy.String(),
		"modified_by":           nil,
		"created_when":          utils.FormatDateTime(p.CreatedWhen),
		"modified_when":         nil,
	}
	if p.IsPersisted() {
		data["promotion_id"] = p.PromotionID
	}
	if p.PromotionType.IsValid() {
		data["promotion_type"] = p.PromotionType.String()
	}
	if p.PromotionScope.IsValid() {
		data["promotion_scope"] = p.PromotionScope.String()
	}
	if p.PromotionCode != nil {
		data["promotion_code"] = *p.PromotionCode
	}
	if p.ModifiedBy != nil {
		data["modified_by"] = p.ModifiedBy.String()
	}
	if p.ModifiedWhen != nil {
		data["modified_when"] = utils.FormatDateTime(*p.ModifiedWhen)
	}
	return data
}

// Deserialize copies the values in data onto the promotion. Keys missing
// from data keep their current value. Every field is decoded into a staging
// copy first, so on error the receiver is left exactly as it was.
func (p *Promotion) Deserialize(data map[string]any) error {
	if data == nil {
		return NewDataValidationError("invalid promotion: body of request contained bad or no data")
	}

	staged := *p
	var err error

	if staged.PromotionID, err = field(data, "promotion_id", p.PromotionID, decodeID); err != nil {
		return err
	}
	if p.IsPersisted() && staged.PromotionID != p.PromotionID {
		return fieldError("promotion_id", fmt.Errorf("cannot change promotion_id %d once persisted", p.PromotionID))
	}
	if staged.PromotionName, err = field(data, "promotion_name", p.PromotionName, decodeString); err != nil {
		return err
	}
	if staged.PromotionDescription, err = field(data, "promotion_description", p.PromotionDescription, decodeString); err != nil {
		return err
	}
	if staged.PromotionType, err = field(data, "promotion_type", p.PromotionType, decodePromotionType); err != nil {
		return err
	}
	if staged.PromotionScope, err = field(data, "promotion_scope", p.PromotionScope, decodePromotionScope); err != nil {
		return err
	}
	if staged.StartDate, err = field(data, "start_date", p.StartDate, decodeTime); err != nil {
		return err
	}
	if staged.EndDate, err = field(data, "end_date", p.EndDate, decodeTime); err != nil {
		return err
	}
	if staged.PromotionValue, err = field(data, "promotion_value", p.PromotionValue, decodeFloat); err != nil {
		return err
	}
	if staged.PromotionCode, err = field(data, "promotion_code", p.PromotionCode, optional(decodeString)); err != nil {
		return err
	}
	if staged.CreatedBy, err = field(data, "created_by", p.CreatedBy, decodeUUID); err != nil {
		return err
	}
	if staged.ModifiedBy, err = field(data, "modified_by", p.ModifiedBy, optional(decodeUUID)); err != nil {
		return err
	}
	if staged.CreatedWhen, err = field(data, "created_when", p.CreatedWhen, decodeTime); err != nil {
		return err
	}
	if staged.ModifiedWhen, err = field(data, "modified_when", p.ModifiedWhen, optional(decodeTime)); err != nil {
		return err
	}

	if err := staged.Validate(); err != nil {
		return err
	}

	*p = staged
	return nil
}

// ParsePromotionID decodes a promotion_id value the way Deserialize does.
// nil decodes to zero, meaning not persisted.
func ParsePromotionID(raw any) (int64, error) {
	id, err := decodeID(raw)
	if err != nil {
		return 0, fieldError("promotion_id", err)
	}
	return id, nil
}

var errRequired = errors.New("is required")

func field[T any](data map[string]any, key string, current T, decode func(any) (T, error)) (T, error) {
	raw, ok := data[key]
	if !ok {
		return current, nil
	}
	v, err := decode(raw)
	if err != nil {
		return current, fieldError(key, err)
	}
	return v, nil
}

// optional lets nil clear a nullable field.
func optional[T any](decode func(any) (T, error)) func(any) (*T, error) {
	return func(raw any) (*T, error) {
		if raw == nil {
			return nil, nil
		}
		v, err := decode(raw)
		if err != nil {
			return nil, err
		}
		return &v, nil
	}
}

func decodeString(raw any) (string, error) {
	switch v := raw.(type) {
	case nil:
		return "", errRequired
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("expected a string, got %T", raw)
	}
}

func decodeFloat(raw any) (float64, error) {
	v, err := decodeNumber(raw)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("expected a finite number, got %v", v)
	}
	return v, nil
}

func decodeNumber(raw any) (float64, error) {
	switch v := raw.(type) {
	case nil:
		return 0, errRequired
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		return strconv.ParseFloat(v, 64)
	default:
		return 0, fmt.Errorf("expected a number, got %T", raw)
	}
}

// decodeID accepts nil as "not persisted".
func decodeID(raw any) (int64, error) {
	switch v := raw.(type) {
	case nil:
		return 0, nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("expected a whole number, got %v", v)
		}
		// float64(math.MaxInt64) rounds up to 2^63, which is already out of range.
		if v < math.MinInt64 || v >= math.MaxInt64 {
			return 0, fmt.Errorf("%v is out of range for an identifier", v)
		}
		return int64(v), nil
	case json.Number:
		return v.Int64()
	default:
		return 0, fmt.Errorf("expected an integer, got %T", raw)
	}
}

func decodePromotionType(raw any) (PromotionType, error) {
	switch v := raw.(type) {
	case nil:
		return 0, errRequired
	case PromotionType:
		if !v.IsValid() {
			return 0, NewDataValidationError("'%d' is not a valid PromotionType", int(v))
		}
		return v, nil
	case string:
		return ParsePromotionType(v)
	default:
		return 0, fmt.Errorf("expected an enum name, got %T", raw)
	}
}

func decodePromotionScope(raw any) (PromotionScope, error) {
	switch v := raw.(type) {
	case nil:
		return 0, errRequired
	case PromotionScope:
		if !v.IsValid() {
			return 0, NewDataValidationError("'%d' is not a valid PromotionScope", int(v))
		}
		return v, nil
	case string:
		return ParsePromotionScope(v)
	default:
		return 0, fmt.Errorf("expected an enum name, got %T", raw)
	}
}

func decodeTime(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case nil:
		return time.Time{}, errRequired
	case time.Time:
		return v, nil
	case string:
		return utils.ParseDateTime(v)
	default:
		return time.Time{}, fmt.Errorf("expected an ISO-8601 string, got %T", raw)
	}
}

func decodeUUID(raw any) (uuid.UUID, error) {
	switch v := raw.(type) {
	case nil:
		return uuid.Nil, errRequired
	case uuid.UUID:
		return v, nil
	case string:
		return uuid.Parse(v)
	default:
		return uuid.Nil, fmt.Errorf("expected a UUID string, got %T", raw)
	}
}
