package models

import (
	"fmt"
	"time"

	"promotion-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Promotion is a discount record. PromotionID is zero until the row is first
// created and never changes afterwards.
type Promotion struct {
	PromotionID          int64          `gorm:"column:promotion_id;primaryKey;autoIncrement" json:"promotion_id"`
	PromotionName        string         `gorm:"size:63" json:"promotion_name" validate:"required,max=63"`
	PromotionDescription string         `gorm:"size:255" json:"promotion_description" validate:"max=255"`
	PromotionType        PromotionType  `gorm:"type:varchar(32)" json:"promotion_type" validate:"required,enum"`
	PromotionScope       PromotionScope `gorm:"type:varchar(32)" json:"promotion_scope" validate:"required,enum"`
	StartDate            time.Time      `json:"start_date" validate:"required"`
	EndDate              time.Time      `json:"end_date" validate:"required"`
	PromotionValue       float64        `gorm:"type:double precision" json:"promotion_value" validate:"finite"`
	PromotionCode        *string        `gorm:"size:63" json:"promotion_code" validate:"omitempty,max=63"`
	CreatedBy            uuid.UUID      `gorm:"type:uuid" json:"created_by" validate:"required"`
	ModifiedBy           *uuid.UUID     `gorm:"type:uuid" json:"modified_by"`
	CreatedWhen          time.Time      `json:"created_when"`
	ModifiedWhen         *time.Time     `json:"modified_when"`
}

func (Promotion) TableName() string {
	return "promotions"
}

var validate = utils.NewValidator()

// Validate checks that every non-optional field is set, that both enums hold
// declared values and that strings fit their columns. created_when is not
// checked; BeforeCreate fills it in.
func (p *Promotion) Validate() error {
	if err := validate.Struct(p); err != nil {
		return &DataValidationError{
			Message: "invalid promotion: " + utils.SanitizeValidationError(err),
			Fields:  utils.FieldErrors(err),
			Err:     err,
		}
	}
	return nil
}

// IsPersisted reports whether the record has been assigned an identifier.
func (p *Promotion) IsPersisted() bool {
	return p.PromotionID != 0
}

func (p *Promotion) String() string {
	return fmt.Sprintf("<Promotion %s promotion_id=[%d], promotion_name=[%s]>", p.PromotionName, p.PromotionID, p.PromotionName)
}

func (p *Promotion) BeforeSave(tx *gorm.DB) error {
	return p.Validate()
}

func (p *Promotion) BeforeCreate(tx *gorm.DB) error {
	if p.CreatedWhen.IsZero() {
		p.CreatedWhen = time.Now().UTC()
	}
	return nil
}
