package models

import (
	"database/sql"
	"time"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"

	"github.com/chapterhq/lodge/internal/storage"
)

// VisibilitySettings holds one disclosure channel's flags for a member:
// which profile fields that channel is allowed to reveal. Each member owns
// two instances, one for the public channel and one for the chapter channel.
type VisibilitySettings struct {
	ID uuid.UUID `json:"id" db:"id"`

	FullName    bool `json:"full_name" db:"full_name"`
	BigBrother  bool `json:"big_brother" db:"big_brother"`
	Major       bool `json:"major" db:"major"`
	Hometown    bool `json:"hometown" db:"hometown"`
	CurrentCity bool `json:"current_city" db:"current_city"`
	Initiation  bool `json:"initiation" db:"initiation"`
	Graduation  bool `json:"graduation" db:"graduation"`
	DOB         bool `json:"dob" db:"dob"`
	Phone       bool `json:"phone" db:"phone"`
	Email       bool `json:"email" db:"email"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName overrides the table name used by pop
func (VisibilitySettings) TableName() string {
	tableName := "visibility_settings"
	return tableName
}

// NewPublicVisibility returns the default public channel settings: every
// field hidden.
func NewPublicVisibility() *VisibilitySettings {
	return &VisibilitySettings{
		ID: uuid.Must(uuid.NewV4()),
	}
}

// NewChapterVisibility returns the default chapter channel settings: every
// field visible.
func NewChapterVisibility() *VisibilitySettings {
	return &VisibilitySettings{
		ID:          uuid.Must(uuid.NewV4()),
		FullName:    true,
		BigBrother:  true,
		Major:       true,
		Hometown:    true,
		CurrentCity: true,
		Initiation:  true,
		Graduation:  true,
		DOB:         true,
		Phone:       true,
		Email:       true,
	}
}

// VisibilityUpdate carries a requested flag change set. Nil fields are left
// untouched.
type VisibilityUpdate struct {
	FullName    *bool `json:"full_name"`
	BigBrother  *bool `json:"big_brother"`
	Major       *bool `json:"major"`
	Hometown    *bool `json:"hometown"`
	CurrentCity *bool `json:"current_city"`
	Initiation  *bool `json:"initiation"`
	Graduation  *bool `json:"graduation"`
	DOB         *bool `json:"dob"`
	Phone       *bool `json:"phone"`
	Email       *bool `json:"email"`
}

// ApplyPublicUpdate applies an update to a public channel settings record.
// All ten flags may be changed.
func (v *VisibilitySettings) ApplyPublicUpdate(tx *storage.Connection, params *VisibilityUpdate) error {
	v.apply(params, false)
	return tx.UpdateOnly(v, visibilityColumns...)
}

// ApplyChapterUpdate applies an update to a chapter channel settings record.
// The chapter view always reveals the member's full name, big brother,
// major, hometown and email, so those flags stay pinned to true.
func (v *VisibilitySettings) ApplyChapterUpdate(tx *storage.Connection, params *VisibilityUpdate) error {
	v.apply(params, true)
	return tx.UpdateOnly(v, visibilityColumns...)
}

var visibilityColumns = []string{
	"full_name", "big_brother", "major", "hometown", "current_city",
	"initiation", "graduation", "dob", "phone", "email",
}

func (v *VisibilitySettings) apply(params *VisibilityUpdate, chapter bool) {
	if params.CurrentCity != nil {
		v.CurrentCity = *params.CurrentCity
	}
	if params.Initiation != nil {
		v.Initiation = *params.Initiation
	}
	if params.Graduation != nil {
		v.Graduation = *params.Graduation
	}
	if params.DOB != nil {
		v.DOB = *params.DOB
	}
	if params.Phone != nil {
		v.Phone = *params.Phone
	}

	if chapter {
		v.FullName = true
		v.BigBrother = true
		v.Major = true
		v.Hometown = true
		v.Email = true
		return
	}

	if params.FullName != nil {
		v.FullName = *params.FullName
	}
	if params.BigBrother != nil {
		v.BigBrother = *params.BigBrother
	}
	if params.Major != nil {
		v.Major = *params.Major
	}
	if params.Hometown != nil {
		v.Hometown = *params.Hometown
	}
	if params.Email != nil {
		v.Email = *params.Email
	}
}

// FindVisibilityByID finds visibility settings matching the provided ID.
func FindVisibilityByID(tx *storage.Connection, id uuid.UUID) (*VisibilitySettings, error) {
	obj := &VisibilitySettings{}
	if err := tx.Q().Where("id = ?", id).First(obj); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return nil, VisibilityNotFoundError{}
		}
		return nil, errors.Wrap(err, "error finding visibility settings")
	}

	return obj, nil
}
