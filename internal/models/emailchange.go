package models

import (
	"database/sql"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"

	"github.com/chapterhq/lodge/internal/crypto"
	"github.com/chapterhq/lodge/internal/storage"
)

// EmailChangeRequest records a member's request to change their email
// address, confirmed later via the emailed token.
type EmailChangeRequest struct {
	ID uuid.UUID `json:"id" db:"id"`

	MemberID uuid.UUID `json:"member_id" db:"member_id"`
	Email    string    `json:"email" db:"email"`
	Token    string    `json:"-" db:"token"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName overrides the table name used by pop
func (EmailChangeRequest) TableName() string {
	tableName := "email_change_requests"
	return tableName
}

// NewEmailChangeRequest creates and persists a change request for the
// member, replacing any earlier pending request.
func NewEmailChangeRequest(conn *storage.Connection, member *Member, email string) (*EmailChangeRequest, error) {
	var request *EmailChangeRequest

	err := conn.Transaction(func(tx *storage.Connection) error {
		if err := tx.RawQuery("DELETE FROM "+(&EmailChangeRequest{}).TableName()+" WHERE member_id = ?", member.ID).Exec(); err != nil {
			return errors.Wrap(err, "error clearing pending email change requests")
		}

		request = &EmailChangeRequest{
			ID:       uuid.Must(uuid.NewV4()),
			MemberID: member.ID,
			Email:    strings.ToLower(email),
			Token:    crypto.SecureToken(),
		}
		return errors.Wrap(tx.Create(request), "error creating email change request")
	})
	if err != nil {
		return nil, err
	}

	return request, nil
}

// FindEmailChangeRequestByToken finds a pending request by its token.
func FindEmailChangeRequestByToken(tx *storage.Connection, token string) (*EmailChangeRequest, error) {
	obj := &EmailChangeRequest{}
	if err := tx.Q().Where("token = ?", token).First(obj); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return nil, EmailChangeNotFoundError{}
		}
		return nil, errors.Wrap(err, "error finding email change request")
	}

	return obj, nil
}

// ConfirmEmailChange applies a pending request to the member and removes
// it, both in one transaction.
func ConfirmEmailChange(conn *storage.Connection, request *EmailChangeRequest) (*Member, error) {
	var member *Member

	err := conn.Transaction(func(tx *storage.Connection) error {
		var err error
		member, err = FindMemberByID(tx, request.MemberID)
		if err != nil {
			return err
		}

		member.Email = request.Email
		if err := tx.UpdateOnly(member, "email"); err != nil {
			return errors.Wrap(err, "error updating member email")
		}

		return errors.Wrap(tx.Destroy(request), "error removing email change request")
	})
	if err != nil {
		return nil, err
	}

	return member, nil
}
