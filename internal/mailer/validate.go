package mailer

import (
	"errors"

	"github.com/badoux/checkmail"
)

var ErrInvalidEmailFormat = errors.New("invalid email format")

func (m *smtpMailer) ValidateEmail(email string) error {
	return validateEmail(email)
}

func validateEmail(email string) error {
	if err := checkmail.ValidateFormat(email); err != nil {
		return ErrInvalidEmailFormat
	}
	return nil
}
