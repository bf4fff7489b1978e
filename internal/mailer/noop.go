package mailer

import (
	"errors"

	"github.com/chapterhq/lodge/internal/models"
)

type noopMailer struct{}

func (m *noopMailer) AnnouncementMail(recipients []string, announcement *models.Announcement, authorName string) error {
	return nil
}

func (m *noopMailer) InfoCardMail(recipients []string, card *models.InformationCard) error {
	return nil
}

func (m *noopMailer) ContactMail(recipients []string, record *models.ContactRecord) error {
	return nil
}

func (m *noopMailer) EmailChangeMail(request *models.EmailChangeRequest) error {
	if request.Email == "" {
		return errors.New("to field cannot be empty")
	}
	return nil
}

func (m *noopMailer) PasswordResetMail(member *models.Member, newPassword string) error {
	if member.Email == "" {
		return errors.New("to field cannot be empty")
	}
	return nil
}

func (m *noopMailer) ValidateEmail(email string) error {
	return validateEmail(email)
}
