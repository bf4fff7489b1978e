package mailer

import (
	"fmt"

	"github.com/sirupsen/logrus"
	gomail "gopkg.in/gomail.v2"

	"github.com/chapterhq/lodge/internal/conf"
	"github.com/chapterhq/lodge/internal/models"
)

// Mailer defines the interface for outbound chapter notifications. The
// caller decides which addresses are eligible recipients; the mailer only
// formats and sends.
type Mailer interface {
	AnnouncementMail(recipients []string, announcement *models.Announcement, authorName string) error
	InfoCardMail(recipients []string, card *models.InformationCard) error
	ContactMail(recipients []string, record *models.ContactRecord) error
	EmailChangeMail(request *models.EmailChangeRequest) error
	PasswordResetMail(member *models.Member, newPassword string) error
	ValidateEmail(email string) error
}

// NewMailer returns a mailer backed by the configured SMTP server, or a
// noop mailer when no SMTP host is set.
func NewMailer(config *conf.GlobalConfiguration) Mailer {
	if config.SMTP.Host == "" {
		logrus.Infof("Noop mail client being used for %v", config.SiteURL)
		return &noopMailer{}
	}

	return &smtpMailer{
		config: config,
		dialer: gomail.NewDialer(config.SMTP.Host, config.SMTP.Port, config.SMTP.User, config.SMTP.Pass),
	}
}

type smtpMailer struct {
	config *conf.GlobalConfiguration
	dialer *gomail.Dialer
}

func (m *smtpMailer) send(recipients []string, subject, body string) error {
	return m.sendFrom(m.config.SMTP.AdminEmail, recipients, subject, body)
}

func (m *smtpMailer) sendFrom(from string, recipients []string, subject, body string) error {
	if len(recipients) == 0 {
		return nil
	}

	mail := gomail.NewMessage()
	mail.SetAddressHeader("From", from, m.config.SMTP.SenderName)
	mail.SetHeader("Bcc", recipients...)
	mail.SetHeader("Subject", subject)
	mail.SetBody("text/plain", body)

	return m.dialer.DialAndSend(mail)
}

func (m *smtpMailer) sendTo(to, subject, body string) error {
	mail := gomail.NewMessage()
	mail.SetAddressHeader("From", m.config.SMTP.AdminEmail, m.config.SMTP.SenderName)
	mail.SetHeader("To", to)
	mail.SetHeader("Subject", subject)
	mail.SetBody("text/plain", body)

	return m.dialer.DialAndSend(mail)
}

// AnnouncementMail goes out from the messenger's address when one is
// configured, so replies reach the officer who curates announcements.
func (m *smtpMailer) AnnouncementMail(recipients []string, announcement *models.Announcement, authorName string) error {
	from := m.config.Chapter.MessengerEmail
	if from == "" {
		from = m.config.SMTP.AdminEmail
	}

	subject := "New Announcement"
	body := fmt.Sprintf("%s posted a new announcement:\n\n%s\n\nView all announcements at %s/chapter/announcements.",
		authorName, announcement.Text, m.config.SiteURL)
	return m.sendFrom(from, recipients, subject, body)
}

func (m *smtpMailer) InfoCardMail(recipients []string, card *models.InformationCard) error {
	subject := fmt.Sprintf("Information Card from %s", card.Name)
	return m.send(recipients, subject, card.String())
}

func (m *smtpMailer) ContactMail(recipients []string, record *models.ContactRecord) error {
	subject := fmt.Sprintf("Contact Request from %s", record.Name)
	return m.send(recipients, subject, record.String())
}

func (m *smtpMailer) EmailChangeMail(request *models.EmailChangeRequest) error {
	subject := "Confirm your new email address"
	body := fmt.Sprintf("Follow this link to confirm your new email address:\n\n%s/brothers/email/%s",
		m.config.SiteURL, request.Token)
	return m.sendTo(request.Email, subject, body)
}

func (m *smtpMailer) PasswordResetMail(member *models.Member, newPassword string) error {
	subject := "Your password has been reset"
	body := fmt.Sprintf("Your password has been reset by an administrator.\n\nYour temporary password is: %s\n\nSign in at %s and change it immediately.",
		newPassword, m.config.SiteURL)
	return m.sendTo(member.Email, subject, body)
}
