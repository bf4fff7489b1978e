package models

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"

	"github.com/chapterhq/lodge/internal/storage"
)

// AcademicYear classifies a prospective member by academic standing.
type AcademicYear string

const (
	YearIncomingFreshman AcademicYear = "IF"
	YearFreshman         AcademicYear = "FR"
	YearSophomore        AcademicYear = "SO"
	YearJunior           AcademicYear = "JR"
	YearSenior           AcademicYear = "SR"
	YearGraduate         AcademicYear = "GR"
)

var academicYearLabels = map[AcademicYear]string{
	YearIncomingFreshman: "Incoming Freshman",
	YearFreshman:         "Freshman",
	YearSophomore:        "Sophomore",
	YearJunior:           "Junior",
	YearSenior:           "Senior",
	YearGraduate:         "Graduate Student",
}

func (y AcademicYear) Valid() bool {
	_, ok := academicYearLabels[y]
	return ok
}

func (y AcademicYear) Label() string {
	return academicYearLabels[y]
}

// ContactRecord is a message submitted by a nonmember through the public
// contact form.
type ContactRecord struct {
	ID uuid.UUID `json:"id" db:"id"`

	Name    string             `json:"name" db:"name"`
	Email   string             `json:"email" db:"email"`
	Phone   storage.NullString `json:"phone" db:"phone"`
	Message string             `json:"message" db:"message"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName overrides the table name used by pop
func (ContactRecord) TableName() string {
	tableName := "contact_records"
	return tableName
}

func (c *ContactRecord) String() string {
	return fmt.Sprintf("Name: %s\nEmail: %s\nMessage: %s", c.Name, c.Email, c.Message)
}

// InformationCard is a self-submitted card from a prospective member.
type InformationCard struct {
	ID uuid.UUID `json:"id" db:"id"`

	Name  string             `json:"name" db:"name"`
	Email string             `json:"email" db:"email"`
	Phone storage.NullString `json:"phone" db:"phone"`

	Year      AcademicYear       `json:"year" db:"year"`
	Interests storage.NullString `json:"interests" db:"interests"`
	Relatives storage.NullString `json:"relatives" db:"relatives"`

	// Subscribe opts the submitter into chapter activity updates.
	Subscribe bool `json:"subscribe" db:"subscribe"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName overrides the table name used by pop
func (InformationCard) TableName() string {
	tableName := "information_cards"
	return tableName
}

func (c *InformationCard) String() string {
	str := fmt.Sprintf("Name: %s\nEmail: %s\nYear: %s", c.Name, c.Email, c.Year.Label())
	if phone := string(c.Phone); phone != "" {
		str += "\nPhone: " + phone
	}
	if interests := string(c.Interests); interests != "" {
		str += "\nInterests: " + interests
	}
	if relatives := string(c.Relatives); relatives != "" {
		str += "\nRelatives: " + relatives
	}
	return str
}

// FindInformationCardByID finds an information card matching the provided ID.
func FindInformationCardByID(tx *storage.Connection, id uuid.UUID) (*InformationCard, error) {
	obj := &InformationCard{}
	if err := tx.Q().Where("id = ?", id).First(obj); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return nil, InformationCardNotFoundError{}
		}
		return nil, errors.Wrap(err, "error finding information card")
	}

	return obj, nil
}

// FindInformationCards returns every information card, newest first.
func FindInformationCards(tx *storage.Connection) ([]*InformationCard, error) {
	cards := []*InformationCard{}
	if err := tx.Q().Order("created_at desc").All(&cards); err != nil {
		return nil, errors.Wrap(err, "error finding information cards")
	}
	return cards, nil
}

// FindContactRecords returns every contact record, newest first.
func FindContactRecords(tx *storage.Connection) ([]*ContactRecord, error) {
	records := []*ContactRecord{}
	if err := tx.Q().Order("created_at desc").All(&records); err != nil {
		return nil, errors.Wrap(err, "error finding contact records")
	}
	return records, nil
}

// AllCardSubscriberEmails returns the distinct email addresses from
// information cards whose submitters opted into updates.
func AllCardSubscriberEmails(tx *storage.Connection) ([]string, error) {
	cards := []*InformationCard{}
	if err := tx.Q().Where("subscribe = ?", true).All(&cards); err != nil {
		return nil, errors.Wrap(err, "error finding card subscribers")
	}

	seen := map[string]bool{}
	emails := []string{}
	for _, card := range cards {
		if !seen[card.Email] {
			seen[card.Email] = true
			emails = append(emails, card.Email)
		}
	}
	return emails, nil
}
