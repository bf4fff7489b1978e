package api

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofrs/uuid"

	"github.com/chapterhq/lodge/internal/metering"
	"github.com/chapterhq/lodge/internal/models"
	"github.com/chapterhq/lodge/internal/observability"
	"github.com/chapterhq/lodge/internal/storage"
)

// ContactParams carry a public contact form submission.
type ContactParams struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

func (p *ContactParams) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Message, validation.Required),
	)
}

// ContactCreate records a contact form submission and notifies the brothers
// who opted into contact mail.
func (a *API) ContactCreate(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)

	params := &ContactParams{}
	if err := retrieveRequestParams(r, params); err != nil {
		return err
	}

	if err := params.Validate(); err != nil {
		return badRequestError(ErrorCodeValidationFailed, "%v", err)
	}

	record := &models.ContactRecord{
		ID:      uuid.Must(uuid.NewV4()),
		Name:    params.Name,
		Email:   params.Email,
		Phone:   storage.NullString(params.Phone),
		Message: params.Message,
	}

	if err := db.Create(record); err != nil {
		return internalServerError("Database error recording contact submission").WithInternalError(err)
	}

	notified := 0
	subscribers, err := models.FindContactSubscribers(db)
	if err != nil {
		observability.GetLogEntry(r).WithError(err).Error("could not load contact subscribers")
	} else if len(subscribers) > 0 {
		emails := make([]string, 0, len(subscribers))
		for _, m := range subscribers {
			emails = append(emails, m.Email)
		}
		if err := a.mailer.ContactMail(emails, record); err != nil {
			observability.GetLogEntry(r).WithError(err).Error("could not send contact mail")
		} else {
			notified = len(emails)
		}
	}

	metering.RecordSubmission(metering.SubmissionContact, record.ID, notified)

	return sendJSON(w, http.StatusCreated, record)
}

// InfoCardParams carry a public information card submission.
type InfoCardParams struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Year      string `json:"year"`
	Interests string `json:"interests"`
	Relatives string `json:"relatives"`
	Subscribe bool   `json:"subscribe"`
}

func (p *InfoCardParams) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.Email, validation.Required, is.Email),
	)
}

// InfoCardCreate records an information card and notifies the brothers who
// opted into info card mail.
func (a *API) InfoCardCreate(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)

	params := &InfoCardParams{}
	if err := retrieveRequestParams(r, params); err != nil {
		return err
	}

	if err := params.Validate(); err != nil {
		return badRequestError(ErrorCodeValidationFailed, "%v", err)
	}

	year := models.YearIncomingFreshman
	if params.Year != "" {
		year = models.AcademicYear(params.Year)
		if !year.Valid() {
			return badRequestError(ErrorCodeValidationFailed, "Invalid academic year: %q", params.Year)
		}
	}

	card := &models.InformationCard{
		ID:        uuid.Must(uuid.NewV4()),
		Name:      params.Name,
		Email:     params.Email,
		Phone:     storage.NullString(params.Phone),
		Year:      year,
		Interests: storage.NullString(params.Interests),
		Relatives: storage.NullString(params.Relatives),
		Subscribe: params.Subscribe,
	}

	if err := db.Create(card); err != nil {
		return internalServerError("Database error recording information card").WithInternalError(err)
	}

	notified := 0
	subscribers, err := models.FindInfoCardSubscribers(db)
	if err != nil {
		observability.GetLogEntry(r).WithError(err).Error("could not load info card subscribers")
	} else if len(subscribers) > 0 {
		emails := make([]string, 0, len(subscribers))
		for _, m := range subscribers {
			emails = append(emails, m.Email)
		}
		if err := a.mailer.InfoCardMail(emails, card); err != nil {
			observability.GetLogEntry(r).WithError(err).Error("could not send info card mail")
		} else {
			notified = len(emails)
		}
	}

	metering.RecordSubmission(metering.SubmissionInfoCard, card.ID, notified)

	return sendJSON(w, http.StatusCreated, card)
}

// ContactList lets brothers review the contact submissions.
func (a *API) ContactList(w http.ResponseWriter, r *http.Request) error {
	db := a.db.WithContext(r.Context())

	records, err := models.FindContactRecords(db)
	if err != nil {
		return internalServerError("Database error listing contact records").WithInternalError(err)
	}

	return sendJSON(w, http.StatusOK, map[string]interface{}{
		"contacts": records,
	})
}

// InfoCardList lets brothers review the information cards.
func (a *API) InfoCardList(w http.ResponseWriter, r *http.Request) error {
	db := a.db.WithContext(r.Context())

	cards, err := models.FindInformationCards(db)
	if err != nil {
		return internalServerError("Database error listing information cards").WithInternalError(err)
	}

	return sendJSON(w, http.StatusOK, map[string]interface{}{
		"cards": cards,
	})
}
