package api

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chapterhq/lodge/internal/models"
	"github.com/chapterhq/lodge/internal/observability"
	"github.com/chapterhq/lodge/internal/storage"
	"github.com/chapterhq/lodge/internal/utilities"
)

// AnnouncementList returns announcements, newest first. Anonymous visitors
// only see announcements marked public.
func (a *API) AnnouncementList(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)

	publicOnly := getMember(ctx) == nil

	if r.URL.Query().Get("recent") == "true" {
		announcements, err := models.FindRecentAnnouncements(db, publicOnly, a.Now())
		if err != nil {
			return internalServerError("Database error listing announcements").WithInternalError(err)
		}
		return sendJSON(w, http.StatusOK, map[string]interface{}{
			"announcements": announcements,
		})
	}

	pageParams, err := paginate(r)
	if err != nil {
		return err
	}
	if pageParams.PerPage == defaultPerPage && a.config.Chapter.AnnouncementsPerPage > 0 {
		pageParams.PerPage = uint64(a.config.Chapter.AnnouncementsPerPage)
	}

	announcements, err := models.FindAnnouncements(db, publicOnly, pageParams)
	if err != nil {
		return internalServerError("Database error listing announcements").WithInternalError(err)
	}

	addPaginationHeaders(w, r, pageParams)
	return sendJSON(w, http.StatusOK, map[string]interface{}{
		"announcements": announcements,
	})
}

// AnnouncementParams carry a new or edited announcement.
type AnnouncementParams struct {
	Text   string  `json:"text"`
	Date   *string `json:"date"`
	Public *bool   `json:"public"`
}

func (p *AnnouncementParams) date() (*time.Time, error) {
	if p.Date == nil || *p.Date == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", *p.Date)
	if err != nil {
		return nil, badRequestError(ErrorCodeValidationFailed, "date must use the YYYY-MM-DD format")
	}
	return &parsed, nil
}

// AnnouncementCreate posts an announcement and fans out notification mail
// to every brother who opted in. Public announcements also go out to the
// information card subscribers.
func (a *API) AnnouncementCreate(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)
	member := getMember(ctx)

	params := &AnnouncementParams{}
	if err := retrieveRequestParams(r, params); err != nil {
		return err
	}

	if params.Text == "" {
		return badRequestError(ErrorCodeValidationFailed, "Announcement text is required")
	}

	date, err := params.date()
	if err != nil {
		return err
	}

	public := params.Public != nil && *params.Public
	announcement := models.NewAnnouncement(member.ID, utilities.BBCodeEscape(params.Text), date, public)
	if err := db.Create(announcement); err != nil {
		return internalServerError("Database error creating announcement").WithInternalError(err)
	}

	a.notifyAnnouncement(r, db, announcement, member)

	return sendJSON(w, http.StatusCreated, announcement)
}

// notifyAnnouncement sends the fan-out mail. Mail failures are logged, not
// surfaced: the announcement is already posted.
func (a *API) notifyAnnouncement(r *http.Request, db *storage.Connection, announcement *models.Announcement, author *models.Member) {
	recipients := map[string]bool{}

	subscribers, err := models.FindAnnouncementSubscribers(db)
	if err != nil {
		observability.GetLogEntry(r).WithError(err).Error("could not load announcement subscribers")
		return
	}
	for _, m := range subscribers {
		if m.ID != author.ID {
			recipients[m.Email] = true
		}
	}

	if announcement.Public {
		cardEmails, err := models.AllCardSubscriberEmails(db)
		if err != nil {
			observability.GetLogEntry(r).WithError(err).Error("could not load card subscriber emails")
		} else {
			for _, email := range cardEmails {
				recipients[email] = true
			}
		}
	}

	if len(recipients) == 0 {
		return
	}

	emails := make([]string, 0, len(recipients))
	for email := range recipients {
		emails = append(emails, email)
	}

	if err := a.mailer.AnnouncementMail(emails, announcement, author.PreferredName()+" "+author.LastName); err != nil {
		observability.GetLogEntry(r).WithFields(logrus.Fields{
			"announcement_id": announcement.ID,
			"recipients":      len(emails),
		}).WithError(err).Error("could not send announcement mail")
	}
}

// AnnouncementUpdate edits an existing announcement. Only the author or an
// admin may edit.
func (a *API) AnnouncementUpdate(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)
	member := getMember(ctx)

	id, err := uuidFromParam(r, "id")
	if err != nil {
		return err
	}

	announcement, err := models.FindAnnouncementByID(db, id)
	if err != nil {
		if models.IsNotFoundError(err) {
			return notFoundError(ErrorCodeAnnouncementNotFound, "No announcement with this ID")
		}
		return internalServerError("Database error finding announcement").WithInternalError(err)
	}

	if announcement.MemberID != member.ID && !member.IsAdmin {
		return forbiddenError(ErrorCodeNotAdmin, "Only the author or an administrator may edit an announcement")
	}

	params := &AnnouncementParams{}
	if err := retrieveRequestParams(r, params); err != nil {
		return err
	}

	if params.Text != "" {
		announcement.Text = utilities.BBCodeEscape(params.Text)
	}
	if params.Date != nil {
		date, err := params.date()
		if err != nil {
			return err
		}
		announcement.Date = date
	}
	if params.Public != nil {
		announcement.Public = *params.Public
	}

	if err := db.UpdateOnly(announcement, "text", "date", "public"); err != nil {
		return internalServerError("Database error updating announcement").WithInternalError(err)
	}

	return sendJSON(w, http.StatusOK, announcement)
}

// AnnouncementDelete removes an announcement. Only the author or an admin
// may delete.
func (a *API) AnnouncementDelete(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)
	member := getMember(ctx)

	id, err := uuidFromParam(r, "id")
	if err != nil {
		return err
	}

	announcement, err := models.FindAnnouncementByID(db, id)
	if err != nil {
		if models.IsNotFoundError(err) {
			return notFoundError(ErrorCodeAnnouncementNotFound, "No announcement with this ID")
		}
		return internalServerError("Database error finding announcement").WithInternalError(err)
	}

	if announcement.MemberID != member.ID && !member.IsAdmin {
		return forbiddenError(ErrorCodeNotAdmin, "Only the author or an administrator may delete an announcement")
	}

	if err := db.Destroy(announcement); err != nil {
		return internalServerError("Database error deleting announcement").WithInternalError(err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
