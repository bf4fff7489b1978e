package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sethvargo/go-password/password"

	"github.com/chapterhq/lodge/internal/models"
	"github.com/chapterhq/lodge/internal/roster"
	"github.com/chapterhq/lodge/internal/storage"
)

const defaultRosterColumns = 4

// BrotherEntry is one row of the flat brother directory.
type BrotherEntry struct {
	Badge  int    `json:"badge"`
	Name   string `json:"name"`
	Status string `json:"status"`
	Href   string `json:"href"`
}

// BrotherList returns the flat directory of members with accounts.
func (a *API) BrotherList(w http.ResponseWriter, r *http.Request) error {
	db := a.db.WithContext(r.Context())

	pageParams, err := paginate(r)
	if err != nil {
		return err
	}

	members, err := models.FindAllMembers(db, pageParams)
	if err != nil {
		return internalServerError("Database error listing members").WithInternalError(err)
	}

	entries := make([]BrotherEntry, 0, len(members))
	for _, m := range members {
		entries = append(entries, BrotherEntry{
			Badge:  m.Badge,
			Name:   m.PreferredName() + " " + m.LastName,
			Status: m.Status.Label(),
			Href:   fmt.Sprintf("/v1/brothers/%d", m.Badge),
		})
	}

	addPaginationHeaders(w, r, pageParams)
	return sendJSON(w, http.StatusOK, map[string]interface{}{
		"brothers": entries,
	})
}

// RosterResponse is a roster grid plus its dimensions.
type RosterResponse struct {
	Grid  [][]roster.Entry `json:"grid"`
	Total int              `json:"total"`
	Cols  int              `json:"cols"`
}

func (a *API) rosterGrid(w http.ResponseWriter, r *http.Request, undergrad bool) error {
	db := a.db.WithContext(r.Context())

	cols := defaultRosterColumns
	if v := r.URL.Query().Get("cols"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			return badRequestError(ErrorCodeValidationFailed, "cols must be a positive integer")
		}
		cols = parsed
	}

	live, err := models.FindAllMembers(db, nil)
	if err != nil {
		return internalServerError("Database error listing members").WithInternalError(err)
	}

	grid, total := roster.BrotherListing(live, undergrad, cols)
	return sendJSON(w, http.StatusOK, &RosterResponse{
		Grid:  grid,
		Total: total,
		Cols:  cols,
	})
}

// UndergradRoster returns the undergraduate side of the chapter roster.
func (a *API) UndergradRoster(w http.ResponseWriter, r *http.Request) error {
	return a.rosterGrid(w, r, true)
}

// AlumniRoster returns the alumni side of the chapter roster.
func (a *API) AlumniRoster(w http.ResponseWriter, r *http.Request) error {
	return a.rosterGrid(w, r, false)
}

// BigBrotherChoiceList returns every badge a member may name as their big
// brother: the static roster plus live accounts past its end.
func (a *API) BigBrotherChoiceList(w http.ResponseWriter, r *http.Request) error {
	db := a.db.WithContext(r.Context())

	live, err := models.FindAllMembers(db, nil)
	if err != nil {
		return internalServerError("Database error listing members").WithInternalError(err)
	}

	return sendJSON(w, http.StatusOK, map[string]interface{}{
		"choices": roster.BigBrotherChoices(live),
	})
}

// loadBrother resolves the {badge} URL parameter to a member, including the
// visibility settings the disclosure engine needs.
func (a *API) loadBrother(w http.ResponseWriter, r *http.Request) (context.Context, error) {
	ctx := r.Context()
	db := a.db.WithContext(ctx)

	badge, err := strconv.Atoi(chi.URLParam(r, "badge"))
	if err != nil || badge < 1 {
		return nil, badRequestError(ErrorCodeValidationFailed, "badge must be a positive integer")
	}

	member, err := models.FindMemberByBadge(db, badge)
	if err != nil {
		if models.IsNotFoundError(err) {
			return nil, notFoundError(ErrorCodeMemberNotFound, "No brother with badge %d", badge)
		}
		return nil, internalServerError("Database error finding member").WithInternalError(err)
	}

	if err := a.loadVisibility(db, member); err != nil {
		return nil, err
	}

	return withTargetMember(ctx, member), nil
}

func (a *API) loadVisibility(db *storage.Connection, member *models.Member) error {
	public, err := models.FindVisibilityByID(db, member.PublicVisibilityID)
	if err != nil {
		return internalServerError("Database error loading visibility settings").WithInternalError(err)
	}
	chapter, err := models.FindVisibilityByID(db, member.ChapterVisibilityID)
	if err != nil {
		return internalServerError("Database error loading visibility settings").WithInternalError(err)
	}
	member.PublicVisibility = public
	member.ChapterVisibility = chapter
	return nil
}

// ProfileResponse is a member profile filtered through the disclosure
// engine: only disclosed fields carry values.
type ProfileResponse struct {
	Badge          int               `json:"badge"`
	FirstName      string            `json:"first_name"`
	LastName       string            `json:"last_name"`
	Name           string            `json:"name"`
	Status         string            `json:"status"`
	Disclosed      []string          `json:"disclosed"`
	Fields         map[string]string `json:"fields"`
	Categories     CategoryCounts    `json:"categories"`
	LittleBrothers []BrotherEntry    `json:"little_brothers"`
}

type CategoryCounts struct {
	Chapter  int `json:"chapter"`
	Personal int `json:"personal"`
	Contact  int `json:"contact"`
}

// BrotherGet serves a profile. Anonymous viewers see the public channel,
// signed-in brothers the chapter channel, the owner and admins everything.
func (a *API) BrotherGet(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)
	member := getTargetMember(ctx)
	viewer := getMember(ctx)

	forcePublic := r.URL.Query().Get("public") == "true"
	vis := models.VisibilityForViewer(member, viewer, forcePublic)

	fields := models.DisclosedFields(member, vis)
	chapter, personal, contact := models.FieldCategories(fields)

	littles, err := models.FindLittleBrothers(db, member.Badge)
	if err != nil {
		return internalServerError("Database error listing little brothers").WithInternalError(err)
	}
	littleEntries := make([]BrotherEntry, 0, len(littles))
	for _, little := range littles {
		littleEntries = append(littleEntries, BrotherEntry{
			Badge:  little.Badge,
			Name:   little.PreferredName() + " " + little.LastName,
			Status: little.Status.Label(),
			Href:   fmt.Sprintf("/v1/brothers/%d", little.Badge),
		})
	}

	return sendJSON(w, http.StatusOK, &ProfileResponse{
		Badge:     member.Badge,
		FirstName: member.FirstName,
		LastName:  member.LastName,
		Name:      member.PreferredName() + " " + member.LastName,
		Status:    member.Status.Label(),
		Disclosed: fields,
		Fields:    a.fieldValues(ctx, member, fields),
		Categories: CategoryCounts{
			Chapter:  chapter,
			Personal: personal,
			Contact:  contact,
		},
		LittleBrothers: littleEntries,
	})
}

// fieldValues renders the disclosed field labels to display strings.
func (a *API) fieldValues(ctx context.Context, member *models.Member, fields []string) map[string]string {
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		switch f {
		case models.FieldFullName:
			values[f] = member.FullName()
		case models.FieldBigBrother:
			values[f] = a.bigBrotherName(ctx, member.BigBrotherBadge)
		case models.FieldMajor:
			values[f] = string(member.Major)
		case models.FieldInitiation:
			values[f] = member.Initiation.Format("January 2, 2006")
		case models.FieldGraduation:
			values[f] = member.Graduation.Format("January 2, 2006")
		case models.FieldHometown:
			values[f] = string(member.Hometown)
		case models.FieldCurrentCity:
			values[f] = string(member.CurrentCity)
		case models.FieldDateOfBirth:
			values[f] = member.DateOfBirth.Format("January 2, 2006")
		case models.FieldPhone:
			values[f] = string(member.Phone)
		case models.FieldEmail:
			values[f] = member.Email
		}
	}
	return values
}

// bigBrotherName resolves a big brother badge to a display name, using the
// live account when one exists and the static roster otherwise.
func (a *API) bigBrotherName(ctx context.Context, badge int) string {
	if badge < 1 {
		return ""
	}
	if big, err := models.FindMemberByBadge(a.db.WithContext(ctx), badge); err == nil {
		return big.PreferredName() + " " + big.LastName
	}
	if name := roster.NameFromBadge(badge); name != "" {
		return name
	}
	return fmt.Sprintf("Badge %d", badge)
}

// ProfileUpdateParams are the profile fields a member may edit. Pointer
// fields distinguish "leave alone" from "clear".
type ProfileUpdateParams struct {
	FirstName       *string `json:"first_name"`
	MiddleName      *string `json:"middle_name"`
	LastName        *string `json:"last_name"`
	Suffix          *string `json:"suffix"`
	Nickname        *string `json:"nickname"`
	Major           *string `json:"major"`
	Hometown        *string `json:"hometown"`
	CurrentCity     *string `json:"current_city"`
	Phone           *string `json:"phone"`
	Initiation      *string `json:"initiation"`
	Graduation      *string `json:"graduation"`
	DateOfBirth     *string `json:"dob"`
	BigBrotherBadge *int    `json:"big_brother"`
	Email           *string `json:"email"`
}

// ProfileUpdate edits the signed-in member's own profile. Changing the
// email address does not take effect immediately: a confirmation link is
// mailed to the new address instead.
func (a *API) ProfileUpdate(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	member := getMember(ctx)
	return a.updateMemberProfile(w, r, member)
}

// BrotherUpdate edits another member's account. Admins may edit anyone,
// everyone else only themselves.
func (a *API) BrotherUpdate(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	target := getTargetMember(ctx)
	viewer := getMember(ctx)

	if viewer.ID != target.ID && !viewer.IsAdmin {
		return forbiddenError(ErrorCodeNotAdmin, "Only chapter administrators may edit other brothers")
	}

	return a.updateMemberProfile(w, r, target)
}

func (a *API) updateMemberProfile(w http.ResponseWriter, r *http.Request, member *models.Member) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)

	params := &ProfileUpdateParams{}
	if err := retrieveRequestParams(r, params); err != nil {
		return err
	}

	if params.FirstName != nil {
		member.FirstName = *params.FirstName
	}
	if params.MiddleName != nil {
		member.MiddleName = storage.NullString(*params.MiddleName)
	}
	if params.LastName != nil {
		member.LastName = *params.LastName
	}
	if params.Suffix != nil {
		member.Suffix = storage.NullString(*params.Suffix)
	}
	if params.Nickname != nil {
		member.Nickname = storage.NullString(*params.Nickname)
	}
	if params.Major != nil {
		member.Major = storage.NullString(*params.Major)
	}
	if params.Hometown != nil {
		member.Hometown = storage.NullString(*params.Hometown)
	}
	if params.CurrentCity != nil {
		member.CurrentCity = storage.NullString(*params.CurrentCity)
	}
	if params.Phone != nil {
		member.Phone = storage.NullString(*params.Phone)
	}

	for _, d := range []struct {
		raw  *string
		dest **time.Time
	}{
		{params.Initiation, &member.Initiation},
		{params.Graduation, &member.Graduation},
		{params.DateOfBirth, &member.DateOfBirth},
	} {
		if d.raw == nil {
			continue
		}
		if *d.raw == "" {
			*d.dest = nil
			continue
		}
		parsed, err := time.Parse("2006-01-02", *d.raw)
		if err != nil {
			return badRequestError(ErrorCodeValidationFailed, "Dates must use the YYYY-MM-DD format")
		}
		*d.dest = &parsed
	}

	if params.BigBrotherBadge != nil {
		if err := member.ValidateBigBrother(*params.BigBrotherBadge); err != nil {
			return badRequestError(ErrorCodeValidationFailed, "%v", err)
		}
		member.BigBrotherBadge = *params.BigBrotherBadge
	}

	var emailChange *models.EmailChangeRequest
	err := db.Transaction(func(tx *storage.Connection) error {
		if err := tx.UpdateOnly(member,
			"first_name", "middle_name", "last_name", "suffix", "nickname",
			"major", "hometown", "current_city", "phone",
			"initiation", "graduation", "dob", "big_brother_badge",
		); err != nil {
			return err
		}

		if params.Email != nil && *params.Email != "" && *params.Email != member.Email {
			if err := a.mailer.ValidateEmail(*params.Email); err != nil {
				return badRequestError(ErrorCodeValidationFailed, "Invalid email address: %v", err)
			}
			req, err := models.NewEmailChangeRequest(tx, member, *params.Email)
			if err != nil {
				return err
			}
			emailChange = req
		}
		return nil
	})
	if err != nil {
		if httpErr, ok := err.(*HTTPError); ok {
			return httpErr
		}
		return internalServerError("Database error updating profile").WithInternalError(err)
	}

	if emailChange != nil {
		if err := a.mailer.EmailChangeMail(emailChange); err != nil {
			return internalServerError("Error sending email confirmation").WithInternalError(err)
		}
	}

	return sendJSON(w, http.StatusOK, member)
}

// VisibilityResponse returns both disclosure channels side by side.
type VisibilityResponse struct {
	Public  *models.VisibilitySettings `json:"public"`
	Chapter *models.VisibilitySettings `json:"chapter"`
}

func (a *API) VisibilityGet(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)
	member := getMember(ctx)

	if err := a.loadVisibility(db, member); err != nil {
		return err
	}

	return sendJSON(w, http.StatusOK, &VisibilityResponse{
		Public:  member.PublicVisibility,
		Chapter: member.ChapterVisibility,
	})
}

// VisibilityUpdate edits one disclosure channel. The chapter channel keeps
// its always-on fields pinned no matter what the request says.
func (a *API) VisibilityUpdate(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)
	member := getMember(ctx)

	channel := chi.URLParam(r, "channel")
	if channel != "public" && channel != "chapter" {
		return badRequestError(ErrorCodeValidationFailed, "Unknown visibility channel: %q", channel)
	}

	params := &models.VisibilityUpdate{}
	if err := retrieveRequestParams(r, params); err != nil {
		return err
	}

	if err := a.loadVisibility(db, member); err != nil {
		return err
	}

	var settings *models.VisibilitySettings
	var err error
	if channel == "public" {
		settings = member.PublicVisibility
		err = settings.ApplyPublicUpdate(db, params)
	} else {
		settings = member.ChapterVisibility
		err = settings.ApplyChapterUpdate(db, params)
	}
	if err != nil {
		return internalServerError("Database error updating visibility").WithInternalError(err)
	}

	return sendJSON(w, http.StatusOK, settings)
}

// NotificationParams toggle the email notification opt-ins.
type NotificationParams struct {
	NewInfoCard     *bool `json:"new_info_card"`
	NewContact      *bool `json:"new_contact"`
	NewAnnouncement *bool `json:"new_announcement"`
}

func (a *API) NotificationsUpdate(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)
	member := getMember(ctx)

	params := &NotificationParams{}
	if err := retrieveRequestParams(r, params); err != nil {
		return err
	}

	for _, t := range []struct {
		value *bool
		flag  models.MemberFlags
	}{
		{params.NewInfoCard, models.FlagEmailNewInfoCard},
		{params.NewContact, models.FlagEmailNewContact},
		{params.NewAnnouncement, models.FlagEmailNewAnnouncement},
	} {
		if t.value == nil {
			continue
		}
		if *t.value {
			member.Flags = member.Flags.With(t.flag)
		} else {
			member.Flags = member.Flags.Without(t.flag)
		}
	}

	if err := member.UpdateFlags(db); err != nil {
		return internalServerError("Database error updating notification flags").WithInternalError(err)
	}

	return sendJSON(w, http.StatusOK, map[string]interface{}{
		"new_info_card":    member.Flags.WantsInfoCardEmail(),
		"new_contact":      member.Flags.WantsContactEmail(),
		"new_announcement": member.Flags.WantsAnnouncementEmail(),
	})
}

// PasswordChangeParams carry a password change. The current password is
// not required while an administrative reset is pending.
type PasswordChangeParams struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (a *API) PasswordChange(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)
	config := a.config
	member := getMember(ctx)

	params := &PasswordChangeParams{}
	if err := retrieveRequestParams(r, params); err != nil {
		return err
	}

	if !member.Flags.IsPasswordResetPending() {
		if !member.Authenticate(ctx, params.CurrentPassword) {
			return forbiddenError(ErrorCodeInvalidCredentials, "Current password is incorrect")
		}
	}

	if len(params.NewPassword) < config.Chapter.MinPasswordLength {
		return unprocessableEntityError(ErrorCodeWeakPassword, "Password must be at least %d characters", config.Chapter.MinPasswordLength)
	}

	if err := member.SetPassword(ctx, params.NewPassword); err != nil {
		return internalServerError("Error hashing password").WithInternalError(err)
	}

	if err := member.UpdatePassword(db); err != nil {
		return internalServerError("Database error updating password").WithInternalError(err)
	}

	return sendJSON(w, http.StatusOK, map[string]string{
		"message": "Password updated",
	})
}

// EmailConfirm applies a pending email change addressed by its token.
func (a *API) EmailConfirm(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)

	token := r.URL.Query().Get("token")
	if token == "" {
		return badRequestError(ErrorCodeValidationFailed, "A confirmation token is required")
	}

	request, err := models.FindEmailChangeRequestByToken(db, token)
	if err != nil {
		if models.IsNotFoundError(err) {
			return notFoundError(ErrorCodeValidationFailed, "Unknown or expired confirmation token")
		}
		return internalServerError("Database error finding email change").WithInternalError(err)
	}

	member, err := models.ConfirmEmailChange(db, request)
	if err != nil {
		return internalServerError("Database error confirming email change").WithInternalError(err)
	}

	return sendJSON(w, http.StatusOK, member)
}

// BrotherUnlock clears a lockout so the brother can sign in again.
func (a *API) BrotherUnlock(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)
	target := getTargetMember(ctx)

	if err := target.Unlock(db); err != nil {
		return internalServerError("Database error unlocking account").WithInternalError(err)
	}

	return sendJSON(w, http.StatusOK, target)
}

// BrotherPasswordReset issues a temporary password and mails it to the
// brother. The next password change skips the current-password check.
func (a *API) BrotherPasswordReset(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)
	target := getTargetMember(ctx)

	temporary, err := password.Generate(12, 3, 0, false, false)
	if err != nil {
		return internalServerError("Failed to generate a temporary password").WithInternalError(err)
	}

	if err := target.SetPassword(ctx, temporary); err != nil {
		return internalServerError("Failed to hash the temporary password").WithInternalError(err)
	}
	if err := target.UpdateTemporaryPassword(db); err != nil {
		return internalServerError("Database error resetting password").WithInternalError(err)
	}

	if err := a.mailer.PasswordResetMail(target, temporary); err != nil {
		return internalServerError("Failed to mail the temporary password").WithInternalError(err)
	}

	return sendJSON(w, http.StatusOK, map[string]bool{"reset": true})
}

// StatusChangeParams move a brother between undergraduate, out of town and
// alumnus standing.
type StatusChangeParams struct {
	Status string `json:"status"`
}

func (a *API) BrotherStatusChange(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)
	target := getTargetMember(ctx)

	params := &StatusChangeParams{}
	if err := retrieveRequestParams(r, params); err != nil {
		return err
	}

	status := models.MemberStatus(params.Status)
	if !status.Valid() {
		return badRequestError(ErrorCodeValidationFailed, "Invalid member status: %q", params.Status)
	}

	if err := target.UpdateStatus(db, status); err != nil {
		return internalServerError("Database error updating status").WithInternalError(err)
	}

	return sendJSON(w, http.StatusOK, target)
}
