package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"

	"github.com/chapterhq/lodge/internal/models"
	"github.com/chapterhq/lodge/internal/storage"
)

// RushList returns rush seasons, most recent first. Admins also see hidden
// seasons when they ask for them.
func (a *API) RushList(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)
	member := getMember(ctx)

	visibleOnly := true
	if member != nil && member.IsAdmin && r.URL.Query().Get("all") == "true" {
		visibleOnly = false
	}

	rushes, err := models.FindAllRushes(db, visibleOnly)
	if err != nil {
		return internalServerError("Database error listing rushes").WithInternalError(err)
	}

	type rushEntry struct {
		*models.Rush
		Name  string `json:"name"`
		Title string `json:"title"`
	}
	entries := make([]rushEntry, 0, len(rushes))
	for _, rush := range rushes {
		entries = append(entries, rushEntry{Rush: rush, Name: rush.UniqueName(), Title: rush.Title()})
	}

	return sendJSON(w, http.StatusOK, map[string]interface{}{
		"rushes": entries,
	})
}

// RushParams carry a new or edited rush season.
type RushParams struct {
	Season    string `json:"season"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Visible   *bool  `json:"visible"`
}

func (a *API) RushCreate(w http.ResponseWriter, r *http.Request) error {
	db := a.db.WithContext(r.Context())

	params := &RushParams{}
	if err := retrieveRequestParams(r, params); err != nil {
		return err
	}

	season := models.RushSeason(params.Season)
	if !season.Valid() {
		return badRequestError(ErrorCodeValidationFailed, "Invalid rush season: %q", params.Season)
	}

	start, err := time.Parse("2006-01-02", params.StartDate)
	if err != nil {
		return badRequestError(ErrorCodeValidationFailed, "start_date must use the YYYY-MM-DD format")
	}
	end, err := time.Parse("2006-01-02", params.EndDate)
	if err != nil {
		return badRequestError(ErrorCodeValidationFailed, "end_date must use the YYYY-MM-DD format")
	}
	if end.Before(start) {
		return badRequestError(ErrorCodeValidationFailed, "end_date must not precede start_date")
	}

	rush := &models.Rush{
		ID:        uuid.Must(uuid.NewV4()),
		Season:    season,
		StartDate: start,
		EndDate:   end,
		Visible:   params.Visible != nil && *params.Visible,
	}

	if _, err := models.FindRushByUniqueName(db, rush.UniqueName()); err == nil {
		return conflictError("A %s rush already exists", rush.Title())
	} else if !models.IsNotFoundError(err) {
		return internalServerError("Database error checking rush").WithInternalError(err)
	}

	if err := db.Create(rush); err != nil {
		return internalServerError("Database error creating rush").WithInternalError(err)
	}

	return sendJSON(w, http.StatusCreated, rush)
}

// loadRush resolves the {name} URL parameter, accepting "current" as an
// alias for the latest visible rush.
func (a *API) loadRush(w http.ResponseWriter, r *http.Request) (context.Context, error) {
	ctx := r.Context()
	db := a.db.WithContext(ctx)

	name := chi.URLParam(r, "name")

	var rush *models.Rush
	var err error
	if name == "current" {
		rush, err = models.FindCurrentRush(db)
	} else {
		rush, err = models.FindRushByUniqueName(db, name)
	}
	if err != nil {
		if models.IsNotFoundError(err) {
			return nil, notFoundError(ErrorCodeRushNotFound, "No rush %q", name)
		}
		return nil, internalServerError("Database error finding rush").WithInternalError(err)
	}

	return withRush(ctx, rush), nil
}

// RushGet returns one rush season with its events.
func (a *API) RushGet(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)
	rush := getRush(ctx)

	events, err := models.FindRushEvents(db, rush)
	if err != nil {
		return internalServerError("Database error listing rush events").WithInternalError(err)
	}

	return sendJSON(w, http.StatusOK, map[string]interface{}{
		"rush":   rush,
		"name":   rush.UniqueName(),
		"title":  rush.Title(),
		"events": events,
	})
}

func (a *API) RushUpdate(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)
	rush := getRush(ctx)

	params := &RushParams{}
	if err := retrieveRequestParams(r, params); err != nil {
		return err
	}

	if params.StartDate != "" {
		start, err := time.Parse("2006-01-02", params.StartDate)
		if err != nil {
			return badRequestError(ErrorCodeValidationFailed, "start_date must use the YYYY-MM-DD format")
		}
		rush.StartDate = start
	}
	if params.EndDate != "" {
		end, err := time.Parse("2006-01-02", params.EndDate)
		if err != nil {
			return badRequestError(ErrorCodeValidationFailed, "end_date must use the YYYY-MM-DD format")
		}
		rush.EndDate = end
	}
	if rush.EndDate.Before(rush.StartDate) {
		return badRequestError(ErrorCodeValidationFailed, "end_date must not precede start_date")
	}
	if params.Visible != nil {
		rush.Visible = *params.Visible
	}

	if err := db.UpdateOnly(rush, "start_date", "end_date", "visible"); err != nil {
		return internalServerError("Database error updating rush").WithInternalError(err)
	}

	return sendJSON(w, http.StatusOK, rush)
}

// RushEventParams carry a new or edited rush event.
type RushEventParams struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Location    string `json:"location"`
	Food        string `json:"food"`
}

func parseClock(date time.Time, clock string) (*time.Time, error) {
	if clock == "" {
		return nil, nil
	}
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return nil, badRequestError(ErrorCodeValidationFailed, "Times must use the HH:MM format")
	}
	at := time.Date(date.Year(), date.Month(), date.Day(), parsed.Hour(), parsed.Minute(), 0, 0, date.Location())
	return &at, nil
}

func (a *API) RushEventCreate(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)
	rush := getRush(ctx)

	params := &RushEventParams{}
	if err := retrieveRequestParams(r, params); err != nil {
		return err
	}

	if params.Title == "" {
		return badRequestError(ErrorCodeValidationFailed, "An event title is required")
	}

	date, err := time.Parse("2006-01-02", params.Date)
	if err != nil {
		return badRequestError(ErrorCodeValidationFailed, "date must use the YYYY-MM-DD format")
	}

	start, err := parseClock(date, params.Start)
	if err != nil {
		return err
	}
	end, err := parseClock(date, params.End)
	if err != nil {
		return err
	}

	event := &models.RushEvent{
		ID:          uuid.Must(uuid.NewV4()),
		RushID:      rush.ID,
		Title:       params.Title,
		Description: storage.NullString(params.Description),
		Date:        date,
		Start:       start,
		End:         end,
		Location:    storage.NullString(params.Location),
		Food:        storage.NullString(params.Food),
	}

	if err := db.Create(event); err != nil {
		return internalServerError("Database error creating rush event").WithInternalError(err)
	}

	return sendJSON(w, http.StatusCreated, event)
}

func (a *API) loadRushEvent(r *http.Request) (*models.RushEvent, error) {
	db := a.db.WithContext(r.Context())

	id, err := uuidFromParam(r, "event_id")
	if err != nil {
		return nil, err
	}

	event, err := models.FindRushEventByID(db, id)
	if err != nil {
		if models.IsNotFoundError(err) {
			return nil, notFoundError(ErrorCodeRushNotFound, "No rush event with this ID")
		}
		return nil, internalServerError("Database error finding rush event").WithInternalError(err)
	}
	return event, nil
}

func (a *API) RushEventUpdate(w http.ResponseWriter, r *http.Request) error {
	db := a.db.WithContext(r.Context())

	event, err := a.loadRushEvent(r)
	if err != nil {
		return err
	}

	params := &RushEventParams{}
	if err := retrieveRequestParams(r, params); err != nil {
		return err
	}

	if params.Title != "" {
		event.Title = params.Title
	}
	if params.Description != "" {
		event.Description = storage.NullString(params.Description)
	}
	if params.Date != "" {
		date, err := time.Parse("2006-01-02", params.Date)
		if err != nil {
			return badRequestError(ErrorCodeValidationFailed, "date must use the YYYY-MM-DD format")
		}
		event.Date = date
	}
	if params.Start != "" {
		start, err := parseClock(event.Date, params.Start)
		if err != nil {
			return err
		}
		event.Start = start
	}
	if params.End != "" {
		end, err := parseClock(event.Date, params.End)
		if err != nil {
			return err
		}
		event.End = end
	}
	if params.Location != "" {
		event.Location = storage.NullString(params.Location)
	}
	if params.Food != "" {
		event.Food = storage.NullString(params.Food)
	}

	if err := db.UpdateOnly(event, "title", "description", "date", "start", "term_end", "location", "food"); err != nil {
		return internalServerError("Database error updating rush event").WithInternalError(err)
	}

	return sendJSON(w, http.StatusOK, event)
}

func (a *API) RushEventDelete(w http.ResponseWriter, r *http.Request) error {
	db := a.db.WithContext(r.Context())

	event, err := a.loadRushEvent(r)
	if err != nil {
		return err
	}

	if err := db.Destroy(event); err != nil {
		return internalServerError("Database error deleting rush event").WithInternalError(err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// PotentialParams carry a candidate record.
type PotentialParams struct {
	RushName  string `json:"rush"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Notes     string `json:"notes"`
	Hidden    *bool  `json:"hidden"`
	Pledged   *bool  `json:"pledged"`
}

// PotentialList returns candidate records. ?pledged=true selects pledges,
// ?hidden=true includes hidden records, ?rush= filters by season.
func (a *API) PotentialList(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)

	pledged := r.URL.Query().Get("pledged") == "true"
	includeHidden := r.URL.Query().Get("hidden") == "true"

	var rush *models.Rush
	if name := r.URL.Query().Get("rush"); name != "" {
		found, err := models.FindRushByUniqueName(db, name)
		if err != nil {
			if models.IsNotFoundError(err) {
				return notFoundError(ErrorCodeRushNotFound, "No rush %q", name)
			}
			return internalServerError("Database error finding rush").WithInternalError(err)
		}
		rush = found
	}

	potentials, err := models.FindPotentials(db, rush, pledged, includeHidden)
	if err != nil {
		return internalServerError("Database error listing potentials").WithInternalError(err)
	}

	return sendJSON(w, http.StatusOK, map[string]interface{}{
		"potentials": potentials,
	})
}

func (a *API) PotentialCreate(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)

	params := &PotentialParams{}
	if err := retrieveRequestParams(r, params); err != nil {
		return err
	}

	if params.FirstName == "" || params.LastName == "" {
		return badRequestError(ErrorCodeValidationFailed, "First and last name are required")
	}

	potential := &models.Potential{
		ID:        uuid.Must(uuid.NewV4()),
		FirstName: params.FirstName,
		LastName:  params.LastName,
		Phone:     storage.NullString(params.Phone),
		Email:     storage.NullString(params.Email),
		Notes:     storage.NullString(params.Notes),
		Hidden:    params.Hidden != nil && *params.Hidden,
		Pledged:   params.Pledged != nil && *params.Pledged,
	}

	if params.RushName != "" {
		rush, err := models.FindRushByUniqueName(db, params.RushName)
		if err != nil {
			if models.IsNotFoundError(err) {
				return notFoundError(ErrorCodeRushNotFound, "No rush %q", params.RushName)
			}
			return internalServerError("Database error finding rush").WithInternalError(err)
		}
		potential.RushID = &rush.ID
	}

	if err := db.Create(potential); err != nil {
		return internalServerError("Database error creating potential").WithInternalError(err)
	}

	return sendJSON(w, http.StatusCreated, potential)
}

func (a *API) loadPotential(r *http.Request) (*models.Potential, error) {
	db := a.db.WithContext(r.Context())

	id, err := uuidFromParam(r, "potential_id")
	if err != nil {
		return nil, err
	}

	potential, err := models.FindPotentialByID(db, id)
	if err != nil {
		if models.IsNotFoundError(err) {
			return nil, notFoundError(ErrorCodeRushNotFound, "No potential with this ID")
		}
		return nil, internalServerError("Database error finding potential").WithInternalError(err)
	}
	return potential, nil
}

func (a *API) PotentialGet(w http.ResponseWriter, r *http.Request) error {
	potential, err := a.loadPotential(r)
	if err != nil {
		return err
	}
	return sendJSON(w, http.StatusOK, potential)
}

func (a *API) PotentialUpdate(w http.ResponseWriter, r *http.Request) error {
	db := a.db.WithContext(r.Context())

	potential, err := a.loadPotential(r)
	if err != nil {
		return err
	}

	params := &PotentialParams{}
	if err := retrieveRequestParams(r, params); err != nil {
		return err
	}

	if params.FirstName != "" {
		potential.FirstName = params.FirstName
	}
	if params.LastName != "" {
		potential.LastName = params.LastName
	}
	if params.Phone != "" {
		potential.Phone = storage.NullString(params.Phone)
	}
	if params.Email != "" {
		potential.Email = storage.NullString(params.Email)
	}
	if params.Notes != "" {
		potential.Notes = storage.NullString(params.Notes)
	}
	if params.Hidden != nil {
		potential.Hidden = *params.Hidden
	}
	if params.Pledged != nil {
		potential.Pledged = *params.Pledged
	}

	if err := db.UpdateOnly(potential, "first_name", "last_name", "phone", "email", "notes", "hidden", "pledged"); err != nil {
		return internalServerError("Database error updating potential").WithInternalError(err)
	}

	return sendJSON(w, http.StatusOK, potential)
}

func (a *API) PotentialDelete(w http.ResponseWriter, r *http.Request) error {
	db := a.db.WithContext(r.Context())

	potential, err := a.loadPotential(r)
	if err != nil {
		return err
	}

	if err := db.Destroy(potential); err != nil {
		return internalServerError("Database error deleting potential").WithInternalError(err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
