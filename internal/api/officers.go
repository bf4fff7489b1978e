package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chapterhq/lodge/internal/models"
)

// OfficerEntry is one office in the current officer listing.
type OfficerEntry struct {
	Office      string `json:"office"`
	Title       string `json:"title"`
	HolderBadge int    `json:"holder_badge"`
	HolderName  string `json:"holder_name"`
}

// OfficerList returns the current officers in traditional office order.
// Vacant offices are omitted.
func (a *API) OfficerList(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)

	officers, err := models.FindCurrentOfficers(db)
	if err != nil {
		return internalServerError("Database error listing officers").WithInternalError(err)
	}

	entries := make([]OfficerEntry, 0, len(officers))
	for _, o := range officers {
		entries = append(entries, OfficerEntry{
			Office:      string(o.Office),
			Title:       o.Office.Title(),
			HolderBadge: o.HolderBadge,
			HolderName:  a.bigBrotherName(ctx, o.HolderBadge),
		})
	}

	return sendJSON(w, http.StatusOK, map[string]interface{}{
		"officers": entries,
	})
}

// loadOffice validates the {office} URL parameter.
func (a *API) loadOffice(w http.ResponseWriter, r *http.Request) (context.Context, error) {
	ctx := r.Context()

	office := models.Office(chi.URLParam(r, "office"))
	if !office.Valid() {
		return nil, notFoundError(ErrorCodeOfficeNotFound, "No office %q", string(office))
	}

	return withOffice(ctx, office), nil
}

// OfficerAssignParams name the brother taking over an office.
type OfficerAssignParams struct {
	HolderBadge int  `json:"holder_badge"`
	Replace     bool `json:"replace"`
}

// OfficerAssign installs a new holder. The outgoing holder's term is
// archived; reassigning the sitting holder is a no-op.
func (a *API) OfficerAssign(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)
	office := getOffice(ctx)

	params := &OfficerAssignParams{}
	if err := retrieveRequestParams(r, params); err != nil {
		return err
	}

	if params.HolderBadge < 1 {
		return badRequestError(ErrorCodeValidationFailed, "holder_badge must be a positive integer")
	}

	assign := models.AssignOfficer
	if params.Replace {
		assign = models.ReplaceOfficer
	}

	officer, err := assign(db, office, params.HolderBadge, a.Now())
	if err != nil {
		return internalServerError("Database error assigning officer").WithInternalError(err)
	}

	return sendJSON(w, http.StatusOK, &OfficerEntry{
		Office:      string(officer.Office),
		Title:       officer.Office.Title(),
		HolderBadge: officer.HolderBadge,
		HolderName:  a.bigBrotherName(ctx, officer.HolderBadge),
	})
}

// OfficeHistoryResponse lists the terms served in one office, sitting
// holder first.
type OfficeHistoryResponse struct {
	Office  string               `json:"office"`
	Title   string               `json:"title"`
	Terms   []*models.OfficeTerm `json:"terms"`
	HasMore bool                 `json:"has_more"`
}

func (a *API) OfficerHistory(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)
	office := getOffice(ctx)

	showAll := r.URL.Query().Get("full") == "true"

	terms, hasMore, err := models.OfficeHistory(db, office, showAll)
	if err != nil {
		return internalServerError("Database error loading office history").WithInternalError(err)
	}

	return sendJSON(w, http.StatusOK, &OfficeHistoryResponse{
		Office:  string(office),
		Title:   office.Title(),
		Terms:   terms,
		HasMore: hasMore,
	})
}
