package models

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"

	"github.com/chapterhq/lodge/internal/storage"
)

// RushSeason identifies the academic season of a rush.
type RushSeason string

const (
	SeasonFall   RushSeason = "F"
	SeasonSpring RushSeason = "S"
	SeasonSummer RushSeason = "U"
)

func (s RushSeason) Valid() bool {
	switch s {
	case SeasonFall, SeasonSpring, SeasonSummer:
		return true
	}
	return false
}

func (s RushSeason) Label() string {
	switch s {
	case SeasonFall:
		return "Fall"
	case SeasonSpring:
		return "Spring"
	case SeasonSummer:
		return "Summer"
	}
	return string(s)
}

// Rush is one recruitment season, holding events and candidate records.
type Rush struct {
	ID uuid.UUID `json:"id" db:"id"`

	Season    RushSeason `json:"season" db:"season"`
	StartDate time.Time  `json:"start_date" db:"start_date"`
	EndDate   time.Time  `json:"end_date" db:"end_date"`
	Visible   bool       `json:"visible" db:"visible"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName overrides the table name used by pop
func (Rush) TableName() string {
	tableName := "rushes"
	return tableName
}

// Title renders the rush display name, e.g. "Spring Rush 1852".
func (r *Rush) Title() string {
	return fmt.Sprintf("%s Rush %d", r.Season.Label(), r.StartDate.Year())
}

// UniqueName returns the rush's URL identifier, e.g. "S1852".
func (r *Rush) UniqueName() string {
	return fmt.Sprintf("%s%d", r.Season, r.StartDate.Year())
}

// FindCurrentRush returns the most recent visible rush, or a not found
// error when none is visible.
func FindCurrentRush(tx *storage.Connection) (*Rush, error) {
	obj := &Rush{}
	if err := tx.Q().Where("visible = ?", true).Order("start_date desc").First(obj); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return nil, RushNotFoundError{}
		}
		return nil, errors.Wrap(err, "error finding current rush")
	}

	return obj, nil
}

// FindRushByUniqueName finds a rush from its season and year identifier.
func FindRushByUniqueName(tx *storage.Connection, name string) (*Rush, error) {
	if len(name) < 2 {
		return nil, RushNotFoundError{}
	}

	season := RushSeason(name[:1])
	if !season.Valid() {
		return nil, RushNotFoundError{}
	}

	year, err := strconv.Atoi(name[1:])
	if err != nil || year < 1 {
		return nil, RushNotFoundError{}
	}

	obj := &Rush{}
	err = tx.Q().
		Where("season = ?", season).
		Where("start_date >= ? and start_date < ?",
			time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
			time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)).
		First(obj)
	if err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return nil, RushNotFoundError{}
		}
		return nil, errors.Wrap(err, "error finding rush")
	}

	return obj, nil
}

// FindAllRushes returns every rush, most recent first. When visibleOnly is
// set, hidden rushes are excluded.
func FindAllRushes(tx *storage.Connection, visibleOnly bool) ([]*Rush, error) {
	rushes := []*Rush{}
	q := tx.Q().Order("start_date desc")
	if visibleOnly {
		q = q.Where("visible = ?", true)
	}
	if err := q.All(&rushes); err != nil {
		return nil, errors.Wrap(err, "error finding rushes")
	}
	return rushes, nil
}

// RushEvent is a single dated event within a rush.
type RushEvent struct {
	ID uuid.UUID `json:"id" db:"id"`

	RushID uuid.UUID `json:"rush_id" db:"rush_id"`

	Title       string             `json:"title" db:"title"`
	Description storage.NullString `json:"description" db:"description"`
	Date        time.Time          `json:"date" db:"date"`
	Start       *time.Time         `json:"start,omitempty" db:"start"`
	End         *time.Time         `json:"end,omitempty" db:"term_end"`
	Location    storage.NullString `json:"location" db:"location"`
	Food        storage.NullString `json:"food" db:"food"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName overrides the table name used by pop
func (RushEvent) TableName() string {
	tableName := "rush_events"
	return tableName
}

// FindRushEventByID finds a rush event matching the provided ID.
func FindRushEventByID(tx *storage.Connection, id uuid.UUID) (*RushEvent, error) {
	obj := &RushEvent{}
	if err := tx.Q().Where("id = ?", id).First(obj); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return nil, RushEventNotFoundError{}
		}
		return nil, errors.Wrap(err, "error finding rush event")
	}

	return obj, nil
}

// FindRushEvents returns a rush's events ordered by date then start time.
func FindRushEvents(tx *storage.Connection, rush *Rush) ([]*RushEvent, error) {
	events := []*RushEvent{}
	if err := tx.Q().Where("rush_id = ?", rush.ID).Order("date asc, start asc").All(&events); err != nil {
		return nil, errors.Wrap(err, "error finding rush events")
	}
	return events, nil
}

// Potential is a candidate record, optionally tied to a specific rush.
type Potential struct {
	ID uuid.UUID `json:"id" db:"id"`

	RushID *uuid.UUID `json:"rush_id,omitempty" db:"rush_id"`

	FirstName string             `json:"first_name" db:"first_name"`
	LastName  string             `json:"last_name" db:"last_name"`
	Phone     storage.NullString `json:"phone" db:"phone"`
	Email     storage.NullString `json:"email" db:"email"`
	Notes     storage.NullString `json:"notes" db:"notes"`
	Hidden    bool               `json:"hidden" db:"hidden"`
	Pledged   bool               `json:"pledged" db:"pledged"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName overrides the table name used by pop
func (Potential) TableName() string {
	tableName := "potentials"
	return tableName
}

// FindPotentialByID finds a potential matching the provided ID.
func FindPotentialByID(tx *storage.Connection, id uuid.UUID) (*Potential, error) {
	obj := &Potential{}
	if err := tx.Q().Where("id = ?", id).First(obj); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return nil, PotentialNotFoundError{}
		}
		return nil, errors.Wrap(err, "error finding potential")
	}

	return obj, nil
}

// FindPotentials returns candidate records, newest first. pledged selects
// pledges versus potentials, and hidden records are excluded unless
// includeHidden is set.
func FindPotentials(tx *storage.Connection, rush *Rush, pledged, includeHidden bool) ([]*Potential, error) {
	potentials := []*Potential{}
	q := tx.Q().Where("pledged = ?", pledged).Order("created_at desc")
	if rush != nil {
		q = q.Where("rush_id = ?", rush.ID)
	}
	if !includeHidden {
		q = q.Where("hidden = ?", false)
	}
	if err := q.All(&potentials); err != nil {
		return nil, errors.Wrap(err, "error finding potentials")
	}
	return potentials, nil
}
