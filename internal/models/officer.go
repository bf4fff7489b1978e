package models

import (
	"database/sql"
	"time"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/chapterhq/lodge/internal/storage"
)

// Office identifies a chapter leadership position by its abbreviation.
type Office string

const (
	OfficePresident        Office = "GP"
	OfficeVicePresident    Office = "VGP"
	OfficeTreasurer        Office = "P"
	OfficeCorrespondingSec Office = "AG"
	OfficeRecordingSec     Office = "BG"
	OfficeHistorian        Office = "SG"
	OfficeMessenger        Office = "Hod"
	OfficeSergeantAtArms   Office = "Phu"
	OfficeChaplain         Office = "Hi"
	OfficeIFCRep           Office = "IFC"
)

// Offices lists every office in display order.
var Offices = []Office{
	OfficePresident,
	OfficeVicePresident,
	OfficeTreasurer,
	OfficeCorrespondingSec,
	OfficeRecordingSec,
	OfficeHistorian,
	OfficeMessenger,
	OfficeSergeantAtArms,
	OfficeChaplain,
	OfficeIFCRep,
}

var officeTitles = map[Office]string{
	OfficePresident:        "President",
	OfficeVicePresident:    "Vice President",
	OfficeTreasurer:        "Treasurer",
	OfficeCorrespondingSec: "Corresponding Secretary",
	OfficeRecordingSec:     "Recording Secretary",
	OfficeHistorian:        "Historian",
	OfficeMessenger:        "Messenger",
	OfficeSergeantAtArms:   "Sergeant at Arms",
	OfficeChaplain:         "Chaplain",
	OfficeIFCRep:           "IFC Representative",
}

func (o Office) Valid() bool {
	_, ok := officeTitles[o]
	return ok
}

func (o Office) Title() string {
	return officeTitles[o]
}

// ChapterOfficer is the single current-holder record for an office. There
// is at most one row per office code, and its primary key is stable across
// reassignments.
type ChapterOfficer struct {
	ID uuid.UUID `json:"id" db:"id"`

	Office      Office    `json:"office" db:"office"`
	HolderBadge int       `json:"badge" db:"holder_badge"`
	Updated     time.Time `json:"updated" db:"updated"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName overrides the table name used by pop
func (ChapterOfficer) TableName() string {
	tableName := "chapter_officers"
	return tableName
}

// OfficerHistory is an append-only ledger row recording a past holder's
// term for an office.
type OfficerHistory struct {
	ID uuid.UUID `json:"id" db:"id"`

	Office      Office    `json:"office" db:"office"`
	HolderBadge int       `json:"badge" db:"holder_badge"`
	Start       time.Time `json:"start" db:"start"`
	End         time.Time `json:"end" db:"term_end"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName overrides the table name used by pop
func (OfficerHistory) TableName() string {
	tableName := "officer_history"
	return tableName
}

// FindCurrentOfficer finds the current holder record for an office.
func FindCurrentOfficer(tx *storage.Connection, office Office) (*ChapterOfficer, error) {
	obj := &ChapterOfficer{}
	if err := tx.Q().Where("office = ?", office).First(obj); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return nil, OfficerNotFoundError{}
		}
		return nil, errors.Wrap(err, "error finding current officer")
	}

	return obj, nil
}

// FindCurrentOfficers returns the current holder records in office display
// order, skipping offices with no holder.
func FindCurrentOfficers(tx *storage.Connection) ([]*ChapterOfficer, error) {
	officers := []*ChapterOfficer{}
	if err := tx.Q().All(&officers); err != nil {
		return nil, errors.Wrap(err, "error finding current officers")
	}

	byOffice := make(map[Office]*ChapterOfficer, len(officers))
	for _, o := range officers {
		byOffice[o.Office] = o
	}

	ordered := make([]*ChapterOfficer, 0, len(officers))
	for _, office := range Offices {
		if o, ok := byOffice[office]; ok {
			ordered = append(ordered, o)
		}
	}
	return ordered, nil
}

// AssignOfficer makes holderBadge the current holder of the office as of
// today.
//
// If the office is vacant a fresh current-holder row is created. If it is
// held by someone else, a history row covering the outgoing holder's term
// is appended and the current-holder row is updated in place, keeping its
// primary key so references to it stay valid. Reassigning the same holder
// is a no-op. Both writes happen in one transaction.
func AssignOfficer(conn *storage.Connection, office Office, holderBadge int, today time.Time) (*ChapterOfficer, error) {
	if !office.Valid() {
		return nil, errors.Errorf("invalid office %q", office)
	}

	var result *ChapterOfficer
	err := conn.Transaction(func(tx *storage.Connection) error {
		prev, err := FindCurrentOfficer(tx, office)
		if err != nil {
			if !IsNotFoundError(err) {
				return err
			}
			result, err = createOfficer(tx, office, holderBadge, today)
			return err
		}

		if prev.HolderBadge == holderBadge {
			result = prev
			return nil
		}

		history := &OfficerHistory{
			ID:          uuid.Must(uuid.NewV4()),
			Office:      office,
			HolderBadge: prev.HolderBadge,
			Start:       prev.Updated,
			End:         today,
		}
		if err := tx.Create(history); err != nil {
			return errors.Wrap(err, "error recording officer history")
		}

		prev.HolderBadge = holderBadge
		prev.Updated = today
		if err := tx.UpdateOnly(prev, "holder_badge", "updated"); err != nil {
			return errors.Wrap(err, "error updating current officer")
		}

		result = prev
		return nil
	})
	return result, err
}

// ReplaceOfficer performs a history-generating holder change for an office
// that is expected to already have a current holder. When the current
// record is unexpectedly missing it falls back to a fresh assignment and
// logs the anomaly instead of failing the request.
func ReplaceOfficer(conn *storage.Connection, office Office, holderBadge int, today time.Time) (*ChapterOfficer, error) {
	if !office.Valid() {
		return nil, errors.Errorf("invalid office %q", office)
	}

	if _, err := FindCurrentOfficer(conn, office); err != nil {
		if !IsNotFoundError(err) {
			return nil, err
		}
		logrus.WithFields(logrus.Fields{
			"office": office,
			"badge":  holderBadge,
		}).Warn("current officer record missing during holder change, falling back to a fresh assignment")
	}

	return AssignOfficer(conn, office, holderBadge, today)
}

func createOfficer(tx *storage.Connection, office Office, holderBadge int, today time.Time) (*ChapterOfficer, error) {
	officer := &ChapterOfficer{
		ID:          uuid.Must(uuid.NewV4()),
		Office:      office,
		HolderBadge: holderBadge,
		Updated:     today,
	}
	if err := tx.Create(officer); err != nil {
		return nil, errors.Wrap(err, "error creating officer")
	}
	return officer, nil
}

// officeHistoryCap bounds the default history view; more entries are only
// returned when the caller asks for the full history.
const officeHistoryCap = 9

// OfficeTerm is one entry in an office's history listing. End is nil for
// the current holder.
type OfficeTerm struct {
	HolderBadge int        `json:"badge"`
	Start       time.Time  `json:"start"`
	End         *time.Time `json:"end,omitempty"`
}

// OfficeHistory returns the holder terms for an office, current holder
// first, then past holders by end date descending. Unless showAll is set
// the past holders are capped and hasMore reports whether entries were cut.
func OfficeHistory(tx *storage.Connection, office Office, showAll bool) (terms []*OfficeTerm, hasMore bool, err error) {
	terms = []*OfficeTerm{}

	current, err := FindCurrentOfficer(tx, office)
	if err != nil {
		if !IsNotFoundError(err) {
			return nil, false, err
		}
	} else {
		terms = append(terms, &OfficeTerm{HolderBadge: current.HolderBadge, Start: current.Updated})
	}

	count, err := tx.Q().Where("office = ?", office).Count(&OfficerHistory{})
	if err != nil {
		return nil, false, errors.Wrap(err, "error counting officer history")
	}

	hasMore = count > officeHistoryCap
	q := tx.Q().Where("office = ?", office).Order("term_end desc")
	if !showAll {
		q = q.Limit(officeHistoryCap)
	} else {
		hasMore = false
	}

	past := []*OfficerHistory{}
	if err := q.All(&past); err != nil {
		return nil, false, errors.Wrap(err, "error finding officer history")
	}

	for _, h := range past {
		end := h.End
		terms = append(terms, &OfficeTerm{HolderBadge: h.HolderBadge, Start: h.Start, End: &end})
	}

	return terms, hasMore, nil
}
