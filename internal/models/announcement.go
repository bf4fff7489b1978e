package models

import (
	"database/sql"
	"time"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"

	"github.com/chapterhq/lodge/internal/storage"
)

// recentAnnouncementWindow bounds "recent" queries to the last six months.
const recentAnnouncementWindow = 180 * 24 * time.Hour

const recentAnnouncementCap = 5

// Announcement is a short posting by a member, shown either publicly or to
// brothers only.
type Announcement struct {
	ID uuid.UUID `json:"id" db:"id"`

	MemberID uuid.UUID `json:"member_id" db:"member_id"`

	// Date is an optional display date distinct from the creation time.
	Date *time.Time `json:"date,omitempty" db:"date"`

	Text   string `json:"text" db:"text"`
	Public bool   `json:"public" db:"public"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName overrides the table name used by pop
func (Announcement) TableName() string {
	tableName := "announcements"
	return tableName
}

// NewAnnouncement initializes an announcement posted by the given member.
func NewAnnouncement(memberID uuid.UUID, text string, date *time.Time, public bool) *Announcement {
	return &Announcement{
		ID:       uuid.Must(uuid.NewV4()),
		MemberID: memberID,
		Date:     date,
		Text:     text,
		Public:   public,
	}
}

// announcementOrder is creation time descending, then display date
// descending, then text ascending.
const announcementOrder = "created_at desc, date desc NULLS LAST, text asc"

// FindAnnouncementByID finds an announcement matching the provided ID.
func FindAnnouncementByID(tx *storage.Connection, id uuid.UUID) (*Announcement, error) {
	obj := &Announcement{}
	if err := tx.Q().Where("id = ?", id).First(obj); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return nil, AnnouncementNotFoundError{}
		}
		return nil, errors.Wrap(err, "error finding announcement")
	}

	return obj, nil
}

// FindAnnouncements returns announcements in display order. When publicOnly
// is set, private announcements are excluded. Pagination applies when
// pageParams is non-nil.
func FindAnnouncements(tx *storage.Connection, publicOnly bool, pageParams *Pagination) ([]*Announcement, error) {
	announcements := []*Announcement{}
	q := tx.Q().Order(announcementOrder)
	if publicOnly {
		q = q.Where("public = ?", true)
	}

	var err error
	if pageParams != nil {
		err = q.Paginate(int(pageParams.Page), int(pageParams.PerPage)).All(&announcements)
		pageParams.Count = uint64(q.Paginator.TotalEntriesSize)
	} else {
		err = q.All(&announcements)
	}

	if err != nil {
		return nil, errors.Wrap(err, "error finding announcements")
	}
	return announcements, nil
}

// FindRecentAnnouncements returns up to five announcements posted in the
// past six months, in display order.
func FindRecentAnnouncements(tx *storage.Connection, publicOnly bool, now time.Time) ([]*Announcement, error) {
	announcements := []*Announcement{}
	cutoff := now.Add(-recentAnnouncementWindow)

	q := tx.Q().Where("created_at >= ?", cutoff).Order(announcementOrder).Limit(recentAnnouncementCap)
	if publicOnly {
		q = q.Where("public = ?", true)
	}

	if err := q.All(&announcements); err != nil {
		return nil, errors.Wrap(err, "error finding recent announcements")
	}
	return announcements, nil
}
