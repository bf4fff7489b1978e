package models

import (
	"database/sql"
	"time"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"

	"github.com/chapterhq/lodge/internal/storage"
	"github.com/chapterhq/lodge/internal/utilities"
)

// Forum is the top level of the forum hierarchy, holding zero or more
// threads and an optional set of moderators.
type Forum struct {
	ID uuid.UUID `json:"id" db:"id"`

	Name        string             `json:"name" db:"name"`
	Slug        string             `json:"slug" db:"slug"`
	Description storage.NullString `json:"description" db:"description"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName overrides the table name used by pop
func (Forum) TableName() string {
	tableName := "forums"
	return tableName
}

// ForumModerator links a member to a forum they moderate.
type ForumModerator struct {
	ID       uuid.UUID `json:"id" db:"id"`
	ForumID  uuid.UUID `json:"forum_id" db:"forum_id"`
	MemberID uuid.UUID `json:"member_id" db:"member_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName overrides the table name used by pop
func (ForumModerator) TableName() string {
	tableName := "forum_moderators"
	return tableName
}

// NewForum initializes a forum, deriving the slug from the name.
func NewForum(name, description string) *Forum {
	return &Forum{
		ID:          uuid.Must(uuid.NewV4()),
		Name:        name,
		Slug:        utilities.Slugify(name),
		Description: storage.NullString(description),
	}
}

// FindForumBySlug finds a forum with the matching slug.
func FindForumBySlug(tx *storage.Connection, slug string) (*Forum, error) {
	obj := &Forum{}
	if err := tx.Q().Where("slug = ?", slug).First(obj); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return nil, ForumNotFoundError{}
		}
		return nil, errors.Wrap(err, "error finding forum")
	}

	return obj, nil
}

// FindAllForums returns every forum ordered by name.
func FindAllForums(tx *storage.Connection) ([]*Forum, error) {
	forums := []*Forum{}
	if err := tx.Q().Order("name asc").All(&forums); err != nil {
		return nil, errors.Wrap(err, "error finding forums")
	}
	return forums, nil
}

// AddModerator makes the member a moderator of the forum. Adding twice is a
// no-op.
func (f *Forum) AddModerator(tx *storage.Connection, memberID uuid.UUID) error {
	count, err := tx.Q().Where("forum_id = ? and member_id = ?", f.ID, memberID).Count(&ForumModerator{})
	if err != nil {
		return errors.Wrap(err, "error checking forum moderators")
	}
	if count > 0 {
		return nil
	}

	mod := &ForumModerator{
		ID:       uuid.Must(uuid.NewV4()),
		ForumID:  f.ID,
		MemberID: memberID,
	}
	return errors.Wrap(tx.Create(mod), "error adding forum moderator")
}

// IsModerator reports whether the member moderates the forum.
func (f *Forum) IsModerator(tx *storage.Connection, memberID uuid.UUID) (bool, error) {
	count, err := tx.Q().Where("forum_id = ? and member_id = ?", f.ID, memberID).Count(&ForumModerator{})
	if err != nil {
		return false, errors.Wrap(err, "error checking forum moderators")
	}
	return count > 0, nil
}

// DeleteForum removes the forum along with its threads and posts.
func DeleteForum(conn *storage.Connection, forum *Forum) error {
	return conn.Transaction(func(tx *storage.Connection) error {
		threads := []*Thread{}
		if err := tx.Q().Where("forum_id = ?", forum.ID).All(&threads); err != nil {
			return errors.Wrap(err, "error finding forum threads")
		}
		for _, thread := range threads {
			if err := DeleteThread(tx, thread); err != nil {
				return err
			}
		}

		if err := tx.RawQuery("DELETE FROM "+(&ForumModerator{}).TableName()+" WHERE forum_id = ?", forum.ID).Exec(); err != nil {
			return errors.Wrap(err, "error deleting forum moderators")
		}
		return errors.Wrap(tx.Destroy(forum), "error deleting forum")
	})
}
