package models

import (
	"database/sql"
	"time"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"

	"github.com/chapterhq/lodge/internal/storage"
	"github.com/chapterhq/lodge/internal/utilities"
)

// Thread is the middle level of the forum hierarchy. A thread always holds
// at least one post, created together with it.
type Thread struct {
	ID uuid.UUID `json:"id" db:"id"`

	ForumID uuid.UUID `json:"forum_id" db:"forum_id"`
	OwnerID uuid.UUID `json:"owner_id" db:"owner_id"`

	Title string `json:"title" db:"title"`
	Slug  string `json:"slug" db:"slug"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName overrides the table name used by pop
func (Thread) TableName() string {
	tableName := "threads"
	return tableName
}

// ThreadSubscription links a member to a thread they follow.
type ThreadSubscription struct {
	ID       uuid.UUID `json:"id" db:"id"`
	ThreadID uuid.UUID `json:"thread_id" db:"thread_id"`
	MemberID uuid.UUID `json:"member_id" db:"member_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName overrides the table name used by pop
func (ThreadSubscription) TableName() string {
	tableName := "thread_subscriptions"
	return tableName
}

// CreateThread creates a thread and its first post in one transaction and
// subscribes the owner to it. The first post always has number 1.
func CreateThread(conn *storage.Connection, forum *Forum, owner *Member, title, body string) (*Thread, *Post, error) {
	var thread *Thread
	var post *Post

	err := conn.Transaction(func(tx *storage.Connection) error {
		thread = &Thread{
			ID:      uuid.Must(uuid.NewV4()),
			ForumID: forum.ID,
			OwnerID: owner.ID,
			Title:   title,
			Slug:    utilities.Slugify(title),
		}
		if err := tx.Create(thread); err != nil {
			return errors.Wrap(err, "error creating thread")
		}

		post = &Post{
			ID:          uuid.Must(uuid.NewV4()),
			ThreadID:    thread.ID,
			AuthorID:    owner.ID,
			UpdatedByID: owner.ID,
			Number:      1,
			Body:        body,
		}
		if err := tx.Create(post); err != nil {
			return errors.Wrap(err, "error creating first post")
		}

		return thread.Subscribe(tx, owner.ID)
	})
	if err != nil {
		return nil, nil, err
	}

	return thread, post, nil
}

// FindThreadByID finds a thread matching the provided ID.
func FindThreadByID(tx *storage.Connection, id uuid.UUID) (*Thread, error) {
	obj := &Thread{}
	if err := tx.Q().Where("id = ?", id).First(obj); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return nil, ThreadNotFoundError{}
		}
		return nil, errors.Wrap(err, "error finding thread")
	}

	return obj, nil
}

// FindThreadsByForum returns the forum's threads, most recently updated
// first, with pagination when pageParams is non-nil.
func FindThreadsByForum(tx *storage.Connection, forum *Forum, pageParams *Pagination) ([]*Thread, error) {
	threads := []*Thread{}
	q := tx.Q().Where("forum_id = ?", forum.ID).Order("updated_at desc")

	var err error
	if pageParams != nil {
		err = q.Paginate(int(pageParams.Page), int(pageParams.PerPage)).All(&threads)
		pageParams.Count = uint64(q.Paginator.TotalEntriesSize)
	} else {
		err = q.All(&threads)
	}

	if err != nil {
		return nil, errors.Wrap(err, "error finding threads")
	}
	return threads, nil
}

// FindThreadsByOwner returns the threads a member started, most recently
// updated first.
func FindThreadsByOwner(tx *storage.Connection, ownerID uuid.UUID) ([]*Thread, error) {
	threads := []*Thread{}
	if err := tx.Q().Where("owner_id = ?", ownerID).Order("updated_at desc").All(&threads); err != nil {
		return nil, errors.Wrap(err, "error finding threads")
	}
	return threads, nil
}

// FindSubscribedThreads returns the threads the member follows, most
// recently updated first.
func FindSubscribedThreads(tx *storage.Connection, memberID uuid.UUID) ([]*Thread, error) {
	threads := []*Thread{}
	err := tx.RawQuery(
		"SELECT t.* FROM "+(&Thread{}).TableName()+" t JOIN "+(&ThreadSubscription{}).TableName()+" s ON s.thread_id = t.id WHERE s.member_id = ? ORDER BY t.updated_at DESC",
		memberID).All(&threads)
	if err != nil {
		return nil, errors.Wrap(err, "error finding subscribed threads")
	}
	return threads, nil
}

// Subscribe adds the member to the thread's subscriber set. Subscribing
// twice is a no-op.
func (t *Thread) Subscribe(tx *storage.Connection, memberID uuid.UUID) error {
	count, err := tx.Q().Where("thread_id = ? and member_id = ?", t.ID, memberID).Count(&ThreadSubscription{})
	if err != nil {
		return errors.Wrap(err, "error checking thread subscription")
	}
	if count > 0 {
		return nil
	}

	sub := &ThreadSubscription{
		ID:       uuid.Must(uuid.NewV4()),
		ThreadID: t.ID,
		MemberID: memberID,
	}
	return errors.Wrap(tx.Create(sub), "error subscribing to thread")
}

// Unsubscribe removes the member from the thread's subscriber set.
func (t *Thread) Unsubscribe(tx *storage.Connection, memberID uuid.UUID) error {
	return errors.Wrap(
		tx.RawQuery("DELETE FROM "+(&ThreadSubscription{}).TableName()+" WHERE thread_id = ? AND member_id = ?", t.ID, memberID).Exec(),
		"error unsubscribing from thread")
}

// IsSubscribed reports whether the member follows the thread.
func (t *Thread) IsSubscribed(tx *storage.Connection, memberID uuid.UUID) (bool, error) {
	count, err := tx.Q().Where("thread_id = ? and member_id = ?", t.ID, memberID).Count(&ThreadSubscription{})
	if err != nil {
		return false, errors.Wrap(err, "error checking thread subscription")
	}
	return count > 0, nil
}

// DeleteThread physically removes a thread together with its posts and
// subscriptions. This is the only path that removes posts from the
// database.
func DeleteThread(tx *storage.Connection, thread *Thread) error {
	if err := tx.RawQuery("DELETE FROM "+(&Post{}).TableName()+" WHERE thread_id = ?", thread.ID).Exec(); err != nil {
		return errors.Wrap(err, "error deleting thread posts")
	}
	if err := tx.RawQuery("DELETE FROM "+(&ThreadSubscription{}).TableName()+" WHERE thread_id = ?", thread.ID).Exec(); err != nil {
		return errors.Wrap(err, "error deleting thread subscriptions")
	}
	return errors.Wrap(tx.Destroy(thread), "error deleting thread")
}
