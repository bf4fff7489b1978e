package models

import (
	"database/sql"
	"time"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"

	"github.com/chapterhq/lodge/internal/storage"
)

// Post is the bottom level of the forum hierarchy. Posts are numbered
// sequentially within their thread starting at 1 and numbers are never
// reused. A deleted post stays in the database with its deleted flag set so
// later posts keep their numbers; posts only leave the database when their
// thread is deleted.
type Post struct {
	ID uuid.UUID `json:"id" db:"id"`

	ThreadID    uuid.UUID `json:"thread_id" db:"thread_id"`
	AuthorID    uuid.UUID `json:"author_id" db:"author_id"`
	UpdatedByID uuid.UUID `json:"updated_by_id" db:"updated_by_id"`

	// QuoteID references an earlier post in the same thread this post
	// replies to.
	QuoteID *uuid.UUID `json:"quote_id,omitempty" db:"quote_id"`

	Number  int    `json:"number" db:"number"`
	Body    string `json:"body" db:"body"`
	Deleted bool   `json:"deleted" db:"deleted"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName overrides the table name used by pop
func (Post) TableName() string {
	tableName := "posts"
	return tableName
}

// IsEdited reports whether the post was changed after creation.
func (p *Post) IsEdited() bool {
	return p.UpdatedAt.After(p.CreatedAt.Add(5 * time.Second))
}

// ErrQuoteDifferentThread is returned when a new post quotes a post from
// another thread.
var ErrQuoteDifferentThread = errors.New("quoted post belongs to a different thread")

// CreatePost appends a post to a thread, assigning the next number in
// sequence. A quoted post must belong to the same thread.
func CreatePost(conn *storage.Connection, thread *Thread, author *Member, body string, quoteID *uuid.UUID) (*Post, error) {
	var post *Post

	err := conn.Transaction(func(tx *storage.Connection) error {
		if quoteID != nil {
			quoted, err := FindPostByID(tx, *quoteID)
			if err != nil {
				return err
			}
			if quoted.ThreadID != thread.ID {
				return ErrQuoteDifferentThread
			}
		}

		count, err := tx.Q().Where("thread_id = ?", thread.ID).Count(&Post{})
		if err != nil {
			return errors.Wrap(err, "error counting thread posts")
		}

		post = &Post{
			ID:          uuid.Must(uuid.NewV4()),
			ThreadID:    thread.ID,
			AuthorID:    author.ID,
			UpdatedByID: author.ID,
			QuoteID:     quoteID,
			Number:      count + 1,
			Body:        body,
		}
		if err := tx.Create(post); err != nil {
			return errors.Wrap(err, "error creating post")
		}

		// bump the thread so it sorts as recently active
		return errors.Wrap(tx.UpdateOnly(thread), "error touching thread")
	})
	if err != nil {
		return nil, err
	}

	return post, nil
}

// FindPostByID finds a post matching the provided ID.
func FindPostByID(tx *storage.Connection, id uuid.UUID) (*Post, error) {
	obj := &Post{}
	if err := tx.Q().Where("id = ?", id).First(obj); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return nil, PostNotFoundError{}
		}
		return nil, errors.Wrap(err, "error finding post")
	}

	return obj, nil
}

// FindPostByNumber finds a post by its number within a thread.
func FindPostByNumber(tx *storage.Connection, thread *Thread, number int) (*Post, error) {
	obj := &Post{}
	if err := tx.Q().Where("thread_id = ? and number = ?", thread.ID, number).First(obj); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return nil, PostNotFoundError{}
		}
		return nil, errors.Wrap(err, "error finding post")
	}

	return obj, nil
}

// FindPostsByThread returns the thread's posts in number order, including
// soft deleted ones, with pagination when pageParams is non-nil.
func FindPostsByThread(tx *storage.Connection, thread *Thread, pageParams *Pagination) ([]*Post, error) {
	posts := []*Post{}
	q := tx.Q().Where("thread_id = ?", thread.ID).Order("number asc")

	var err error
	if pageParams != nil {
		err = q.Paginate(int(pageParams.Page), int(pageParams.PerPage)).All(&posts)
		pageParams.Count = uint64(q.Paginator.TotalEntriesSize)
	} else {
		err = q.All(&posts)
	}

	if err != nil {
		return nil, errors.Wrap(err, "error finding posts")
	}
	return posts, nil
}

// LatestPost returns the thread's most recently created post.
func (t *Thread) LatestPost(tx *storage.Connection) (*Post, error) {
	obj := &Post{}
	if err := tx.Q().Where("thread_id = ?", t.ID).Order("created_at desc").First(obj); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return nil, PostNotFoundError{}
		}
		return nil, errors.Wrap(err, "error finding latest post")
	}

	return obj, nil
}

// Edit replaces the post's body, recording who made the change.
func (p *Post) Edit(tx *storage.Connection, editorID uuid.UUID, body string) error {
	p.Body = body
	p.UpdatedByID = editorID
	return errors.Wrap(tx.UpdateOnly(p, "body", "updated_by_id"), "error editing post")
}

// SoftDelete marks the post deleted without removing it, preserving the
// numbering of later posts.
func (p *Post) SoftDelete(tx *storage.Connection, editorID uuid.UUID) error {
	p.Deleted = true
	p.UpdatedByID = editorID
	return errors.Wrap(tx.UpdateOnly(p, "deleted", "updated_by_id"), "error deleting post")
}
