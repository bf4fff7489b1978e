package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"
	"github.com/pkg/errors"

	"github.com/chapterhq/lodge/internal/models"
	"github.com/chapterhq/lodge/internal/storage"
	"github.com/chapterhq/lodge/internal/utilities"
)

// ForumList returns every forum in alphabetical order.
func (a *API) ForumList(w http.ResponseWriter, r *http.Request) error {
	db := a.db.WithContext(r.Context())

	forums, err := models.FindAllForums(db)
	if err != nil {
		return internalServerError("Database error listing forums").WithInternalError(err)
	}

	return sendJSON(w, http.StatusOK, map[string]interface{}{
		"forums": forums,
	})
}

// ForumParams carry a new or edited forum.
type ForumParams struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (a *API) ForumCreate(w http.ResponseWriter, r *http.Request) error {
	db := a.db.WithContext(r.Context())

	params := &ForumParams{}
	if err := retrieveRequestParams(r, params); err != nil {
		return err
	}

	if params.Name == "" {
		return badRequestError(ErrorCodeValidationFailed, "Forum name is required")
	}

	forum := models.NewForum(params.Name, params.Description)
	if _, err := models.FindForumBySlug(db, forum.Slug); err == nil {
		return conflictError("A forum named %q already exists", params.Name)
	} else if !models.IsNotFoundError(err) {
		return internalServerError("Database error checking forum slug").WithInternalError(err)
	}

	if err := db.Create(forum); err != nil {
		return internalServerError("Database error creating forum").WithInternalError(err)
	}

	return sendJSON(w, http.StatusCreated, forum)
}

// loadForum resolves the {slug} URL parameter.
func (a *API) loadForum(w http.ResponseWriter, r *http.Request) (context.Context, error) {
	ctx := r.Context()
	db := a.db.WithContext(ctx)

	slug := chi.URLParam(r, "slug")
	forum, err := models.FindForumBySlug(db, slug)
	if err != nil {
		if models.IsNotFoundError(err) {
			return nil, notFoundError(ErrorCodeForumNotFound, "No forum %q", slug)
		}
		return nil, internalServerError("Database error finding forum").WithInternalError(err)
	}

	return withForum(ctx, forum), nil
}

func (a *API) ForumGet(w http.ResponseWriter, r *http.Request) error {
	return sendJSON(w, http.StatusOK, getForum(r.Context()))
}

func (a *API) ForumUpdate(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)
	forum := getForum(ctx)

	params := &ForumParams{}
	if err := retrieveRequestParams(r, params); err != nil {
		return err
	}

	if params.Name != "" {
		forum.Name = params.Name
		forum.Slug = utilities.Slugify(params.Name)
	}
	if params.Description != "" {
		forum.Description = storage.NullString(params.Description)
	}

	if err := db.UpdateOnly(forum, "name", "slug", "description"); err != nil {
		return internalServerError("Database error updating forum").WithInternalError(err)
	}

	return sendJSON(w, http.StatusOK, forum)
}

// ForumDelete removes a forum and everything in it.
func (a *API) ForumDelete(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)
	forum := getForum(ctx)

	if err := models.DeleteForum(db, forum); err != nil {
		return internalServerError("Database error deleting forum").WithInternalError(err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// ThreadList returns a forum's threads, most recently active first.
func (a *API) ThreadList(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)
	forum := getForum(ctx)

	pageParams, err := paginate(r)
	if err != nil {
		return err
	}

	threads, err := models.FindThreadsByForum(db, forum, pageParams)
	if err != nil {
		return internalServerError("Database error listing threads").WithInternalError(err)
	}

	entries := make([]*ThreadEntry, 0, len(threads))
	for _, thread := range threads {
		entry := &ThreadEntry{Thread: thread}
		latest, err := thread.LatestPost(db)
		if err != nil && !models.IsNotFoundError(err) {
			return internalServerError("Database error loading latest posts").WithInternalError(err)
		}
		if latest != nil {
			entry.LatestPost = &PostSummary{
				AuthorID:  latest.AuthorID,
				Number:    latest.Number,
				CreatedAt: latest.CreatedAt,
				Edited:    latest.IsEdited(),
			}
		}
		entries = append(entries, entry)
	}

	addPaginationHeaders(w, r, pageParams)
	return sendJSON(w, http.StatusOK, map[string]interface{}{
		"threads": entries,
	})
}

// ThreadEntry pairs a thread with a summary of its newest post, so listings
// can show activity without loading every post.
type ThreadEntry struct {
	*models.Thread
	LatestPost *PostSummary `json:"latest_post,omitempty"`
}

// PostSummary is the slice of a post a thread listing needs.
type PostSummary struct {
	AuthorID  uuid.UUID `json:"author_id"`
	Number    int       `json:"number"`
	CreatedAt time.Time `json:"created_at"`
	Edited    bool      `json:"edited"`
}

// ThreadCreateParams carry a new thread with its opening post.
type ThreadCreateParams struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ThreadCreate opens a thread. The opening post and the owner's
// subscription are created in the same transaction.
func (a *API) ThreadCreate(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)
	forum := getForum(ctx)
	member := getMember(ctx)

	params := &ThreadCreateParams{}
	if err := retrieveRequestParams(r, params); err != nil {
		return err
	}

	if params.Title == "" || params.Body == "" {
		return badRequestError(ErrorCodeValidationFailed, "Both a title and a body are required")
	}

	thread, post, err := models.CreateThread(db, forum, member, params.Title, utilities.BBCodeEscape(params.Body))
	if err != nil {
		return internalServerError("Database error creating thread").WithInternalError(err)
	}

	return sendJSON(w, http.StatusCreated, map[string]interface{}{
		"thread": thread,
		"post":   post,
	})
}

// loadThread resolves the {thread_id} URL parameter.
func (a *API) loadThread(w http.ResponseWriter, r *http.Request) (context.Context, error) {
	ctx := r.Context()
	db := a.db.WithContext(ctx)

	id, err := uuidFromParam(r, "thread_id")
	if err != nil {
		return nil, err
	}

	thread, err := models.FindThreadByID(db, id)
	if err != nil {
		if models.IsNotFoundError(err) {
			return nil, notFoundError(ErrorCodeThreadNotFound, "No thread with this ID")
		}
		return nil, internalServerError("Database error finding thread").WithInternalError(err)
	}

	return withThread(ctx, thread), nil
}

// ThreadGet returns a thread and one page of its posts. Posts page by the
// configured chapter page size unless the request says otherwise.
func (a *API) ThreadGet(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)
	thread := getThread(ctx)
	member := getMember(ctx)

	pageParams, err := paginate(r)
	if err != nil {
		return err
	}
	if pageParams.PerPage == defaultPerPage && a.config.Chapter.PostsPerPage > 0 {
		pageParams.PerPage = uint64(a.config.Chapter.PostsPerPage)
	}

	posts, err := models.FindPostsByThread(db, thread, pageParams)
	if err != nil {
		return internalServerError("Database error listing posts").WithInternalError(err)
	}

	subscribed, err := thread.IsSubscribed(db, member.ID)
	if err != nil {
		return internalServerError("Database error checking subscription").WithInternalError(err)
	}

	addPaginationHeaders(w, r, pageParams)
	return sendJSON(w, http.StatusOK, map[string]interface{}{
		"thread":     thread,
		"posts":      posts,
		"subscribed": subscribed,
	})
}

// ThreadUpdateParams rename a thread.
type ThreadUpdateParams struct {
	Title string `json:"title"`
}

// ThreadUpdate renames a thread. The owner, a moderator of the forum or an
// admin may rename.
func (a *API) ThreadUpdate(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)
	thread := getThread(ctx)
	member := getMember(ctx)

	if err := a.requireThreadControl(ctx, thread, member); err != nil {
		return err
	}

	params := &ThreadUpdateParams{}
	if err := retrieveRequestParams(r, params); err != nil {
		return err
	}

	if params.Title == "" {
		return badRequestError(ErrorCodeValidationFailed, "A title is required")
	}

	thread.Title = params.Title
	if err := db.UpdateOnly(thread, "title"); err != nil {
		return internalServerError("Database error updating thread").WithInternalError(err)
	}

	return sendJSON(w, http.StatusOK, thread)
}

// ThreadDelete physically removes a thread with all its posts and
// subscriptions.
func (a *API) ThreadDelete(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)
	thread := getThread(ctx)
	member := getMember(ctx)

	if err := a.requireThreadControl(ctx, thread, member); err != nil {
		return err
	}

	if err := models.DeleteThread(db, thread); err != nil {
		return internalServerError("Database error deleting thread").WithInternalError(err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// requireThreadControl checks that the member owns the thread, moderates
// its forum or is an admin.
func (a *API) requireThreadControl(ctx context.Context, thread *models.Thread, member *models.Member) error {
	if member.IsAdmin || thread.OwnerID == member.ID {
		return nil
	}

	db := a.db.WithContext(ctx)
	forum := &models.Forum{ID: thread.ForumID}
	moderator, err := forum.IsModerator(db, member.ID)
	if err != nil {
		return internalServerError("Database error checking moderators").WithInternalError(err)
	}
	if !moderator {
		return forbiddenError(ErrorCodeNotAdmin, "Only the owner, a moderator or an administrator may do that")
	}
	return nil
}

// PostCreateParams carry a reply, optionally quoting an earlier post from
// the same thread.
type PostCreateParams struct {
	Body    string     `json:"body"`
	QuoteID *uuid.UUID `json:"quote_id"`
}

func (a *API) PostCreate(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)
	thread := getThread(ctx)
	member := getMember(ctx)

	params := &PostCreateParams{}
	if err := retrieveRequestParams(r, params); err != nil {
		return err
	}

	if params.Body == "" {
		return badRequestError(ErrorCodeValidationFailed, "A body is required")
	}

	post, err := models.CreatePost(db, thread, member, utilities.BBCodeEscape(params.Body), params.QuoteID)
	if err != nil {
		switch {
		case errors.Cause(err) == models.ErrQuoteDifferentThread:
			return badRequestError(ErrorCodeValidationFailed, "Quoted post belongs to a different thread")
		case models.IsNotFoundError(err):
			return badRequestError(ErrorCodePostNotFound, "Quoted post does not exist")
		}
		return internalServerError("Database error creating post").WithInternalError(err)
	}

	return sendJSON(w, http.StatusCreated, post)
}

// PostUpdateParams edit a post body.
type PostUpdateParams struct {
	Body string `json:"body"`
}

func (a *API) loadPost(r *http.Request) (*models.Post, error) {
	db := a.db.WithContext(r.Context())

	id, err := uuidFromParam(r, "post_id")
	if err != nil {
		return nil, err
	}

	post, err := models.FindPostByID(db, id)
	if err != nil {
		if models.IsNotFoundError(err) {
			return nil, notFoundError(ErrorCodePostNotFound, "No post with this ID")
		}
		return nil, internalServerError("Database error finding post").WithInternalError(err)
	}
	return post, nil
}

// PostUpdate edits a post. The author, a moderator or an admin may edit.
// PostGet returns a post along with its body converted back to BB markup,
// for editing.
func (a *API) PostGet(w http.ResponseWriter, r *http.Request) error {
	post, err := a.loadPost(r)
	if err != nil {
		return err
	}

	return sendJSON(w, http.StatusOK, map[string]interface{}{
		"post":   post,
		"source": utilities.BBCodeUnescape(post.Body),
	})
}

func (a *API) PostUpdate(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)
	member := getMember(ctx)

	post, err := a.loadPost(r)
	if err != nil {
		return err
	}

	if err := a.requirePostControl(ctx, post, member); err != nil {
		return err
	}

	params := &PostUpdateParams{}
	if err := retrieveRequestParams(r, params); err != nil {
		return err
	}

	if params.Body == "" {
		return badRequestError(ErrorCodeValidationFailed, "A body is required")
	}

	if err := post.Edit(db, member.ID, utilities.BBCodeEscape(params.Body)); err != nil {
		return internalServerError("Database error editing post").WithInternalError(err)
	}

	return sendJSON(w, http.StatusOK, post)
}

// PostDelete soft deletes a post, keeping its number so later posts keep
// theirs.
func (a *API) PostDelete(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)
	member := getMember(ctx)

	post, err := a.loadPost(r)
	if err != nil {
		return err
	}

	if err := a.requirePostControl(ctx, post, member); err != nil {
		return err
	}

	if err := post.SoftDelete(db, member.ID); err != nil {
		return internalServerError("Database error deleting post").WithInternalError(err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (a *API) requirePostControl(ctx context.Context, post *models.Post, member *models.Member) error {
	if member.IsAdmin || post.AuthorID == member.ID {
		return nil
	}

	db := a.db.WithContext(ctx)
	thread, err := models.FindThreadByID(db, post.ThreadID)
	if err != nil {
		return internalServerError("Database error finding thread").WithInternalError(err)
	}

	forum := &models.Forum{ID: thread.ForumID}
	moderator, err := forum.IsModerator(db, member.ID)
	if err != nil {
		return internalServerError("Database error checking moderators").WithInternalError(err)
	}
	if !moderator {
		return forbiddenError(ErrorCodeNotAdmin, "Only the author, a moderator or an administrator may do that")
	}
	return nil
}

// ThreadSubscribe adds the member to a thread's watch list.
func (a *API) ThreadSubscribe(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)
	thread := getThread(ctx)
	member := getMember(ctx)

	if err := thread.Subscribe(db, member.ID); err != nil {
		return internalServerError("Database error subscribing").WithInternalError(err)
	}

	return sendJSON(w, http.StatusOK, map[string]bool{"subscribed": true})
}

func (a *API) ThreadUnsubscribe(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)
	thread := getThread(ctx)
	member := getMember(ctx)

	if err := thread.Unsubscribe(db, member.ID); err != nil {
		return internalServerError("Database error unsubscribing").WithInternalError(err)
	}

	return sendJSON(w, http.StatusOK, map[string]bool{"subscribed": false})
}

// SubscriptionList returns the threads the member watches.
func (a *API) SubscriptionList(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)
	member := getMember(ctx)

	threads, err := models.FindSubscribedThreads(db, member.ID)
	if err != nil {
		return internalServerError("Database error listing subscriptions").WithInternalError(err)
	}

	return sendJSON(w, http.StatusOK, map[string]interface{}{
		"threads": threads,
	})
}

// MyThreadList returns the threads the member started.
func (a *API) MyThreadList(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)
	member := getMember(ctx)

	threads, err := models.FindThreadsByOwner(db, member.ID)
	if err != nil {
		return internalServerError("Database error listing threads").WithInternalError(err)
	}

	return sendJSON(w, http.StatusOK, map[string]interface{}{
		"threads": threads,
	})
}
