package models

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/chapterhq/lodge/internal/conf"
	"github.com/chapterhq/lodge/internal/storage"
	"github.com/chapterhq/lodge/internal/storage/test"
)

type ForumTestSuite struct {
	suite.Suite
	db     *storage.Connection
	config *conf.GlobalConfiguration
}

func (ts *ForumTestSuite) SetupTest() {
	TruncateAll(ts.db)
}

func TestForum(t *testing.T) {
	globalConfig, err := conf.LoadGlobal(modelsTestConfig)
	require.NoError(t, err)

	conn, err := test.SetupDBConnection(globalConfig)
	require.NoError(t, err)

	ts := &ForumTestSuite{
		db:     conn,
		config: globalConfig,
	}
	defer ts.db.Close()

	suite.Run(t, ts)
}

func (ts *ForumTestSuite) createForum() *Forum {
	forum := NewForum("General Discussion", "Anything goes.")
	require.NoError(ts.T(), ts.db.Create(forum))
	return forum
}

func (ts *ForumTestSuite) createMember(badge int) *Member {
	member, err := NewMember(badge, "John", "Stark", fmt.Sprintf("forum%d@example.com", badge), "secretpass")
	require.NoError(ts.T(), err)
	require.NoError(ts.T(), CreateMember(ts.db, member))
	return member
}

func (ts *ForumTestSuite) TestNewForumSlug() {
	forum := ts.createForum()
	require.Equal(ts.T(), "general-discussion", forum.Slug)

	found, err := FindForumBySlug(ts.db, "general-discussion")
	require.NoError(ts.T(), err)
	require.Equal(ts.T(), forum.ID, found.ID)
}

func (ts *ForumTestSuite) TestCreateThreadCreatesFirstPost() {
	forum := ts.createForum()
	owner := ts.createMember(700)

	thread, post, err := CreateThread(ts.db, forum, owner, "Chapter Meeting", "The meeting is on Sunday.")
	require.NoError(ts.T(), err)
	require.Equal(ts.T(), "chapter-meeting", thread.Slug)
	require.Equal(ts.T(), 1, post.Number)
	require.Equal(ts.T(), owner.ID, post.AuthorID)

	// the owner follows their own thread
	subscribed, err := thread.IsSubscribed(ts.db, owner.ID)
	require.NoError(ts.T(), err)
	require.True(ts.T(), subscribed)
}

func (ts *ForumTestSuite) TestPostNumbersAreSequential() {
	forum := ts.createForum()
	owner := ts.createMember(700)

	thread, _, err := CreateThread(ts.db, forum, owner, "Numbers", "first")
	require.NoError(ts.T(), err)

	second, err := CreatePost(ts.db, thread, owner, "second", nil)
	require.NoError(ts.T(), err)
	require.Equal(ts.T(), 2, second.Number)

	third, err := CreatePost(ts.db, thread, owner, "third", nil)
	require.NoError(ts.T(), err)
	require.Equal(ts.T(), 3, third.Number)
}

func (ts *ForumTestSuite) TestSoftDeleteKeepsNumbering() {
	forum := ts.createForum()
	owner := ts.createMember(700)

	thread, _, err := CreateThread(ts.db, forum, owner, "Deletions", "first")
	require.NoError(ts.T(), err)

	second, err := CreatePost(ts.db, thread, owner, "second", nil)
	require.NoError(ts.T(), err)

	require.NoError(ts.T(), second.SoftDelete(ts.db, owner.ID))

	// a deleted post stays in the database and keeps its number
	found, err := FindPostByNumber(ts.db, thread, 2)
	require.NoError(ts.T(), err)
	require.True(ts.T(), found.Deleted)

	third, err := CreatePost(ts.db, thread, owner, "third", nil)
	require.NoError(ts.T(), err)
	require.Equal(ts.T(), 3, third.Number)
}

func (ts *ForumTestSuite) TestQuoteMustBeSameThread() {
	forum := ts.createForum()
	owner := ts.createMember(700)

	threadA, postA, err := CreateThread(ts.db, forum, owner, "Thread A", "first")
	require.NoError(ts.T(), err)
	threadB, _, err := CreateThread(ts.db, forum, owner, "Thread B", "first")
	require.NoError(ts.T(), err)

	_, err = CreatePost(ts.db, threadB, owner, "quoting across threads", &postA.ID)
	require.Error(ts.T(), err)

	reply, err := CreatePost(ts.db, threadA, owner, "a proper quote", &postA.ID)
	require.NoError(ts.T(), err)
	require.Equal(ts.T(), postA.ID, *reply.QuoteID)
}

func (ts *ForumTestSuite) TestDeleteThreadRemovesPosts() {
	forum := ts.createForum()
	owner := ts.createMember(700)

	thread, _, err := CreateThread(ts.db, forum, owner, "Doomed", "first")
	require.NoError(ts.T(), err)

	_, err = CreatePost(ts.db, thread, owner, "second", nil)
	require.NoError(ts.T(), err)

	require.NoError(ts.T(), DeleteThread(ts.db, thread))

	count, err := ts.db.Q().Where("thread_id = ?", thread.ID).Count(&Post{})
	require.NoError(ts.T(), err)
	require.Equal(ts.T(), 0, count)
}

func (ts *ForumTestSuite) TestModerators() {
	forum := ts.createForum()
	member := ts.createMember(700)

	ok, err := forum.IsModerator(ts.db, member.ID)
	require.NoError(ts.T(), err)
	require.False(ts.T(), ok)

	require.NoError(ts.T(), forum.AddModerator(ts.db, member.ID))
	require.NoError(ts.T(), forum.AddModerator(ts.db, member.ID))

	ok, err = forum.IsModerator(ts.db, member.ID)
	require.NoError(ts.T(), err)
	require.True(ts.T(), ok)

	count, err := ts.db.Q().Where("forum_id = ?", forum.ID).Count(&ForumModerator{})
	require.NoError(ts.T(), err)
	require.Equal(ts.T(), 1, count)
}

func (ts *ForumTestSuite) TestSubscriptions() {
	forum := ts.createForum()
	owner := ts.createMember(700)
	reader := ts.createMember(701)

	thread, _, err := CreateThread(ts.db, forum, owner, "Subscribe here", "first")
	require.NoError(ts.T(), err)

	require.NoError(ts.T(), thread.Subscribe(ts.db, reader.ID))

	threads, err := FindSubscribedThreads(ts.db, reader.ID)
	require.NoError(ts.T(), err)
	require.Len(ts.T(), threads, 1)

	require.NoError(ts.T(), thread.Unsubscribe(ts.db, reader.ID))

	threads, err = FindSubscribedThreads(ts.db, reader.ID)
	require.NoError(ts.T(), err)
	require.Empty(ts.T(), threads)
}
