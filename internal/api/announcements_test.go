package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/chapterhq/lodge/internal/conf"
	"github.com/chapterhq/lodge/internal/models"
	"github.com/chapterhq/lodge/internal/storage"
)

type AnnouncementsTestSuite struct {
	suite.Suite
	API    *API
	Config *conf.GlobalConfiguration

	Author *models.Member
}

func TestAnnouncements(t *testing.T) {
	api, config, err := setupAPIForTest()
	require.NoError(t, err)

	ts := &AnnouncementsTestSuite{
		API:    api,
		Config: config,
	}
	defer api.db.Close()

	suite.Run(t, ts)
}

func (ts *AnnouncementsTestSuite) SetupTest() {
	models.TruncateAll(ts.API.db)

	author, err := models.NewMember(700, "Jacob", "Stark", "jstark@example.com", "password")
	require.NoError(ts.T(), err)
	require.NoError(ts.T(), models.CreateMember(ts.API.db, author))
	ts.Author = author
}

func (ts *AnnouncementsTestSuite) tokenFor(m *models.Member) string {
	var token string
	err := ts.API.db.Transaction(func(tx *storage.Connection) error {
		var terr error
		token, _, terr = ts.API.generateAccessToken(tx, m)
		return terr
	})
	require.NoError(ts.T(), err)
	return token
}

func (ts *AnnouncementsTestSuite) post(params *AnnouncementParams) *models.Announcement {
	var buffer bytes.Buffer
	require.NoError(ts.T(), json.NewEncoder(&buffer).Encode(params))

	req := httptest.NewRequest(http.MethodPost, "/v1/chapter/announcements", &buffer)
	req.Header.Set("Authorization", "Bearer "+ts.tokenFor(ts.Author))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.API.handler.ServeHTTP(w, req)
	require.Equal(ts.T(), http.StatusCreated, w.Code)

	announcement := &models.Announcement{}
	require.NoError(ts.T(), json.NewDecoder(w.Body).Decode(announcement))
	return announcement
}

func (ts *AnnouncementsTestSuite) list(token string, query string) []*models.Announcement {
	req := httptest.NewRequest(http.MethodGet, "/v1/chapter/announcements"+query, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.API.handler.ServeHTTP(w, req)
	require.Equal(ts.T(), http.StatusOK, w.Code)

	resp := struct {
		Announcements []*models.Announcement `json:"announcements"`
	}{}
	require.NoError(ts.T(), json.NewDecoder(w.Body).Decode(&resp))
	return resp.Announcements
}

func (ts *AnnouncementsTestSuite) TestAnonymousOnlySeesPublic() {
	public := true
	ts.post(&AnnouncementParams{Text: "Open house Saturday", Public: &public})
	ts.post(&AnnouncementParams{Text: "Dues are overdue"})

	assert.Len(ts.T(), ts.list("", ""), 1)
	assert.Len(ts.T(), ts.list(ts.tokenFor(ts.Author), ""), 2)
}

func (ts *AnnouncementsTestSuite) TestCreateRequiresText() {
	var buffer bytes.Buffer
	require.NoError(ts.T(), json.NewEncoder(&buffer).Encode(&AnnouncementParams{}))

	req := httptest.NewRequest(http.MethodPost, "/v1/chapter/announcements", &buffer)
	req.Header.Set("Authorization", "Bearer "+ts.tokenFor(ts.Author))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.API.handler.ServeHTTP(w, req)
	require.Equal(ts.T(), http.StatusBadRequest, w.Code)
}

func (ts *AnnouncementsTestSuite) TestAuthorMayEditAndDelete() {
	announcement := ts.post(&AnnouncementParams{Text: "Chapter meeting moved"})

	var buffer bytes.Buffer
	require.NoError(ts.T(), json.NewEncoder(&buffer).Encode(&AnnouncementParams{Text: "Chapter meeting moved to Monday"}))

	req := httptest.NewRequest(http.MethodPut, "/v1/chapter/announcements/"+announcement.ID.String(), &buffer)
	req.Header.Set("Authorization", "Bearer "+ts.tokenFor(ts.Author))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.API.handler.ServeHTTP(w, req)
	require.Equal(ts.T(), http.StatusOK, w.Code)

	updated := &models.Announcement{}
	require.NoError(ts.T(), json.NewDecoder(w.Body).Decode(updated))
	assert.Contains(ts.T(), updated.Text, "Monday")

	req = httptest.NewRequest(http.MethodDelete, "/v1/chapter/announcements/"+announcement.ID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+ts.tokenFor(ts.Author))
	w = httptest.NewRecorder()
	ts.API.handler.ServeHTTP(w, req)
	require.Equal(ts.T(), http.StatusNoContent, w.Code)

	assert.Empty(ts.T(), ts.list(ts.tokenFor(ts.Author), ""))
}

func (ts *AnnouncementsTestSuite) TestEditByNonAuthorForbidden() {
	announcement := ts.post(&AnnouncementParams{Text: "Original"})

	other, err := models.NewMember(701, "Aaron", "Reed", "areed@example.com", "password")
	require.NoError(ts.T(), err)
	require.NoError(ts.T(), models.CreateMember(ts.API.db, other))

	var buffer bytes.Buffer
	require.NoError(ts.T(), json.NewEncoder(&buffer).Encode(&AnnouncementParams{Text: "Hijacked"}))

	req := httptest.NewRequest(http.MethodPut, "/v1/chapter/announcements/"+announcement.ID.String(), &buffer)
	req.Header.Set("Authorization", "Bearer "+ts.tokenFor(other))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.API.handler.ServeHTTP(w, req)
	require.Equal(ts.T(), http.StatusForbidden, w.Code)
}
