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

type OfficersTestSuite struct {
	suite.Suite
	API    *API
	Config *conf.GlobalConfiguration

	Admin   *models.Member
	Brother *models.Member
}

func TestOfficers(t *testing.T) {
	api, config, err := setupAPIForTest()
	require.NoError(t, err)

	ts := &OfficersTestSuite{
		API:    api,
		Config: config,
	}
	defer api.db.Close()

	suite.Run(t, ts)
}

func (ts *OfficersTestSuite) SetupTest() {
	models.TruncateAll(ts.API.db)

	admin, err := models.NewMember(700, "Jacob", "Stark", "jstark@example.com", "password")
	require.NoError(ts.T(), err)
	admin.IsAdmin = true
	require.NoError(ts.T(), models.CreateMember(ts.API.db, admin))
	ts.Admin = admin

	brother, err := models.NewMember(701, "Aaron", "Reed", "areed@example.com", "password")
	require.NoError(ts.T(), err)
	require.NoError(ts.T(), models.CreateMember(ts.API.db, brother))
	ts.Brother = brother
}

func (ts *OfficersTestSuite) tokenFor(m *models.Member) string {
	var token string
	err := ts.API.db.Transaction(func(tx *storage.Connection) error {
		var terr error
		token, _, terr = ts.API.generateAccessToken(tx, m)
		return terr
	})
	require.NoError(ts.T(), err)
	return token
}

func (ts *OfficersTestSuite) assignOfficer(office string, badge int, replace bool) *httptest.ResponseRecorder {
	var buffer bytes.Buffer
	require.NoError(ts.T(), json.NewEncoder(&buffer).Encode(&OfficerAssignParams{
		HolderBadge: badge,
		Replace:     replace,
	}))

	req := httptest.NewRequest(http.MethodPut, "/v1/officers/"+office, &buffer)
	req.Header.Set("Authorization", "Bearer "+ts.tokenFor(ts.Admin))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.API.handler.ServeHTTP(w, req)
	return w
}

func (ts *OfficersTestSuite) TestAssignAndList() {
	w := ts.assignOfficer("GP", 700, false)
	require.Equal(ts.T(), http.StatusOK, w.Code)

	entry := &OfficerEntry{}
	require.NoError(ts.T(), json.NewDecoder(w.Body).Decode(entry))
	assert.Equal(ts.T(), "GP", entry.Office)
	assert.Equal(ts.T(), "President", entry.Title)
	assert.Equal(ts.T(), 700, entry.HolderBadge)

	req := httptest.NewRequest(http.MethodGet, "/v1/officers", nil)
	w = httptest.NewRecorder()
	ts.API.handler.ServeHTTP(w, req)
	require.Equal(ts.T(), http.StatusOK, w.Code)

	listing := struct {
		Officers []OfficerEntry `json:"officers"`
	}{}
	require.NoError(ts.T(), json.NewDecoder(w.Body).Decode(&listing))
	require.Len(ts.T(), listing.Officers, 1)
	assert.Equal(ts.T(), "Jacob Stark", listing.Officers[0].HolderName)
}

func (ts *OfficersTestSuite) TestSuccessionArchivesOutgoingTerm() {
	require.Equal(ts.T(), http.StatusOK, ts.assignOfficer("AG", 700, false).Code)
	require.Equal(ts.T(), http.StatusOK, ts.assignOfficer("AG", 701, false).Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/officers/AG/history", nil)
	w := httptest.NewRecorder()
	ts.API.handler.ServeHTTP(w, req)
	require.Equal(ts.T(), http.StatusOK, w.Code)

	resp := &OfficeHistoryResponse{}
	require.NoError(ts.T(), json.NewDecoder(w.Body).Decode(resp))
	assert.Equal(ts.T(), "Corresponding Secretary", resp.Title)
	require.Len(ts.T(), resp.Terms, 2)

	// sitting holder first, open-ended term
	assert.Equal(ts.T(), 701, resp.Terms[0].HolderBadge)
	assert.Nil(ts.T(), resp.Terms[0].End)
	assert.Equal(ts.T(), 700, resp.Terms[1].HolderBadge)
	require.NotNil(ts.T(), resp.Terms[1].End)
	assert.False(ts.T(), resp.HasMore)
}

func (ts *OfficersTestSuite) TestReassignSittingHolderIsNoop() {
	require.Equal(ts.T(), http.StatusOK, ts.assignOfficer("P", 700, false).Code)
	require.Equal(ts.T(), http.StatusOK, ts.assignOfficer("P", 700, false).Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/officers/P/history", nil)
	w := httptest.NewRecorder()
	ts.API.handler.ServeHTTP(w, req)
	require.Equal(ts.T(), http.StatusOK, w.Code)

	resp := &OfficeHistoryResponse{}
	require.NoError(ts.T(), json.NewDecoder(w.Body).Decode(resp))
	require.Len(ts.T(), resp.Terms, 1)
	assert.Equal(ts.T(), 700, resp.Terms[0].HolderBadge)
}

func (ts *OfficersTestSuite) TestReplaceFallsBackWhenVacant() {
	// replace on a vacant office degrades to a fresh assignment
	require.Equal(ts.T(), http.StatusOK, ts.assignOfficer("BG", 701, true).Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/officers/BG/history", nil)
	w := httptest.NewRecorder()
	ts.API.handler.ServeHTTP(w, req)
	require.Equal(ts.T(), http.StatusOK, w.Code)

	resp := &OfficeHistoryResponse{}
	require.NoError(ts.T(), json.NewDecoder(w.Body).Decode(resp))
	require.Len(ts.T(), resp.Terms, 1)
	assert.Equal(ts.T(), 701, resp.Terms[0].HolderBadge)
	assert.Nil(ts.T(), resp.Terms[0].End)
}

func (ts *OfficersTestSuite) TestAssignRequiresAdmin() {
	var buffer bytes.Buffer
	require.NoError(ts.T(), json.NewEncoder(&buffer).Encode(&OfficerAssignParams{HolderBadge: 701}))

	req := httptest.NewRequest(http.MethodPut, "/v1/officers/GP", &buffer)
	req.Header.Set("Authorization", "Bearer "+ts.tokenFor(ts.Brother))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.API.handler.ServeHTTP(w, req)
	require.Equal(ts.T(), http.StatusForbidden, w.Code)
}

func (ts *OfficersTestSuite) TestUnknownOffice() {
	req := httptest.NewRequest(http.MethodGet, "/v1/officers/XYZ/history", nil)
	w := httptest.NewRecorder()
	ts.API.handler.ServeHTTP(w, req)
	require.Equal(ts.T(), http.StatusNotFound, w.Code)
}
