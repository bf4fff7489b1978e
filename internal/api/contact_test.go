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

type ContactTestSuite struct {
	suite.Suite
	API    *API
	Config *conf.GlobalConfiguration
}

func TestContact(t *testing.T) {
	api, config, err := setupAPIForTest()
	require.NoError(t, err)

	ts := &ContactTestSuite{
		API:    api,
		Config: config,
	}
	defer api.db.Close()

	suite.Run(t, ts)
}

func (ts *ContactTestSuite) SetupTest() {
	models.TruncateAll(ts.API.db)
}

func (ts *ContactTestSuite) submit(path string, body interface{}) *httptest.ResponseRecorder {
	var buffer bytes.Buffer
	require.NoError(ts.T(), json.NewEncoder(&buffer).Encode(body))

	req := httptest.NewRequest(http.MethodPost, path, &buffer)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.API.handler.ServeHTTP(w, req)
	return w
}

func (ts *ContactTestSuite) TestContactFormRecorded() {
	w := ts.submit("/v1/chapter/contact", &ContactParams{
		Name:    "Pat Doyle",
		Email:   "pdoyle@example.com",
		Message: "Interested in renting the house for an alumni event.",
	})
	require.Equal(ts.T(), http.StatusCreated, w.Code)

	record := &models.ContactRecord{}
	require.NoError(ts.T(), json.NewDecoder(w.Body).Decode(record))
	assert.Equal(ts.T(), "Pat Doyle", record.Name)

	found, err := models.FindContactRecords(ts.API.db)
	require.NoError(ts.T(), err)
	require.Len(ts.T(), found, 1)
}

func (ts *ContactTestSuite) TestContactFormValidation() {
	w := ts.submit("/v1/chapter/contact", &ContactParams{
		Name:  "No Message",
		Email: "not-an-email",
	})
	require.Equal(ts.T(), http.StatusBadRequest, w.Code)
}

func (ts *ContactTestSuite) TestInfoCardRecorded() {
	w := ts.submit("/v1/rush/infocard", &InfoCardParams{
		Name:      "Sam Porter",
		Email:     "sporter@example.com",
		Year:      string(models.YearSophomore),
		Interests: "Intramurals, robotics",
		Subscribe: true,
	})
	require.Equal(ts.T(), http.StatusCreated, w.Code)

	card := &models.InformationCard{}
	require.NoError(ts.T(), json.NewDecoder(w.Body).Decode(card))
	assert.Equal(ts.T(), models.YearSophomore, card.Year)
	assert.True(ts.T(), card.Subscribe)
}

func (ts *ContactTestSuite) TestInfoCardYearDefaultsToIncomingFreshman() {
	w := ts.submit("/v1/rush/infocard", &InfoCardParams{
		Name:  "Sam Porter",
		Email: "sporter@example.com",
	})
	require.Equal(ts.T(), http.StatusCreated, w.Code)

	card := &models.InformationCard{}
	require.NoError(ts.T(), json.NewDecoder(w.Body).Decode(card))
	assert.Equal(ts.T(), models.YearIncomingFreshman, card.Year)
}

func (ts *ContactTestSuite) TestInfoCardRejectsUnknownYear() {
	w := ts.submit("/v1/rush/infocard", &InfoCardParams{
		Name:  "Sam Porter",
		Email: "sporter@example.com",
		Year:  "PHD",
	})
	require.Equal(ts.T(), http.StatusBadRequest, w.Code)
}

func (ts *ContactTestSuite) TestReviewListsRequireAuth() {
	req := httptest.NewRequest(http.MethodGet, "/v1/chapter/contacts", nil)
	w := httptest.NewRecorder()
	ts.API.handler.ServeHTTP(w, req)
	require.Equal(ts.T(), http.StatusUnauthorized, w.Code)

	data := map[string]interface{}{}
	require.NoError(ts.T(), json.NewDecoder(w.Body).Decode(&data))
	require.Equal(ts.T(), ErrorCodeNoAuthorization, data["error_code"])

	member, err := models.NewMember(700, "Jacob", "Stark", "jstark@example.com", "password")
	require.NoError(ts.T(), err)
	require.NoError(ts.T(), models.CreateMember(ts.API.db, member))

	var token string
	err = ts.API.db.Transaction(func(tx *storage.Connection) error {
		var terr error
		token, _, terr = ts.API.generateAccessToken(tx, member)
		return terr
	})
	require.NoError(ts.T(), err)

	req = httptest.NewRequest(http.MethodGet, "/v1/chapter/contacts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	ts.API.handler.ServeHTTP(w, req)
	require.Equal(ts.T(), http.StatusOK, w.Code)
}
