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
)

type RegisterTestSuite struct {
	suite.Suite
	API    *API
	Config *conf.GlobalConfiguration
}

func TestRegister(t *testing.T) {
	api, config, err := setupAPIForTest()
	require.NoError(t, err)

	ts := &RegisterTestSuite{
		API:    api,
		Config: config,
	}
	defer api.db.Close()

	suite.Run(t, ts)
}

func (ts *RegisterTestSuite) SetupTest() {
	models.TruncateAll(ts.API.db)
}

func (ts *RegisterTestSuite) register(body map[string]interface{}) *httptest.ResponseRecorder {
	var buffer bytes.Buffer
	require.NoError(ts.T(), json.NewEncoder(&buffer).Encode(body))

	req := httptest.NewRequest(http.MethodPost, "/register", &buffer)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	ts.API.handler.ServeHTTP(w, req)
	return w
}

func (ts *RegisterTestSuite) TestRegisterCreatesMember() {
	w := ts.register(map[string]interface{}{
		"badge":            700,
		"first_name":       "Jacob",
		"last_name":        "Stark",
		"email":            "jstark@example.com",
		"password":         "secret123",
		"registration_key": "lodge-secret",
	})
	require.Equal(ts.T(), http.StatusCreated, w.Code)

	m, err := models.FindMemberByBadge(ts.API.db, 700)
	require.NoError(ts.T(), err)
	assert.Equal(ts.T(), "jstark@example.com", m.Email)
	assert.Equal(ts.T(), models.StatusUndergraduate, m.Status)
	assert.False(ts.T(), m.IsAdmin)

	// default visibility: public hides everything, chapter shows everything
	public, err := models.FindVisibilityByID(ts.API.db, m.PublicVisibilityID)
	require.NoError(ts.T(), err)
	assert.False(ts.T(), public.Email)

	chapter, err := models.FindVisibilityByID(ts.API.db, m.ChapterVisibilityID)
	require.NoError(ts.T(), err)
	assert.True(ts.T(), chapter.Email)
}

func (ts *RegisterTestSuite) TestRegisterBadKey() {
	w := ts.register(map[string]interface{}{
		"badge":            700,
		"first_name":       "Jacob",
		"last_name":        "Stark",
		"email":            "jstark@example.com",
		"password":         "secret123",
		"registration_key": "not-the-secret",
	})
	require.Equal(ts.T(), http.StatusForbidden, w.Code)

	data := map[string]interface{}{}
	require.NoError(ts.T(), json.NewDecoder(w.Body).Decode(&data))
	assert.Equal(ts.T(), ErrorCodeBadRegistrationKey, data["error_code"])
}

func (ts *RegisterTestSuite) TestRegisterAdminKey() {
	w := ts.register(map[string]interface{}{
		"badge":            700,
		"first_name":       "Jacob",
		"last_name":        "Stark",
		"email":            "jstark@example.com",
		"password":         "secret123",
		"registration_key": "lodge-secret",
		"admin_key":        "lodge-admin-secret",
	})
	require.Equal(ts.T(), http.StatusCreated, w.Code)

	m, err := models.FindMemberByBadge(ts.API.db, 700)
	require.NoError(ts.T(), err)
	assert.True(ts.T(), m.IsAdmin)
}

func (ts *RegisterTestSuite) TestRegisterDuplicateBadge() {
	m, err := models.NewMember(700, "Jacob", "Stark", "jstark@example.com", "password1")
	require.NoError(ts.T(), err)
	require.NoError(ts.T(), models.CreateMember(ts.API.db, m))

	w := ts.register(map[string]interface{}{
		"badge":            700,
		"first_name":       "Aaron",
		"last_name":        "Reed",
		"email":            "areed@example.com",
		"password":         "secret123",
		"registration_key": "lodge-secret",
	})
	require.Equal(ts.T(), http.StatusUnprocessableEntity, w.Code)

	data := map[string]interface{}{}
	require.NoError(ts.T(), json.NewDecoder(w.Body).Decode(&data))
	assert.Equal(ts.T(), ErrorCodeBadgeExists, data["error_code"])
}

func (ts *RegisterTestSuite) TestRegisterShortPassword() {
	w := ts.register(map[string]interface{}{
		"badge":            700,
		"first_name":       "Jacob",
		"last_name":        "Stark",
		"email":            "jstark@example.com",
		"password":         "short",
		"registration_key": "lodge-secret",
	})
	require.Equal(ts.T(), http.StatusUnprocessableEntity, w.Code)

	data := map[string]interface{}{}
	require.NoError(ts.T(), json.NewDecoder(w.Body).Decode(&data))
	assert.Equal(ts.T(), ErrorCodeWeakPassword, data["error_code"])
}

func (ts *RegisterTestSuite) TestRegisterBigBrotherMustPrecede() {
	w := ts.register(map[string]interface{}{
		"badge":            700,
		"first_name":       "Jacob",
		"last_name":        "Stark",
		"email":            "jstark@example.com",
		"password":         "secret123",
		"registration_key": "lodge-secret",
		"big_brother":      701,
	})
	require.Equal(ts.T(), http.StatusBadRequest, w.Code)
}
