package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/chapterhq/lodge/internal/conf"
	"github.com/chapterhq/lodge/internal/storage"
	"github.com/chapterhq/lodge/internal/storage/test"
)

type OfficerTestSuite struct {
	suite.Suite
	db     *storage.Connection
	config *conf.GlobalConfiguration
}

func (ts *OfficerTestSuite) SetupTest() {
	TruncateAll(ts.db)
}

func TestOfficer(t *testing.T) {
	globalConfig, err := conf.LoadGlobal(modelsTestConfig)
	require.NoError(t, err)

	conn, err := test.SetupDBConnection(globalConfig)
	require.NoError(t, err)

	ts := &OfficerTestSuite{
		db:     conn,
		config: globalConfig,
	}
	defer ts.db.Close()

	suite.Run(t, ts)
}

func (ts *OfficerTestSuite) TestAssignVacantOffice() {
	today := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

	officer, err := AssignOfficer(ts.db, OfficePresident, 10, today)
	require.NoError(ts.T(), err)
	require.Equal(ts.T(), OfficePresident, officer.Office)
	require.Equal(ts.T(), 10, officer.HolderBadge)
	require.Equal(ts.T(), today, officer.Updated.UTC())

	count, err := ts.db.Q().Count(&OfficerHistory{})
	require.NoError(ts.T(), err)
	require.Equal(ts.T(), 0, count)
}

func (ts *OfficerTestSuite) TestReassignmentArchivesOutgoingHolder() {
	start := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	today := time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)

	first, err := AssignOfficer(ts.db, OfficePresident, 10, start)
	require.NoError(ts.T(), err)

	second, err := AssignOfficer(ts.db, OfficePresident, 12, today)
	require.NoError(ts.T(), err)

	// the row identity survives the holder change
	require.Equal(ts.T(), first.ID, second.ID)
	require.Equal(ts.T(), 12, second.HolderBadge)
	require.Equal(ts.T(), today, second.Updated.UTC())

	history := []*OfficerHistory{}
	require.NoError(ts.T(), ts.db.Q().All(&history))
	require.Len(ts.T(), history, 1)
	require.Equal(ts.T(), OfficePresident, history[0].Office)
	require.Equal(ts.T(), 10, history[0].HolderBadge)
	require.Equal(ts.T(), start, history[0].Start.UTC())
	require.Equal(ts.T(), today, history[0].End.UTC())
}

func (ts *OfficerTestSuite) TestReassignSameHolderIsNoOp() {
	start := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	today := time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)

	_, err := AssignOfficer(ts.db, OfficePresident, 10, start)
	require.NoError(ts.T(), err)

	officer, err := AssignOfficer(ts.db, OfficePresident, 10, today)
	require.NoError(ts.T(), err)
	require.Equal(ts.T(), 10, officer.HolderBadge)
	require.Equal(ts.T(), start, officer.Updated.UTC(), "updated date must not change on a no-op")

	count, err := ts.db.Q().Count(&OfficerHistory{})
	require.NoError(ts.T(), err)
	require.Equal(ts.T(), 0, count)
}

func (ts *OfficerTestSuite) TestAssignInvalidOffice() {
	_, err := AssignOfficer(ts.db, Office("XYZ"), 10, time.Now())
	require.Error(ts.T(), err)
}

func (ts *OfficerTestSuite) TestReplaceOfficerFallsBackWhenVacant() {
	today := time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)

	officer, err := ReplaceOfficer(ts.db, OfficeTreasurer, 42, today)
	require.NoError(ts.T(), err)
	require.Equal(ts.T(), 42, officer.HolderBadge)

	count, err := ts.db.Q().Count(&OfficerHistory{})
	require.NoError(ts.T(), err)
	require.Equal(ts.T(), 0, count)
}

func (ts *OfficerTestSuite) TestOfficeHistory() {
	base := time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 12; i++ {
		_, err := AssignOfficer(ts.db, OfficePresident, 100+i, base.AddDate(i, 0, 0))
		require.NoError(ts.T(), err)
	}

	terms, hasMore, err := OfficeHistory(ts.db, OfficePresident, false)
	require.NoError(ts.T(), err)
	require.True(ts.T(), hasMore)
	// current holder plus the capped past terms
	require.Len(ts.T(), terms, 10)

	require.Equal(ts.T(), 111, terms[0].HolderBadge)
	require.Nil(ts.T(), terms[0].End)

	// past holders by end date descending
	require.Equal(ts.T(), 110, terms[1].HolderBadge)
	require.NotNil(ts.T(), terms[1].End)
	require.Equal(ts.T(), 102, terms[9].HolderBadge)

	all, hasMore, err := OfficeHistory(ts.db, OfficePresident, true)
	require.NoError(ts.T(), err)
	require.False(ts.T(), hasMore)
	require.Len(ts.T(), all, 12)
}
