package models

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/chapterhq/lodge/internal/conf"
	"github.com/chapterhq/lodge/internal/storage"
	"github.com/chapterhq/lodge/internal/storage/test"
)

type MemberTestSuite struct {
	suite.Suite
	db     *storage.Connection
	config *conf.GlobalConfiguration
}

func (ts *MemberTestSuite) SetupTest() {
	TruncateAll(ts.db)
}

func TestMember(t *testing.T) {
	globalConfig, err := conf.LoadGlobal(modelsTestConfig)
	require.NoError(t, err)

	conn, err := test.SetupDBConnection(globalConfig)
	require.NoError(t, err)

	ts := &MemberTestSuite{
		db:     conn,
		config: globalConfig,
	}
	defer ts.db.Close()

	suite.Run(t, ts)
}

func (ts *MemberTestSuite) createMember(badge int) *Member {
	member, err := NewMember(badge, "John", "Stark", fmt.Sprintf("jstark%d@example.com", badge), "secretpass")
	require.NoError(ts.T(), err)
	require.NoError(ts.T(), CreateMember(ts.db, member))
	return member
}

func (ts *MemberTestSuite) TestCreateMemberSetsDefaultVisibility() {
	member := ts.createMember(700)

	public, err := FindVisibilityByID(ts.db, member.PublicVisibilityID)
	require.NoError(ts.T(), err)
	require.False(ts.T(), public.Email)
	require.False(ts.T(), public.FullName)

	chapter, err := FindVisibilityByID(ts.db, member.ChapterVisibilityID)
	require.NoError(ts.T(), err)
	require.True(ts.T(), chapter.Email)
	require.True(ts.T(), chapter.DOB)
}

func (ts *MemberTestSuite) TestCreateMemberJoinsUndergraduatesGroup() {
	member := ts.createMember(700)

	ok, err := IsMemberInGroup(ts.db, member, GroupUndergraduates)
	require.NoError(ts.T(), err)
	require.True(ts.T(), ok)
}

func (ts *MemberTestSuite) TestFindMemberByBadge() {
	ts.createMember(700)

	member, err := FindMemberByBadge(ts.db, 700)
	require.NoError(ts.T(), err)
	require.Equal(ts.T(), "jstark700@example.com", member.Email)

	_, err = FindMemberByBadge(ts.db, 999)
	require.Error(ts.T(), err)
	require.True(ts.T(), IsNotFoundError(err))
}

func (ts *MemberTestSuite) TestAuthenticate() {
	member := ts.createMember(700)

	require.True(ts.T(), member.Authenticate(context.Background(), "secretpass"))
	require.False(ts.T(), member.Authenticate(context.Background(), "wrong"))
}

func (ts *MemberTestSuite) TestStatusChangeMovesGroups() {
	member := ts.createMember(700)

	require.NoError(ts.T(), member.UpdateStatus(ts.db, StatusAlumnus))

	inUndergrads, err := IsMemberInGroup(ts.db, member, GroupUndergraduates)
	require.NoError(ts.T(), err)
	require.False(ts.T(), inUndergrads)

	inAlumni, err := IsMemberInGroup(ts.db, member, GroupAlumni)
	require.NoError(ts.T(), err)
	require.True(ts.T(), inAlumni)

	// out of town keeps the undergraduate grouping
	require.NoError(ts.T(), member.UpdateStatus(ts.db, StatusOutOfTown))
	inUndergrads, err = IsMemberInGroup(ts.db, member, GroupUndergraduates)
	require.NoError(ts.T(), err)
	require.True(ts.T(), inUndergrads)
}

func (ts *MemberTestSuite) TestFindMembersWithFlag() {
	member := ts.createMember(700)
	member.Flags = member.Flags.With(FlagEmailNewAnnouncement)
	require.NoError(ts.T(), member.UpdateFlags(ts.db))

	other := ts.createMember(701)
	_ = other

	subscribers, err := FindAnnouncementSubscribers(ts.db)
	require.NoError(ts.T(), err)
	require.Len(ts.T(), subscribers, 1)
	require.Equal(ts.T(), 700, subscribers[0].Badge)
}

func (ts *MemberTestSuite) TestFindLittleBrothers() {
	big := ts.createMember(600)

	little := ts.createMember(700)
	little.BigBrotherBadge = big.Badge
	require.NoError(ts.T(), ts.db.UpdateOnly(little, "big_brother_badge"))

	littles, err := FindLittleBrothers(ts.db, big.Badge)
	require.NoError(ts.T(), err)
	require.Len(ts.T(), littles, 1)
	require.Equal(ts.T(), 700, littles[0].Badge)
}

func TestValidateBigBrother(t *testing.T) {
	m := &Member{Badge: 100}

	require.NoError(t, m.ValidateBigBrother(0))
	require.NoError(t, m.ValidateBigBrother(99))
	require.Error(t, m.ValidateBigBrother(100), "self reference must be rejected")
	require.Error(t, m.ValidateBigBrother(101), "forward reference must be rejected")
	require.Error(t, m.ValidateBigBrother(-1))
}

func TestMemberNames(t *testing.T) {
	m := &Member{
		FirstName:  "William",
		MiddleName: "Alton",
		LastName:   "Parks",
		Suffix:     "Jr.",
		Nickname:   "Bill",
	}

	require.Equal(t, "William Alton Parks Jr.", m.FullName())
	require.Equal(t, "Bill", m.PreferredName())

	m.Nickname = ""
	require.Equal(t, "William", m.PreferredName())

	m.MiddleName = ""
	m.Suffix = ""
	require.Equal(t, "William Parks", m.FullName())
}

func (ts *MemberTestSuite) TestIsDuplicatedBadge() {
	ts.createMember(700)

	dup, err := IsDuplicatedBadge(ts.db, 700)
	require.NoError(ts.T(), err)
	require.True(ts.T(), dup)

	dup, err = IsDuplicatedBadge(ts.db, 701)
	require.NoError(ts.T(), err)
	require.False(ts.T(), dup)
}
