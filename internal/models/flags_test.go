package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemberFlags(t *testing.T) {
	var f MemberFlags

	require.False(t, f.IsLockedOut())

	f = f.With(FlagLockedOut)
	require.True(t, f.IsLockedOut())
	require.False(t, f.IsPasswordResetPending())

	f = f.With(FlagEmailNewAnnouncement).With(FlagEmailNewContact)
	require.True(t, f.WantsAnnouncementEmail())
	require.True(t, f.WantsContactEmail())
	require.False(t, f.WantsInfoCardEmail())

	f = f.Without(FlagLockedOut)
	require.False(t, f.IsLockedOut())
	require.True(t, f.WantsAnnouncementEmail())
}

func TestMemberFlagValues(t *testing.T) {
	require.EqualValues(t, 0x01, FlagLockedOut)
	require.EqualValues(t, 0x02, FlagPasswordReset)
	require.EqualValues(t, 0x04, FlagEmailNewInfoCard)
	require.EqualValues(t, 0x08, FlagEmailNewContact)
	require.EqualValues(t, 0x10, FlagEmailNewAnnouncement)
}
