package models

// MemberFlags is a set of per-member status and notification flags, stored
// as a single integer column.
type MemberFlags int64

const (
	// FlagLockedOut marks an account disabled after repeated failed sign-ins.
	FlagLockedOut MemberFlags = 1 << iota
	// FlagPasswordReset marks an account with a pending administrative
	// password reset.
	FlagPasswordReset
	// FlagEmailNewInfoCard opts the member into emails about new
	// information card submissions.
	FlagEmailNewInfoCard
	// FlagEmailNewContact opts the member into emails about new contact
	// form submissions.
	FlagEmailNewContact
	// FlagEmailNewAnnouncement opts the member into emails about new
	// announcements.
	FlagEmailNewAnnouncement
)

func (f MemberFlags) Has(flag MemberFlags) bool {
	return f&flag != 0
}

func (f MemberFlags) With(flag MemberFlags) MemberFlags {
	return f | flag
}

func (f MemberFlags) Without(flag MemberFlags) MemberFlags {
	return f &^ flag
}

func (f MemberFlags) IsLockedOut() bool {
	return f.Has(FlagLockedOut)
}

func (f MemberFlags) IsPasswordResetPending() bool {
	return f.Has(FlagPasswordReset)
}

func (f MemberFlags) WantsInfoCardEmail() bool {
	return f.Has(FlagEmailNewInfoCard)
}

func (f MemberFlags) WantsContactEmail() bool {
	return f.Has(FlagEmailNewContact)
}

func (f MemberFlags) WantsAnnouncementEmail() bool {
	return f.Has(FlagEmailNewAnnouncement)
}
