package models

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"

	"github.com/chapterhq/lodge/internal/crypto"
	"github.com/chapterhq/lodge/internal/storage"
)

type MemberStatus string

const (
	StatusUndergraduate MemberStatus = "U"
	StatusOutOfTown     MemberStatus = "O"
	StatusAlumnus       MemberStatus = "A"
)

func (s MemberStatus) Valid() bool {
	switch s {
	case StatusUndergraduate, StatusOutOfTown, StatusAlumnus:
		return true
	}
	return false
}

func (s MemberStatus) Label() string {
	switch s {
	case StatusUndergraduate:
		return "Undergraduate"
	case StatusOutOfTown:
		return "Out of town"
	case StatusAlumnus:
		return "Alumnus"
	}
	return string(s)
}

// Member represents one initiated brother tracked by the chapter, with
// profile data and account credentials.
type Member struct {
	ID uuid.UUID `json:"id" db:"id"`

	Badge int `json:"badge" db:"badge"`

	FirstName  string             `json:"first_name" db:"first_name"`
	MiddleName storage.NullString `json:"middle_name" db:"middle_name"`
	LastName   string             `json:"last_name" db:"last_name"`
	Suffix     storage.NullString `json:"suffix" db:"suffix"`
	Nickname   storage.NullString `json:"nickname" db:"nickname"`

	Email             string  `json:"email" db:"email"`
	EncryptedPassword *string `json:"-" db:"encrypted_password"`

	Status MemberStatus `json:"status" db:"status"`

	// BigBrotherBadge is the sponsoring member's badge number, 0 for none.
	BigBrotherBadge int `json:"big_brother" db:"big_brother_badge"`

	Major       storage.NullString `json:"major" db:"major"`
	Hometown    storage.NullString `json:"hometown" db:"hometown"`
	CurrentCity storage.NullString `json:"current_city" db:"current_city"`
	Initiation  *time.Time         `json:"initiation,omitempty" db:"initiation"`
	Graduation  *time.Time         `json:"graduation,omitempty" db:"graduation"`
	DateOfBirth *time.Time         `json:"dob,omitempty" db:"dob"`
	Phone       storage.NullString `json:"phone" db:"phone"`

	Flags MemberFlags `json:"-" db:"flags"`

	// FailedAttempts counts consecutive failed sign-ins; it resets on a
	// successful sign-in or an administrative unlock.
	FailedAttempts int `json:"-" db:"failed_attempts"`

	PublicVisibilityID  uuid.UUID `json:"-" db:"public_visibility_id"`
	ChapterVisibilityID uuid.UUID `json:"-" db:"chapter_visibility_id"`

	PublicVisibility  *VisibilitySettings `json:"-" belongs_to:"visibility_settings" fk_id:"public_visibility_id"`
	ChapterVisibility *VisibilitySettings `json:"-" belongs_to:"visibility_settings" fk_id:"chapter_visibility_id"`

	IsAdmin bool `json:"is_admin" db:"is_admin"`

	LastSignInAt *time.Time `json:"last_sign_in_at,omitempty" db:"last_sign_in_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName overrides the table name used by pop
func (Member) TableName() string {
	tableName := "members"
	return tableName
}

// NewMember initializes a new member from a badge, name, email and password.
// The caller is responsible for persisting it along with its two visibility
// settings records via CreateMember.
func NewMember(badge int, firstName, lastName, email, password string) (*Member, error) {
	passwordHash := ""

	if password != "" {
		pw, err := crypto.GenerateFromPassword(context.Background(), password)
		if err != nil {
			return nil, err
		}

		passwordHash = pw
	}

	id := uuid.Must(uuid.NewV4())
	member := &Member{
		ID:                id,
		Badge:             badge,
		FirstName:         firstName,
		LastName:          lastName,
		Email:             strings.ToLower(email),
		EncryptedPassword: &passwordHash,
		Status:            StatusUndergraduate,
	}
	return member, nil
}

// CreateMember persists a member together with its default visibility
// settings, all in one transaction. Public settings hide everything,
// chapter settings reveal everything.
func CreateMember(conn *storage.Connection, member *Member) error {
	return conn.Transaction(func(tx *storage.Connection) error {
		public := NewPublicVisibility()
		chapter := NewChapterVisibility()

		if err := tx.Create(public); err != nil {
			return errors.Wrap(err, "error creating public visibility settings")
		}
		if err := tx.Create(chapter); err != nil {
			return errors.Wrap(err, "error creating chapter visibility settings")
		}

		member.PublicVisibilityID = public.ID
		member.ChapterVisibilityID = chapter.ID
		member.PublicVisibility = public
		member.ChapterVisibility = chapter

		if err := tx.Create(member); err != nil {
			return errors.Wrap(err, "error creating member")
		}

		group := GroupUndergraduates
		if member.Status == StatusAlumnus {
			group = GroupAlumni
		}
		return AddMemberToGroup(tx, member, group)
	})
}

func (m *Member) FullName() string {
	parts := []string{m.FirstName}
	if middle := string(m.MiddleName); middle != "" {
		parts = append(parts, middle)
	}
	parts = append(parts, m.LastName)
	name := strings.Join(parts, " ")
	if suffix := string(m.Suffix); suffix != "" {
		name += " " + suffix
	}
	return name
}

// PreferredName returns the name the member goes by, preferring nickname
// over first name.
func (m *Member) PreferredName() string {
	if nick := string(m.Nickname); nick != "" {
		return nick
	}
	return m.FirstName
}

func (m *Member) HasPassword() bool {
	var pwd string

	if m.EncryptedPassword != nil {
		pwd = *m.EncryptedPassword
	}

	return pwd != ""
}

// Authenticate a member from a password
func (m *Member) Authenticate(ctx context.Context, password string) bool {
	if !m.HasPassword() {
		return false
	}
	return crypto.CompareHashAndPassword(ctx, *m.EncryptedPassword, password) == nil
}

// SetPassword sets the encrypted password field of the member object
func (m *Member) SetPassword(ctx context.Context, password string) error {
	pw, err := crypto.GenerateFromPassword(ctx, password)
	if err != nil {
		return err
	}

	m.EncryptedPassword = &pw
	return nil
}

// UpdatePassword persists the member's new password hash and clears any
// pending password reset flag.
func (m *Member) UpdatePassword(tx *storage.Connection) error {
	m.Flags = m.Flags.Without(FlagPasswordReset)
	return tx.UpdateOnly(m, "encrypted_password", "flags")
}

// UpdateTemporaryPassword persists an administrative password reset: the
// temporary hash plus the pending-reset flag, which lets the member change
// the password without presenting the temporary one.
func (m *Member) UpdateTemporaryPassword(tx *storage.Connection) error {
	m.Flags = m.Flags.With(FlagPasswordReset)
	return tx.UpdateOnly(m, "encrypted_password", "flags")
}

// UpdateFlags persists the member's flags column.
func (m *Member) UpdateFlags(tx *storage.Connection) error {
	return tx.UpdateOnly(m, "flags")
}

// UpdateLastSignInAt updates the last_sign_in_at column. A successful
// sign-in also clears the consecutive-failure count.
func (m *Member) UpdateLastSignInAt(tx *storage.Connection) error {
	now := time.Now()
	m.LastSignInAt = &now
	m.FailedAttempts = 0
	return tx.UpdateOnly(m, "last_sign_in_at", "failed_attempts")
}

// RecordSignInFailure bumps the consecutive-failure count and locks the
// account once the count reaches max.
func (m *Member) RecordSignInFailure(tx *storage.Connection, max int) error {
	m.FailedAttempts++
	if m.FailedAttempts >= max {
		m.Flags = m.Flags.With(FlagLockedOut)
	}
	return tx.UpdateOnly(m, "failed_attempts", "flags")
}

// Unlock clears the lockout flag along with the failure count that
// triggered it.
func (m *Member) Unlock(tx *storage.Connection) error {
	m.Flags = m.Flags.Without(FlagLockedOut)
	m.FailedAttempts = 0
	return tx.UpdateOnly(m, "flags", "failed_attempts")
}

// ValidateBigBrother checks the sponsor reference. A sponsor must have been
// initiated earlier, so their badge is strictly lower, and a member cannot
// sponsor themselves. 0 means no sponsor and is always valid.
func (m *Member) ValidateBigBrother(badge int) error {
	if badge == 0 {
		return nil
	}
	if badge < 0 {
		return errors.New("big brother badge must be a positive number")
	}
	if badge == m.Badge {
		return errors.New("a brother cannot be his own big brother")
	}
	if badge > m.Badge {
		return errors.New("big brother badge must be lower than the member's badge")
	}
	return nil
}

// UpdateStatus changes the member's chapter status and moves the member
// between the Undergraduates and Alumni groups accordingly. A no-op when
// the status is unchanged.
func (m *Member) UpdateStatus(tx *storage.Connection, newStatus MemberStatus) error {
	if newStatus == m.Status {
		return nil
	}
	if !newStatus.Valid() {
		return errors.Errorf("invalid member status %q", newStatus)
	}

	oldStatus := m.Status
	m.Status = newStatus
	if err := tx.UpdateOnly(m, "status"); err != nil {
		return errors.Wrap(err, "error updating member status")
	}

	return processStatusChange(tx, m, oldStatus, newStatus)
}

func findMember(tx *storage.Connection, query string, args ...interface{}) (*Member, error) {
	obj := &Member{}
	if err := tx.Eager().Q().Where(query, args...).First(obj); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return nil, MemberNotFoundError{}
		}
		return nil, errors.Wrap(err, "error finding member")
	}

	return obj, nil
}

// FindMemberByID finds a member matching the provided ID.
func FindMemberByID(tx *storage.Connection, id uuid.UUID) (*Member, error) {
	return findMember(tx, "id = ?", id)
}

// FindMemberByBadge finds a member matching the provided badge number.
func FindMemberByBadge(tx *storage.Connection, badge int) (*Member, error) {
	return findMember(tx, "badge = ?", badge)
}

// FindMemberByEmail finds a member with the matching email.
func FindMemberByEmail(tx *storage.Connection, email string) (*Member, error) {
	return findMember(tx, "LOWER(email) = ?", strings.ToLower(email))
}

// IsDuplicatedBadge returns whether a member already holds the badge number.
func IsDuplicatedBadge(tx *storage.Connection, badge int) (bool, error) {
	_, err := FindMemberByBadge(tx, badge)
	if err != nil {
		if IsNotFoundError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// FindMembersByStatus returns all members with the given status, ordered by
// badge ascending.
func FindMembersByStatus(tx *storage.Connection, status MemberStatus) ([]*Member, error) {
	members := []*Member{}
	if err := tx.Q().Where("status = ?", status).Order("badge asc").All(&members); err != nil {
		return nil, errors.Wrap(err, "error finding members")
	}
	return members, nil
}

// FindAllMembers returns every member, ordered by badge ascending, with
// pagination when pageParams is non-nil.
func FindAllMembers(tx *storage.Connection, pageParams *Pagination) ([]*Member, error) {
	members := []*Member{}
	q := tx.Q().Order("badge asc")

	var err error
	if pageParams != nil {
		err = q.Paginate(int(pageParams.Page), int(pageParams.PerPage)).All(&members)
		pageParams.Count = uint64(q.Paginator.TotalEntriesSize)
	} else {
		err = q.All(&members)
	}

	if err != nil {
		return nil, errors.Wrap(err, "error finding members")
	}
	return members, nil
}

// FindLittleBrothers returns the members sponsored by the given badge,
// ordered by badge ascending.
func FindLittleBrothers(tx *storage.Connection, badge int) ([]*Member, error) {
	members := []*Member{}
	if err := tx.Q().Where("big_brother_badge = ?", badge).Order("badge asc").All(&members); err != nil {
		return nil, errors.Wrap(err, "error finding little brothers")
	}
	return members, nil
}

// FindAnnouncementSubscribers returns the members who opted into
// announcement notification emails.
func FindAnnouncementSubscribers(tx *storage.Connection) ([]*Member, error) {
	return findMembersWithFlag(tx, FlagEmailNewAnnouncement)
}

// FindInfoCardSubscribers returns the members who opted into information
// card notification emails.
func FindInfoCardSubscribers(tx *storage.Connection) ([]*Member, error) {
	return findMembersWithFlag(tx, FlagEmailNewInfoCard)
}

// FindContactSubscribers returns the members who opted into contact form
// notification emails.
func FindContactSubscribers(tx *storage.Connection) ([]*Member, error) {
	return findMembersWithFlag(tx, FlagEmailNewContact)
}

func findMembersWithFlag(tx *storage.Connection, flag MemberFlags) ([]*Member, error) {
	members := []*Member{}
	if err := tx.Q().Where("flags & ? != 0", int64(flag)).Order("badge asc").All(&members); err != nil {
		return nil, errors.Wrap(err, "error finding members by flag")
	}
	return members, nil
}
