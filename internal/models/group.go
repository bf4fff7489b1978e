package models

import (
	"database/sql"
	"time"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"

	"github.com/chapterhq/lodge/internal/storage"
)

// Built-in group names. Status changes move members between the
// Undergraduates and Alumni groups.
const (
	GroupUndergraduates = "Undergraduates"
	GroupAlumni         = "Alumni"
	GroupAdministrators = "Administrators"
)

// Group is a named permission group.
type Group struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`

	// Permissions is a comma separated list of permission codes granted
	// to the group's members.
	Permissions string `json:"permissions" db:"permissions"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName overrides the table name used by pop
func (Group) TableName() string {
	tableName := "groups"
	return tableName
}

// GroupMembership links a member to a group.
type GroupMembership struct {
	ID       uuid.UUID `json:"id" db:"id"`
	GroupID  uuid.UUID `json:"group_id" db:"group_id"`
	MemberID uuid.UUID `json:"member_id" db:"member_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName overrides the table name used by pop
func (GroupMembership) TableName() string {
	tableName := "group_memberships"
	return tableName
}

// FindGroupByName finds a group with the matching name.
func FindGroupByName(tx *storage.Connection, name string) (*Group, error) {
	obj := &Group{}
	if err := tx.Q().Where("name = ?", name).First(obj); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return nil, GroupNotFoundError{}
		}
		return nil, errors.Wrap(err, "error finding group")
	}

	return obj, nil
}

func findOrCreateGroup(tx *storage.Connection, name string) (*Group, error) {
	group, err := FindGroupByName(tx, name)
	if err == nil {
		return group, nil
	}
	if !IsNotFoundError(err) {
		return nil, err
	}

	group = &Group{
		ID:   uuid.Must(uuid.NewV4()),
		Name: name,
	}
	if err := tx.Create(group); err != nil {
		return nil, errors.Wrap(err, "error creating group")
	}
	return group, nil
}

// AddMemberToGroup adds the member to the named group, creating the group
// if needed. Adding twice is a no-op.
func AddMemberToGroup(tx *storage.Connection, member *Member, name string) error {
	group, err := findOrCreateGroup(tx, name)
	if err != nil {
		return err
	}

	count, err := tx.Q().Where("group_id = ? and member_id = ?", group.ID, member.ID).Count(&GroupMembership{})
	if err != nil {
		return errors.Wrap(err, "error checking group membership")
	}
	if count > 0 {
		return nil
	}

	membership := &GroupMembership{
		ID:       uuid.Must(uuid.NewV4()),
		GroupID:  group.ID,
		MemberID: member.ID,
	}
	return errors.Wrap(tx.Create(membership), "error adding member to group")
}

// RemoveMemberFromGroup removes the member from the named group. Removing a
// member who is not in the group is a no-op.
func RemoveMemberFromGroup(tx *storage.Connection, member *Member, name string) error {
	group, err := FindGroupByName(tx, name)
	if err != nil {
		if IsNotFoundError(err) {
			return nil
		}
		return err
	}

	return errors.Wrap(
		tx.RawQuery("DELETE FROM "+(&GroupMembership{}).TableName()+" WHERE group_id = ? AND member_id = ?", group.ID, member.ID).Exec(),
		"error removing member from group")
}

// IsMemberInGroup reports whether the member belongs to the named group.
func IsMemberInGroup(tx *storage.Connection, member *Member, name string) (bool, error) {
	group, err := FindGroupByName(tx, name)
	if err != nil {
		if IsNotFoundError(err) {
			return false, nil
		}
		return false, err
	}

	count, err := tx.Q().Where("group_id = ? and member_id = ?", group.ID, member.ID).Count(&GroupMembership{})
	if err != nil {
		return false, errors.Wrap(err, "error checking group membership")
	}
	return count > 0, nil
}

// FindGroupNamesForMember returns the names of every group the member
// belongs to.
func FindGroupNamesForMember(tx *storage.Connection, member *Member) ([]string, error) {
	groups := []*Group{}
	err := tx.RawQuery(
		"SELECT g.* FROM "+(&Group{}).TableName()+" g JOIN "+(&GroupMembership{}).TableName()+" gm ON gm.group_id = g.id WHERE gm.member_id = ? ORDER BY g.name",
		member.ID).All(&groups)
	if err != nil {
		return nil, errors.Wrap(err, "error finding member groups")
	}

	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.Name)
	}
	return names, nil
}

// processStatusChange moves a member between the Undergraduates and Alumni
// groups when the chapter status changes. The out of town status keeps the
// undergraduate grouping.
func processStatusChange(tx *storage.Connection, member *Member, oldStatus, newStatus MemberStatus) error {
	if groupForStatus(oldStatus) == groupForStatus(newStatus) {
		return nil
	}

	if err := RemoveMemberFromGroup(tx, member, groupForStatus(oldStatus)); err != nil {
		return err
	}
	return AddMemberToGroup(tx, member, groupForStatus(newStatus))
}

func groupForStatus(status MemberStatus) string {
	if status == StatusAlumnus {
		return GroupAlumni
	}
	return GroupUndergraduates
}
