package models

// IsNotFoundError returns whether an error represents a "not found" error.
func IsNotFoundError(err error) bool {
	switch err.(type) {
	case MemberNotFoundError, *MemberNotFoundError:
		return true
	case VisibilityNotFoundError, *VisibilityNotFoundError:
		return true
	case AnnouncementNotFoundError, *AnnouncementNotFoundError:
		return true
	case ForumNotFoundError, *ForumNotFoundError:
		return true
	case ThreadNotFoundError, *ThreadNotFoundError:
		return true
	case PostNotFoundError, *PostNotFoundError:
		return true
	case OfficerNotFoundError, *OfficerNotFoundError:
		return true
	case RushNotFoundError, *RushNotFoundError:
		return true
	case RushEventNotFoundError, *RushEventNotFoundError:
		return true
	case PotentialNotFoundError, *PotentialNotFoundError:
		return true
	case GroupNotFoundError, *GroupNotFoundError:
		return true
	case EmailChangeNotFoundError, *EmailChangeNotFoundError:
		return true
	case InformationCardNotFoundError, *InformationCardNotFoundError:
		return true
	}
	return false
}

// MemberNotFoundError represents when a member is not found.
type MemberNotFoundError struct{}

func (e MemberNotFoundError) Error() string {
	return "Member not found"
}

// VisibilityNotFoundError represents when a visibility settings record is not found.
type VisibilityNotFoundError struct{}

func (e VisibilityNotFoundError) Error() string {
	return "Visibility settings not found"
}

// AnnouncementNotFoundError represents when an announcement is not found.
type AnnouncementNotFoundError struct{}

func (e AnnouncementNotFoundError) Error() string {
	return "Announcement not found"
}

// ForumNotFoundError represents when a forum is not found.
type ForumNotFoundError struct{}

func (e ForumNotFoundError) Error() string {
	return "Forum not found"
}

// ThreadNotFoundError represents when a thread is not found.
type ThreadNotFoundError struct{}

func (e ThreadNotFoundError) Error() string {
	return "Thread not found"
}

// PostNotFoundError represents when a post is not found.
type PostNotFoundError struct{}

func (e PostNotFoundError) Error() string {
	return "Post not found"
}

// OfficerNotFoundError represents when no current holder exists for an office.
type OfficerNotFoundError struct{}

func (e OfficerNotFoundError) Error() string {
	return "Officer not found"
}

// RushNotFoundError represents when a rush is not found.
type RushNotFoundError struct{}

func (e RushNotFoundError) Error() string {
	return "Rush not found"
}

// RushEventNotFoundError represents when a rush event is not found.
type RushEventNotFoundError struct{}

func (e RushEventNotFoundError) Error() string {
	return "Rush event not found"
}

// PotentialNotFoundError represents when a potential member record is not found.
type PotentialNotFoundError struct{}

func (e PotentialNotFoundError) Error() string {
	return "Potential not found"
}

// GroupNotFoundError represents when a permission group is not found.
type GroupNotFoundError struct{}

func (e GroupNotFoundError) Error() string {
	return "Group not found"
}

// EmailChangeNotFoundError represents when an email change request is not found.
type EmailChangeNotFoundError struct{}

func (e EmailChangeNotFoundError) Error() string {
	return "Email change request not found"
}

// InformationCardNotFoundError represents when an information card is not found.
type InformationCardNotFoundError struct{}

func (e InformationCardNotFoundError) Error() string {
	return "Information card not found"
}
