package models

// Field labels the disclosure engine can emit, in display order.
const (
	FieldFullName    = "Full name"
	FieldBigBrother  = "Big brother"
	FieldMajor       = "Major"
	FieldInitiation  = "Initiation"
	FieldGraduation  = "Graduation"
	FieldHometown    = "Hometown"
	FieldCurrentCity = "Current city"
	FieldDateOfBirth = "Date of birth"
	FieldPhone       = "Phone"
	FieldEmail       = "Email"
)

// DisclosedFields returns the labels of the profile fields the member has
// provided and, when vis is non-nil, has marked visible on that channel.
//
// A nil vis means "show everything non-empty": the owner's own view and the
// admin view. "Full name" covers the middle name and nickname, since first
// and last name are always shown elsewhere. Email has no emptiness check
// because every member has one.
func DisclosedFields(m *Member, vis *VisibilitySettings) []string {
	fields := []string{}
	if (string(m.MiddleName) != "" || string(m.Nickname) != "") && (vis == nil || vis.FullName) {
		fields = append(fields, FieldFullName)
	}

	// chapter information
	if m.BigBrotherBadge > 0 && (vis == nil || vis.BigBrother) {
		fields = append(fields, FieldBigBrother)
	}
	if string(m.Major) != "" && (vis == nil || vis.Major) {
		fields = append(fields, FieldMajor)
	}
	if m.Initiation != nil && (vis == nil || vis.Initiation) {
		fields = append(fields, FieldInitiation)
	}
	if m.Graduation != nil && (vis == nil || vis.Graduation) {
		fields = append(fields, FieldGraduation)
	}

	// personal information
	if string(m.Hometown) != "" && (vis == nil || vis.Hometown) {
		fields = append(fields, FieldHometown)
	}
	if string(m.CurrentCity) != "" && (vis == nil || vis.CurrentCity) {
		fields = append(fields, FieldCurrentCity)
	}
	if m.DateOfBirth != nil && (vis == nil || vis.DOB) {
		fields = append(fields, FieldDateOfBirth)
	}

	// contact information
	if string(m.Phone) != "" && (vis == nil || vis.Phone) {
		fields = append(fields, FieldPhone)
	}
	if vis == nil || vis.Email {
		fields = append(fields, FieldEmail)
	}

	return fields
}

var (
	chapterFieldSet = map[string]bool{
		FieldBigBrother: true,
		FieldMajor:      true,
		FieldInitiation: true,
		FieldGraduation: true,
	}
	personalFieldSet = map[string]bool{
		FieldHometown:    true,
		FieldCurrentCity: true,
		FieldDateOfBirth: true,
	}
	contactFieldSet = map[string]bool{
		FieldPhone: true,
		FieldEmail: true,
	}
)

// FieldCategories counts how many of the given disclosed fields fall into
// each of the chapter, personal and contact information categories. The
// "Full name" label belongs to none of the three.
func FieldCategories(fields []string) (chapter, personal, contact int) {
	for _, f := range fields {
		switch {
		case chapterFieldSet[f]:
			chapter++
		case personalFieldSet[f]:
			personal++
		case contactFieldSet[f]:
			contact++
		}
	}
	return chapter, personal, contact
}

// VisibilityForViewer selects which visibility settings apply when viewer
// looks at the member's profile. A nil viewer is an anonymous visitor and
// gets the public channel. The owner and admins see everything.
func VisibilityForViewer(m *Member, viewer *Member, forcePublic bool) *VisibilitySettings {
	if forcePublic || viewer == nil {
		return m.PublicVisibility
	}
	if viewer.ID == m.ID || viewer.IsAdmin {
		return nil
	}
	return m.ChapterVisibility
}
