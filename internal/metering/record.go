package metering

import (
	"github.com/gofrs/uuid"
	"github.com/sirupsen/logrus"
)

// SignInMethod says which credential a brother signed in with.
type SignInMethod string

const (
	SignInEmail SignInMethod = "email"
	SignInBadge SignInMethod = "badge"
)

// Submission kinds recorded from the public site.
const (
	SubmissionContact  = "contact"
	SubmissionInfoCard = "info_card"
)

var logger = logrus.StandardLogger().WithField("metering", true)

// RecordSignIn emits one structured log line per successful token grant.
func RecordSignIn(method SignInMethod, memberID uuid.UUID, badge int) {
	logger.WithFields(logrus.Fields{
		"action":         "sign_in",
		"sign_in_method": string(method),
		"member_id":      memberID.String(),
		"badge":          badge,
	}).Info("Sign in")
}

// RecordSubmission emits one structured log line per accepted public form
// submission, with the count of brothers notified by mail.
func RecordSubmission(kind string, id uuid.UUID, notified int) {
	logger.WithFields(logrus.Fields{
		"action":     "submission",
		"kind":       kind,
		"record_id":  id.String(),
		"recipients": notified,
	}).Info("Submission")
}
