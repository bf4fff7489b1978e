package api

type ErrorCode = string

const (
	// ErrorCodeUnknown should not be used directly, it only indicates a failure in the error handling system in such a way that an error code was not assigned properly.
	ErrorCodeUnknown ErrorCode = "unknown"

	// ErrorCodeUnexpectedFailure signals an unexpected failure such as a 500 Internal Server Error.
	ErrorCodeUnexpectedFailure ErrorCode = "unexpected_failure"

	ErrorCodeValidationFailed     ErrorCode = "validation_failed"
	ErrorCodeBadJSON              ErrorCode = "bad_json"
	ErrorCodeBadJWT               ErrorCode = "bad_jwt"
	ErrorCodeNoAuthorization      ErrorCode = "no_authorization"
	ErrorCodeNotAdmin             ErrorCode = "not_admin"
	ErrorCodeConflict             ErrorCode = "conflict"
	ErrorCodeOverRequestRateLimit ErrorCode = "over_request_rate_limit"

	ErrorCodeInvalidCredentials ErrorCode = "invalid_credentials"
	ErrorCodeMemberLockedOut    ErrorCode = "member_locked_out"
	ErrorCodeMemberNotFound     ErrorCode = "member_not_found"
	ErrorCodeBadgeExists        ErrorCode = "badge_exists"
	ErrorCodeEmailExists        ErrorCode = "email_exists"
	ErrorCodeBadRegistrationKey ErrorCode = "bad_registration_key"
	ErrorCodeWeakPassword       ErrorCode = "weak_password"

	ErrorCodeOfficeNotFound       ErrorCode = "office_not_found"
	ErrorCodeAnnouncementNotFound ErrorCode = "announcement_not_found"
	ErrorCodeForumNotFound        ErrorCode = "forum_not_found"
	ErrorCodeThreadNotFound       ErrorCode = "thread_not_found"
	ErrorCodePostNotFound         ErrorCode = "post_not_found"
	ErrorCodeRushNotFound         ErrorCode = "rush_not_found"
)
