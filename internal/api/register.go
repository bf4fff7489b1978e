package api

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/chapterhq/lodge/internal/crypto"
	"github.com/chapterhq/lodge/internal/models"
	"github.com/chapterhq/lodge/internal/storage"
)

// RegisterParams are the parameters for the self-registration endpoint.
// Registration is gated on a shared secret distributed to initiated brothers;
// a second secret unlocks administrator accounts.
type RegisterParams struct {
	Badge           int    `json:"badge"`
	FirstName       string `json:"first_name"`
	MiddleName      string `json:"middle_name"`
	LastName        string `json:"last_name"`
	Suffix          string `json:"suffix"`
	Nickname        string `json:"nickname"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	Status          string `json:"status"`
	BigBrotherBadge int    `json:"big_brother"`
	RegistrationKey string `json:"registration_key"`
	AdminKey        string `json:"admin_key"`
}

func (p *RegisterParams) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Badge, validation.Required, validation.Min(1)),
		validation.Field(&p.FirstName, validation.Required),
		validation.Field(&p.LastName, validation.Required),
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.RegistrationKey, validation.Required),
	)
}

// Register creates a member account from the self-registration form.
func (a *API) Register(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)
	config := a.config

	params := &RegisterParams{}
	if err := retrieveRequestParams(r, params); err != nil {
		return err
	}

	if err := params.Validate(); err != nil {
		return badRequestError(ErrorCodeValidationFailed, "%v", err)
	}

	if err := crypto.VerifyKeyDigest(params.RegistrationKey, config.Chapter.RegistrationKey); err != nil {
		return forbiddenError(ErrorCodeBadRegistrationKey, "Invalid registration key")
	}

	isAdmin := false
	if params.AdminKey != "" {
		if err := crypto.VerifyKeyDigest(params.AdminKey, config.Chapter.AdminKey); err != nil {
			return forbiddenError(ErrorCodeBadRegistrationKey, "Invalid administrator key")
		}
		isAdmin = true
	}

	if len(params.Password) < config.Chapter.MinPasswordLength {
		return unprocessableEntityError(ErrorCodeWeakPassword, "Password must be at least %d characters", config.Chapter.MinPasswordLength)
	}

	status := models.StatusUndergraduate
	if params.Status != "" {
		status = models.MemberStatus(params.Status)
		if !status.Valid() {
			return badRequestError(ErrorCodeValidationFailed, "Invalid member status: %q", params.Status)
		}
	}

	duplicate, err := models.IsDuplicatedBadge(db, params.Badge)
	if err != nil {
		return internalServerError("Database error checking badge").WithInternalError(err)
	}
	if duplicate {
		return unprocessableEntityError(ErrorCodeBadgeExists, "An account for badge %d already exists", params.Badge)
	}

	if _, err := models.FindMemberByEmail(db, params.Email); err == nil {
		return unprocessableEntityError(ErrorCodeEmailExists, "An account with this email address already exists")
	} else if !models.IsNotFoundError(err) {
		return internalServerError("Database error checking email").WithInternalError(err)
	}

	member, err := models.NewMember(params.Badge, params.FirstName, params.LastName, params.Email, params.Password)
	if err != nil {
		return internalServerError("Error hashing password").WithInternalError(err)
	}

	member.Status = status
	member.IsAdmin = isAdmin
	member.MiddleName = storage.NullString(params.MiddleName)
	member.Suffix = storage.NullString(params.Suffix)
	member.Nickname = storage.NullString(params.Nickname)

	if err := member.ValidateBigBrother(params.BigBrotherBadge); err != nil {
		return badRequestError(ErrorCodeValidationFailed, "%v", err)
	}
	member.BigBrotherBadge = params.BigBrotherBadge

	if err := models.CreateMember(db, member); err != nil {
		return internalServerError("Database error creating member").WithInternalError(err)
	}

	return sendJSON(w, http.StatusCreated, member)
}
