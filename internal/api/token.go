package api

import (
	"net/http"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/chapterhq/lodge/internal/metering"
	"github.com/chapterhq/lodge/internal/models"
	"github.com/chapterhq/lodge/internal/storage"
)

// TokenGrantParams are the parameters the password grant accepts. Members
// may sign in with either their email address or their badge number.
type TokenGrantParams struct {
	Email    string `json:"email"`
	Badge    int    `json:"badge"`
	Password string `json:"password"`
}

// AccessTokenResponse represents a freshly issued session token.
type AccessTokenResponse struct {
	Token     string         `json:"access_token"`
	TokenType string         `json:"token_type"`
	ExpiresIn int            `json:"expires_in"`
	ExpiresAt int64          `json:"expires_at"`
	Member    *models.Member `json:"member"`
}

// Token is the endpoint for the password grant.
func (a *API) Token(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	db := a.db.WithContext(ctx)
	config := a.config

	params := &TokenGrantParams{}
	if err := retrieveRequestParams(r, params); err != nil {
		return err
	}

	if params.Password == "" {
		return badRequestError(ErrorCodeValidationFailed, "Password is required")
	}

	var member *models.Member
	var err error
	switch {
	case params.Email != "":
		member, err = models.FindMemberByEmail(db, params.Email)
	case params.Badge > 0:
		member, err = models.FindMemberByBadge(db, params.Badge)
	default:
		return badRequestError(ErrorCodeValidationFailed, "An email address or badge number is required")
	}
	if err != nil {
		if models.IsNotFoundError(err) {
			return forbiddenError(ErrorCodeInvalidCredentials, "Invalid sign-in credentials")
		}
		return internalServerError("Database error finding member").WithInternalError(err)
	}

	if member.Flags.IsLockedOut() {
		return forbiddenError(ErrorCodeMemberLockedOut, "This account has been locked out")
	}

	if !member.Authenticate(ctx, params.Password) {
		// the failure count must commit even though the request fails
		return db.Transaction(func(tx *storage.Connection) error {
			if terr := member.RecordSignInFailure(tx, config.Chapter.MaxLoginAttempts); terr != nil {
				return internalServerError("Database error recording sign-in failure").WithInternalError(terr)
			}
			if member.Flags.IsLockedOut() {
				return storage.NewCommitWithError(forbiddenError(ErrorCodeMemberLockedOut, "This account has been locked out"))
			}
			return storage.NewCommitWithError(forbiddenError(ErrorCodeInvalidCredentials, "Invalid sign-in credentials"))
		})
	}

	var token string
	var expiresAt time.Time
	err = db.Transaction(func(tx *storage.Connection) error {
		var terr error
		token, expiresAt, terr = a.generateAccessToken(tx, member)
		if terr != nil {
			return terr
		}
		return member.UpdateLastSignInAt(tx)
	})
	if err != nil {
		return internalServerError("Failed to issue access token").WithInternalError(err)
	}

	method := metering.SignInEmail
	if params.Email == "" {
		method = metering.SignInBadge
	}
	metering.RecordSignIn(method, member.ID, member.Badge)

	return sendJSON(w, http.StatusOK, &AccessTokenResponse{
		Token:     token,
		TokenType: "bearer",
		ExpiresIn: config.JWT.Exp,
		ExpiresAt: expiresAt.Unix(),
		Member:    member,
	})
}

func (a *API) generateAccessToken(tx *storage.Connection, member *models.Member) (string, time.Time, error) {
	config := a.config

	groups, err := models.FindGroupNamesForMember(tx, member)
	if err != nil {
		return "", time.Time{}, err
	}

	issuedAt := a.Now()
	expiresAt := issuedAt.Add(time.Second * time.Duration(config.JWT.Exp))

	claims := &LodgeClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   member.ID.String(),
			Audience:  jwt.ClaimStrings{config.JWT.Aud},
			Issuer:    config.JWT.Issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Badge:   member.Badge,
		Email:   member.Email,
		Groups:  groups,
		IsAdmin: member.IsAdmin,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.JWT.Secret))
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}
