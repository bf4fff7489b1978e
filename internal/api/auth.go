package api

import (
	"context"
	"net/http"
	"regexp"

	"github.com/gofrs/uuid"
	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/chapterhq/lodge/internal/models"
)

var bearerRegexp = regexp.MustCompile(`^(?:B|b)earer (\S+$)`)

// LodgeClaims is the payload carried by session tokens.
type LodgeClaims struct {
	jwt.RegisteredClaims
	Badge   int      `json:"badge"`
	Email   string   `json:"email"`
	Groups  []string `json:"groups,omitempty"`
	IsAdmin bool     `json:"is_admin,omitempty"`
}

// requireAuthentication checks incoming requests for tokens presented using
// the Authorization header and loads the corresponding member.
func (a *API) requireAuthentication(w http.ResponseWriter, r *http.Request) (context.Context, error) {
	token, err := a.extractBearerToken(r)
	if err != nil {
		return nil, err
	}

	ctx, err := a.parseJWTClaims(token, r)
	if err != nil {
		return ctx, err
	}

	return a.maybeLoadMember(ctx)
}

func (a *API) requireAdmin(w http.ResponseWriter, r *http.Request) (context.Context, error) {
	ctx := r.Context()
	claims := getClaims(ctx)
	if claims == nil {
		return nil, forbiddenError(ErrorCodeBadJWT, "Invalid token")
	}

	if claims.IsAdmin || isStringInSlice(a.config.JWT.AdminGroupName, claims.Groups) {
		return ctx, nil
	}

	if member := getMember(ctx); member != nil && member.IsAdmin {
		return ctx, nil
	}

	return nil, forbiddenError(ErrorCodeNotAdmin, "Chapter administrator access required")
}

func (a *API) extractBearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	matches := bearerRegexp.FindStringSubmatch(authHeader)
	if len(matches) != 2 {
		return "", unauthorizedError(ErrorCodeNoAuthorization, "This endpoint requires a Bearer token")
	}

	return matches[1], nil
}

func (a *API) parseJWTClaims(bearer string, r *http.Request) (context.Context, error) {
	ctx := r.Context()
	config := a.config

	p := jwt.NewParser(jwt.WithValidMethods(config.JWT.ValidMethods))
	token, err := p.ParseWithClaims(bearer, &LodgeClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.JWT.Secret), nil
	})
	if err != nil {
		return nil, forbiddenError(ErrorCodeBadJWT, "Invalid token: %v", err)
	}

	return withToken(ctx, token), nil
}

// maybeLoadMember resolves the member referenced by the token's subject and
// stores it on the context. A token whose member has since been deleted or
// locked out is rejected.
func (a *API) maybeLoadMember(ctx context.Context) (context.Context, error) {
	claims := getClaims(ctx)
	if claims == nil {
		return nil, forbiddenError(ErrorCodeBadJWT, "Invalid token: missing claims")
	}

	if claims.Subject == "" {
		return nil, forbiddenError(ErrorCodeBadJWT, "Invalid token: missing sub claim")
	}

	memberID, err := uuid.FromString(claims.Subject)
	if err != nil {
		return nil, forbiddenError(ErrorCodeBadJWT, "Invalid token: sub claim must be a UUID").WithInternalError(err)
	}

	member, err := models.FindMemberByID(a.db, memberID)
	if err != nil {
		if models.IsNotFoundError(err) {
			return nil, forbiddenError(ErrorCodeMemberNotFound, "Member from token no longer exists")
		}
		return nil, internalServerError("Database error loading member").WithInternalError(err)
	}

	if member.Flags.IsLockedOut() {
		return nil, forbiddenError(ErrorCodeMemberLockedOut, "This account has been locked out")
	}

	return withMember(ctx, member), nil
}
