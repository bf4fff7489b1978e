package api

import (
	"context"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/chapterhq/lodge/internal/models"
)

type contextKey string

func (c contextKey) String() string {
	return "lodge api context key " + string(c)
}

const (
	tokenKey   = contextKey("jwt")
	memberKey  = contextKey("member")
	targetKey  = contextKey("target_member")
	forumKey   = contextKey("forum")
	threadKey  = contextKey("thread")
	rushKey    = contextKey("rush")
	officeKey  = contextKey("office")
)

// withToken adds the JWT token to the context.
func withToken(ctx context.Context, token *jwt.Token) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// getToken reads the JWT token from the context.
func getToken(ctx context.Context) *jwt.Token {
	obj := ctx.Value(tokenKey)
	if obj == nil {
		return nil
	}

	return obj.(*jwt.Token)
}

func getClaims(ctx context.Context) *LodgeClaims {
	token := getToken(ctx)
	if token == nil {
		return nil
	}
	return token.Claims.(*LodgeClaims)
}

// withMember adds the authenticated member to the context.
func withMember(ctx context.Context, m *models.Member) context.Context {
	return context.WithValue(ctx, memberKey, m)
}

// getMember reads the authenticated member from the context.
func getMember(ctx context.Context) *models.Member {
	if ctx == nil {
		return nil
	}
	obj := ctx.Value(memberKey)
	if obj == nil {
		return nil
	}
	return obj.(*models.Member)
}

// withTargetMember adds the member a request operates on to the context.
func withTargetMember(ctx context.Context, m *models.Member) context.Context {
	return context.WithValue(ctx, targetKey, m)
}

func getTargetMember(ctx context.Context) *models.Member {
	obj := ctx.Value(targetKey)
	if obj == nil {
		return nil
	}
	return obj.(*models.Member)
}

func withForum(ctx context.Context, f *models.Forum) context.Context {
	return context.WithValue(ctx, forumKey, f)
}

func getForum(ctx context.Context) *models.Forum {
	obj := ctx.Value(forumKey)
	if obj == nil {
		return nil
	}
	return obj.(*models.Forum)
}

func withThread(ctx context.Context, t *models.Thread) context.Context {
	return context.WithValue(ctx, threadKey, t)
}

func getThread(ctx context.Context) *models.Thread {
	obj := ctx.Value(threadKey)
	if obj == nil {
		return nil
	}
	return obj.(*models.Thread)
}

func withRush(ctx context.Context, r *models.Rush) context.Context {
	return context.WithValue(ctx, rushKey, r)
}

func getRush(ctx context.Context) *models.Rush {
	obj := ctx.Value(rushKey)
	if obj == nil {
		return nil
	}
	return obj.(*models.Rush)
}

func withOffice(ctx context.Context, office models.Office) context.Context {
	return context.WithValue(ctx, officeKey, office)
}

func getOffice(ctx context.Context) models.Office {
	obj := ctx.Value(officeKey)
	if obj == nil {
		return models.Office("")
	}
	return obj.(models.Office)
}
