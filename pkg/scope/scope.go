package scope

import (
	"context"

	"campaignqa-srv/internal/model"
)

// NewScope converts a verified payload to the request scope.
func NewScope(payload Payload) model.Scope {
	userID := payload.UserID
	if userID == "" {
		userID = payload.Subject
	}
	return model.Scope{
		UserID:   userID,
		Username: payload.Username,
		Role:     payload.Role,
	}
}

func SetPayloadToContext(ctx context.Context, payload Payload) context.Context {
	return context.WithValue(ctx, payloadKey, payload)
}

func GetPayloadFromContext(ctx context.Context) (Payload, bool) {
	p, ok := ctx.Value(payloadKey).(Payload)
	return p, ok
}

func SetScopeToContext(ctx context.Context, sc model.Scope) context.Context {
	return context.WithValue(ctx, scopeKey, sc)
}

func GetScopeFromContext(ctx context.Context) model.Scope {
	sc, _ := ctx.Value(scopeKey).(model.Scope)
	return sc
}
