package middleware

import (
	"encoding/json"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskdeck/backend/api/transport"
	"github.com/taskdeck/backend/internal/token"
	"github.com/taskdeck/backend/repository"
)

// CookieName is the http-only cookie carrying the signed credential.
const CookieName = "token"

const (
	userIDKey = "auth_user_id"
	claimsKey = "auth_claims"
)

// Auth verifies the credential cookie on protected routes. A missing,
// malformed, expired or revoked token short-circuits with 401; the
// handler never runs. On success the subject identifier is attached to
// the request as an immutable per-request value.
func Auth(tokens *token.Manager, revoked repository.TokenStore, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			raw := string(ctx.Request.Header.Cookie(CookieName))
			if raw == "" {
				rejectUnauthorized(ctx)
				return
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				logger.Warn("token verification failed", zap.Error(err))
				rejectUnauthorized(ctx)
				return
			}

			if revoked != nil {
				isRevoked, err := revoked.IsRevoked(ctx, claims.ID)
				if err != nil {
					logger.Error("revocation check failed", zap.Error(err))
					rejectUnauthorized(ctx)
					return
				}
				if isRevoked {
					rejectUnauthorized(ctx)
					return
				}
			}

			ctx.SetUserValue(userIDKey, claims.UserID)
			ctx.SetUserValue(claimsKey, claims)
			next(ctx)
		}
	}
}

// UserID returns the authenticated subject attached by Auth, or "".
func UserID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue(userIDKey).(string)
	return id
}

// Claims returns the verified token claims attached by Auth.
func Claims(ctx *fasthttp.RequestCtx) *token.Claims {
	claims, _ := ctx.UserValue(claimsKey).(*token.Claims)
	return claims
}

func rejectUnauthorized(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusUnauthorized)
	body, _ := json.Marshal(transport.NewError("Unauthorized user"))
	ctx.SetBody(body)
}
