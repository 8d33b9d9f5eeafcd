package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/junaydb/kanban-board/repository"
)

// SessionAuth validates the bearer token and verifies the session it names is
// still live in Redis before letting the request through. The authenticated
// user id is exposed to handlers via the X-User-ID header.
func SessionAuth(secret string, sessions repository.SessionRepository, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			tokenString := extractToken(ctx)
			if tokenString == "" {
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				logger.Warn("invalid bearer token", zap.Error(err))
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}
			userID, _ := claims["user_id"].(string)
			sessionID, _ := claims["session_id"].(string)
			if userID == "" || sessionID == "" {
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}

			checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			session, err := sessions.Get(checkCtx, sessionID)
			cancel()
			if err != nil || session.UserID != userID || session.IsExpired(time.Now()) {
				logger.Warn("rejected token with dead session", zap.String("session_id", sessionID))
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}

			ctx.Request.Header.Set("X-User-ID", userID)
			next(ctx)
		}
	}
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}
