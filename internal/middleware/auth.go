package middleware

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// Headers populated from verified token claims for downstream handlers.
const (
	HeaderUserID      = "X-User-ID"
	HeaderWorkspaceID = "X-Workspace-ID"
	HeaderSessionID   = "X-Session-ID"
)

// JWTAuth verifies the bearer token and forwards its identity claims as
// request headers. Requests without a valid token never reach the handler.
func JWTAuth(secret string, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
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
					return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				logger.Warn("invalid jwt token", zap.Error(err))
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}

			// Strip any caller-supplied identity headers before trusting
			// the verified claims.
			ctx.Request.Header.Del(HeaderUserID)
			ctx.Request.Header.Del(HeaderWorkspaceID)
			ctx.Request.Header.Del(HeaderSessionID)

			if userID, ok := claims["user_id"].(string); ok {
				ctx.Request.Header.Set(HeaderUserID, userID)
			}
			if workspaceID, ok := claims["workspace_id"].(string); ok {
				ctx.Request.Header.Set(HeaderWorkspaceID, workspaceID)
			}
			if sessionID, ok := claims["session_id"].(string); ok {
				ctx.Request.Header.Set(HeaderSessionID, sessionID)
			}

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
