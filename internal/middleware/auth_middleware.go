package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"threadline/internal/services"
	"threadline/internal/transport/httpdto"
	"threadline/pkg/logger"
)

// accessTokenCookie is the cookie the Supabase browser SDK sets. The ensure
// endpoint is hit as a top-level navigation, so the token usually arrives
// here rather than in an Authorization header.
const accessTokenCookie = "sb-access-token"

func AuthMiddleware(service *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c)
		if token == "" {
			if cookie, err := c.Cookie(accessTokenCookie); err == nil {
				token = cookie
			}
		}

		user, err := service.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
			c.Abort()
			return
		}

		ctx := services.WithUserContext(c.Request.Context(), user)
		ctx = context.WithValue(ctx, logger.UserIdKey, user.ID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func extractBearer(c *gin.Context) string {
	value := c.GetHeader("Authorization")
	parts := strings.SplitN(value, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
