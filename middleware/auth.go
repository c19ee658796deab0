package middleware

import (
	"fmt"
	"strings"

	"github.com/citasmedicas/medico-api/util"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

// ValidateAuth verifies the Authorization bearer token against the configured
// JWT secret. The subject claim, when present, is exposed as "auth_subject" in
// the request context.
func ValidateAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Missing bearer token",
				Err: fmt.Errorf("authorization header missing or malformed"),
			})
			c.Abort()
			return
		}

		raw := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return util.GetJWTSecretByte(), nil
		})
		if err != nil || !token.Valid {
			if err == nil {
				err = fmt.Errorf("invalid token")
			}
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Invalid or expired token",
				Err: err,
			})
			c.Abort()
			return
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if sub, ok := claims["sub"].(string); ok {
				c.Set("auth_subject", sub)
			}
		}

		c.Next()
	}
}
