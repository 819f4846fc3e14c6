package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"bookly/internal/shared/config"
	"bookly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	ContextUserID   = "user_id"
	ContextUserRole = "user_role"

	RoleOwner = "OWNER"
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// ErrNoUser is returned by GetUserID when the request carries no authenticated user
var ErrNoUser = errors.New("user not authenticated")

// JWTAuthWithConfig verifies an externally issued HS256 bearer token and stores
// the caller's user id and role in the gin context
func JWTAuthWithConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Authorization header is required", nil, nil)
			c.Abort()
			return
		}

		tokenString, ok := bearerToken(authHeader)
		if !ok {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "authorization header format must be Bearer {token}", nil, nil)
			c.Abort()
			return
		}

		claims, err := parseClaims(tokenString, cfg.JWT.Secret)
		if err != nil {
			response.RespondJSON(c, "error", http.StatusUnauthorized, err.Error(), nil, nil)
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuthWithConfig validates a token if present but doesn't require it
func OptionalAuthWithConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if claims, err := parseClaims(tokenString, cfg.JWT.Secret); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

// RequireRoles middleware checks if user has any of the required roles
func RequireRoles(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get(ContextUserRole)
		if !exists {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "user role not found in context", nil, nil)
			c.Abort()
			return
		}

		role, _ := userRole.(string)
		for _, required := range requiredRoles {
			if role == required {
				c.Next()
				return
			}
		}

		response.RespondJSON(c, "error", http.StatusForbidden, "Insufficient permissions", nil, nil)
		c.Abort()
	}
}

// HasRole reports whether the caller's role is one of roles
func HasRole(c *gin.Context, roles ...string) bool {
	role := c.GetString(ContextUserRole)
	for _, r := range roles {
		if role == r {
			return true
		}
	}
	return false
}

// GetUserID returns the authenticated caller's id
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	value, exists := c.Get(ContextUserID)
	if !exists {
		return uuid.Nil, ErrNoUser
	}
	raw, ok := value.(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("invalid user id type %T", value)
	}
	return uuid.Parse(raw)
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func parseClaims(tokenString, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	if tokenType, ok := claims["type"]; ok && tokenType != "access" {
		return nil, errors.New("invalid token type")
	}
	if _, ok := subject(claims); !ok {
		return nil, errors.New("token has no user id")
	}
	return claims, nil
}

// subject reads the user id from user_id, falling back to the standard sub claim
func subject(claims jwt.MapClaims) (string, bool) {
	for _, key := range []string{"user_id", "sub"} {
		if value, ok := claims[key].(string); ok && value != "" {
			return value, true
		}
	}
	return "", false
}

func setClaims(c *gin.Context, claims jwt.MapClaims) {
	userID, _ := subject(claims)
	c.Set(ContextUserID, userID)

	role, _ := claims["role"].(string)
	if role == "" {
		role = RoleUser
	}
	c.Set(ContextUserRole, role)
}
