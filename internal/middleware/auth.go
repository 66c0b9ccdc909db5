package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/faturaflow/faturaflow-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims structure
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Context keys set by the auth middleware
const (
	userIDKey      = "userID"
	userEmailKey   = "userEmail"
	claimsKey      = "claims"
	currentUserKey = "currentUser"
)

// UserLoader resolves the user a validated token names
type UserLoader interface {
	CurrentUser(ctx context.Context, userID uint) (*models.User, error)
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": msg,
		"code":  "UNAUTHENTICATED",
	})
}

// Auth returns a middleware that validates JWT tokens and loads the caller.
// The role used for authorization is the stored one, not the token claim.
func Auth(jwtSecret string, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get token from Authorization header
		authHeader := c.GetHeader("Authorization")
		tokenString := ""

		if authHeader == "" {
			// Check query param for download links
			tokenString = c.Query("token")
			if tokenString == "" {
				unauthorized(c, "Authorization header is required")
				return
			}
		} else {
			// Extract token from "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				unauthorized(c, "Invalid authorization header format")
				return
			}
			tokenString = parts[1]
		}

		claims, err := validateToken(tokenString, jwtSecret)
		if err != nil {
			unauthorized(c, err.Error())
			return
		}

		user, err := users.CurrentUser(c.Request.Context(), claims.UserID)
		if err != nil {
			unauthorized(c, "user is not recognized")
			return
		}

		c.Set(userIDKey, user.ID)
		c.Set(userEmailKey, user.Email)
		c.Set(claimsKey, claims)
		c.Set(currentUserKey, user)

		c.Next()
	}
}

// validateToken parses and validates a JWT token string
func validateToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.New("token has expired")
		}
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// SetCurrentUser stores user as the authenticated caller
func SetCurrentUser(c *gin.Context, user *models.User) {
	c.Set(userIDKey, user.ID)
	c.Set(currentUserKey, user)
}

// CurrentUser returns the authenticated caller, or nil
func CurrentUser(c *gin.Context) *models.User {
	v, exists := c.Get(currentUserKey)
	if !exists {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) uint {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return 0
	}
	return userID.(uint)
}

// RequireAdmin returns a middleware that requires admin role
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin)
}

// RequireRole returns a middleware that requires one of the given roles
func RequireRole(allowedRoles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			unauthorized(c, "authentication required")
			return
		}
		for _, role := range allowedRoles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "you are not allowed to access this resource",
			"code":  "FORBIDDEN",
		})
	}
}
