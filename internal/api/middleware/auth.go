// server/internal/api/middleware/auth.go
package middleware

import (
	"context"
	"errors"
	"strings"

	"blood-bank-api-server/internal/api/responses"
	"blood-bank-api-server/internal/apperr"
	"blood-bank-api-server/internal/auth"
	"blood-bank-api-server/internal/logger"
	"blood-bank-api-server/internal/models"
	"blood-bank-api-server/internal/store"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const userKey = "user"

// UserFinder loads the acting user, without secret fields.
type UserFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

var errUserNotFound = errors.New("user not found")

// Authenticate verifies the bearer token, loads its user and stores it in
// the gin context.
func Authenticate(secret []byte, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			responses.Abort(c, apperr.Unauthorized("Not authorized, no token"))
			return
		}

		user, err := LoadUser(c.Request.Context(), strings.TrimPrefix(authHeader, "Bearer "), secret, users)
		if errors.Is(err, errUserNotFound) {
			responses.Abort(c, apperr.Unauthorized("User not found"))
			return
		}
		if err != nil {
			responses.Abort(c, apperr.Wrap(apperr.CodeUnauthorized, "Not authorized, token failed", err))
			return
		}

		c.Set(userKey, user)
		c.Request = c.Request.WithContext(logger.With(c.Request.Context(), map[string]any{
			"user_id": user.ID.Hex(),
			"role":    user.Role,
		}))
		c.Next()
	}
}

// LoadUser verifies tokenString and returns the user it names.
func LoadUser(ctx context.Context, tokenString string, secret []byte, users UserFinder) (*models.User, error) {
	claims, err := auth.ParseJWT(strings.TrimSpace(tokenString), secret)
	if err != nil {
		return nil, err
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	user, err := users.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) || (err == nil && user == nil) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

var roleDenied = map[models.Role]string{
	models.RoleAdmin:     "Access denied: Admins only",
	models.RoleDonor:     "Donor access denied",
	models.RoleRecipient: "Recipient access denied",
}

// Authorize lets the request through only when the authenticated user has
// the given role.
func Authorize(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || user.Role != role {
			responses.Abort(c, apperr.Forbidden(roleDenied[role]))
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user set by Authenticate.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(userKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

// SetUser stores user as the authenticated user. Used by tests of handlers
// that sit behind Authenticate.
func SetUser(c *gin.Context, user *models.User) {
	c.Set(userKey, user)
}
