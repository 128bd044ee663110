package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blood-bank-api-server/internal/auth"
	"blood-bank-api-server/internal/models"
	"blood-bank-api-server/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var testSecret = []byte("secret")

type stubUsers struct {
	users map[primitive.ObjectID]*models.User
	err   error
}

func (s stubUsers) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newGuardedRouter(users UserFinder, role models.Role) *gin.Engine {
	r := gin.New()
	r.GET("/guarded", Authenticate(testSecret, users), Authorize(role), func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": user.ID.Hex(), "role": user.Role})
	})
	return r
}

func mintToken(t *testing.T, userID string, ttl time.Duration) string {
	t.Helper()
	token, err := auth.GenerateJWT(userID, "", testSecret, ttl)
	require.NoError(t, err)
	return token
}

func call(r http.Handler, header string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	var body map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &body)
	return resp, body
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	r := newGuardedRouter(stubUsers{}, models.RoleDonor)

	resp, body := call(r, "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "Not authorized, no token", body["message"])

	resp, _ = call(r, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAuthenticateRejectsInvalidToken(t *testing.T) {
	r := newGuardedRouter(stubUsers{}, models.RoleDonor)

	resp, body := call(r, "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "Not authorized, token failed", body["message"])

	expired := mintToken(t, primitive.NewObjectID().Hex(), -time.Minute)
	resp, _ = call(r, "Bearer "+expired)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	malformedID := mintToken(t, "nope", time.Hour)
	resp, _ = call(r, "Bearer "+malformedID)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAuthenticateRejectsUnknownUser(t *testing.T) {
	r := newGuardedRouter(stubUsers{}, models.RoleDonor)

	resp, body := call(r, "Bearer "+mintToken(t, primitive.NewObjectID().Hex(), time.Hour))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "User not found", body["message"])
}

func TestAuthenticateStoreFailureIsUnauthorized(t *testing.T) {
	r := newGuardedRouter(stubUsers{err: errors.New("db down")}, models.RoleDonor)

	resp, body := call(r, "Bearer "+mintToken(t, primitive.NewObjectID().Hex(), time.Hour))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "Not authorized, token failed", body["message"])
	assert.NotContains(t, body, "error")
}

func TestAuthorizeByRole(t *testing.T) {
	donor := &models.User{ID: primitive.NewObjectID(), Role: models.RoleDonor}
	users := stubUsers{users: map[primitive.ObjectID]*models.User{donor.ID: donor}}
	token := "Bearer " + mintToken(t, donor.ID.Hex(), time.Hour)

	resp, body := call(newGuardedRouter(users, models.RoleDonor), token)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, donor.ID.Hex(), body["id"])

	resp, body = call(newGuardedRouter(users, models.RoleAdmin), token)
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, "Access denied: Admins only", body["message"])

	resp, body = call(newGuardedRouter(users, models.RoleRecipient), token)
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, "Recipient access denied", body["message"])
}

func TestAuthorizeWithoutAuthenticate(t *testing.T) {
	r := gin.New()
	r.GET("/guarded", Authorize(models.RoleDonor), func(c *gin.Context) { c.Status(http.StatusOK) })

	resp, body := call(r, "")
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, "Donor access denied", body["message"])
}
