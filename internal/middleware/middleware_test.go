package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/class-schedule-api/internal/models"
	appErrors "github.com/noah-isme/class-schedule-api/pkg/errors"
)

type stubValidator map[string]*models.JWTClaims

func (s stubValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
}

func protectedRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.POST("/schedules", handlers...)
	return r
}

func send(r http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/schedules", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAndRoles(t *testing.T) {
	tokens := stubValidator{
		"staff":    {UserID: "1", Role: models.RoleStaff},
		"lecturer": {UserID: "2", Role: models.RoleLecturer},
	}
	r := protectedRouter(JWT(tokens), RequireRoles(SchedulerRoles...))

	assert.Equal(t, http.StatusUnauthorized, send(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, send(r, "Token staff").Code)
	assert.Equal(t, http.StatusUnauthorized, send(r, "Bearer unknown").Code)
	assert.Equal(t, http.StatusForbidden, send(r, "Bearer lecturer").Code)
	assert.Equal(t, http.StatusNoContent, send(r, "Bearer staff").Code)
}

func TestRequireRolesWithoutClaims(t *testing.T) {
	r := protectedRouter(RequireRoles(models.RoleAdmin))
	assert.Equal(t, http.StatusUnauthorized, send(r, "").Code)
}

func TestAuditLogsCaller(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	tokens := stubValidator{"admin": {UserID: "7", Role: models.RoleAdmin}}
	r := protectedRouter(JWT(tokens), Audit(zap.New(core), "schedule.create"))

	require.Equal(t, http.StatusNoContent, send(r, "Bearer admin").Code)

	entries := logs.FilterMessage("schedule_audit").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "schedule.create", fields["action"])
	assert.Equal(t, "7", fields["user_id"])
	assert.Equal(t, int64(http.StatusNoContent), fields["status"])
}
