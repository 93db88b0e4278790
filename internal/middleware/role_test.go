package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/edulite/edulite/internal/model"
)

func runRequireRole(t *testing.T, setRole interface{}, roles ...string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if setRole != nil {
		c.Set(CtxRole, setRole)
	}

	reached := false
	h := RequireRole(roles...)(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, reached
}

func TestRequireRoleAllows(t *testing.T) {
	t.Parallel()

	rec, reached := runRequireRole(t, model.RoleAdmin, model.RoleAdmin)
	require.True(t, reached)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleRejectsWrongRole(t *testing.T) {
	t.Parallel()

	rec, reached := runRequireRole(t, model.RoleStudent, model.RoleAdmin)
	require.False(t, reached)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleRejectsMissingRole(t *testing.T) {
	t.Parallel()

	rec, reached := runRequireRole(t, nil, model.RoleAdmin)
	require.False(t, reached)
	require.Equal(t, http.StatusForbidden, rec.Code)
}
