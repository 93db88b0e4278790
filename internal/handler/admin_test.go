package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/edulite/edulite/internal/model"
	"github.com/edulite/edulite/internal/repository"
	"github.com/edulite/edulite/internal/utils"
)

func newAdminHandler(t *testing.T) (*AdminHandler, *fakeDirectory, *utils.TokenIssuer) {
	t.Helper()
	dir := newFakeDirectory()
	issuer := utils.NewTokenIssuer("test-secret", time.Hour)
	return NewAdminHandler(testConfig(), dir, nil, issuer), dir, issuer
}

func seedAdmin(t *testing.T, dir *fakeDirectory) *model.User {
	t.Helper()
	u := &model.User{Name: "Admin", Email: "admin@edulite.com", Role: model.RoleAdmin}
	require.NoError(t, dir.Create(context.Background(), u, "EduLite@2024", bcrypt.MinCost))
	return u
}

// doParamJSON runs a handler with a bound path parameter, as the router
// would.
func doParamJSON(t *testing.T, h echo.HandlerFunc, method, target, body, paramName, paramValue string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("{}")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames(paramName)
	c.SetParamValues(paramValue)
	require.NoError(t, h(c))
	return rec
}

func TestAdminLogin(t *testing.T) {
	t.Parallel()

	h, dir, issuer := newAdminHandler(t)
	admin := seedAdmin(t, dir)

	rec := doJSON(t, h.Login, http.MethodPost, "/api/admin/login",
		`{"email":"admin@edulite.com","password":"EduLite@2024"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, "admin login successful", body["message"])
	claims, err := issuer.Verify(body["token"].(string))
	require.NoError(t, err)
	require.Equal(t, admin.ID, claims.UserID)
	require.Equal(t, model.RoleAdmin, claims.Role)

	info := body["admin"].(map[string]any)
	require.Equal(t, "admin@edulite.com", info["email"])
}

func TestAdminLoginUniformFailure(t *testing.T) {
	t.Parallel()

	h, dir, _ := newAdminHandler(t)
	seedAdmin(t, dir)
	student := &model.User{Name: "Priya", Email: "priya@example.com", Role: model.RoleStudent}
	require.NoError(t, dir.Create(context.Background(), student, "secret123", bcrypt.MinCost))

	// Unknown email, wrong password and a student account all collapse.
	bodies := []string{
		`{"email":"nobody@example.com","password":"EduLite@2024"}`,
		`{"email":"admin@edulite.com","password":"wrong"}`,
		`{"email":"priya@example.com","password":"secret123"}`,
	}
	for _, b := range bodies {
		rec := doJSON(t, h.Login, http.MethodPost, "/api/admin/login", b)
		require.Equal(t, http.StatusUnauthorized, rec.Code, b)
		require.JSONEq(t, `{"error":"invalid admin credentials"}`, rec.Body.String())
	}
}

func TestListUsers(t *testing.T) {
	t.Parallel()

	dir := newFakeDirectory()
	cat := newFakeCatalog(dir)
	h := NewAdminHandler(testConfig(), dir, cat, utils.NewTokenIssuer("test-secret", time.Hour))

	seedAdmin(t, dir)
	student := &model.User{Name: "Ravi", Email: "ravi@example.com", Role: model.RoleStudent}
	require.NoError(t, dir.Create(context.Background(), student, "secret123", bcrypt.MinCost))
	course := seedCourse(t, cat, "Mathematics")
	require.NoError(t, cat.Enroll(context.Background(), course.ID, student.ID))

	rec := doJSON(t, h.ListUsers, http.MethodGet, "/api/admin/users", `{}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []struct {
		Email           string   `json:"email"`
		EnrolledCourses []string `json:"enrolledCourses"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 2)

	byEmail := map[string][]string{}
	for _, u := range listed {
		byEmail[u.Email] = u.EnrolledCourses
	}
	require.Equal(t, []string{"Mathematics"}, byEmail["ravi@example.com"])
	// Accounts without enrollments carry an empty list, never null.
	require.NotNil(t, byEmail["admin@edulite.com"])
	require.Empty(t, byEmail["admin@edulite.com"])
	require.NotContains(t, rec.Body.String(), "$2a$")
}

func TestCreateStudent(t *testing.T) {
	t.Parallel()

	h, dir, _ := newAdminHandler(t)
	rec := doJSON(t, h.CreateStudent, http.MethodPost, "/api/admin/users",
		`{"name":"Ravi Kumar","email":"Ravi@Example.com","phone":"9876543210","dob":"2005-03-14"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, "student added successfully", body["message"])

	stored, err := dir.GetByEmail(context.Background(), "ravi@example.com")
	require.NoError(t, err)
	require.Equal(t, model.RoleStudent, stored.Role)
	require.Equal(t, "2005-03-14", stored.DOBString())

	// No password in the request: the default applies and the birth date
	// works as the initial credential.
	require.True(t, utils.VerifyCredential(defaultStudentPassword, stored))
	require.True(t, utils.VerifyCredential("2005-03-14", stored))
}

func TestCreateStudentValidation(t *testing.T) {
	t.Parallel()

	h, _, _ := newAdminHandler(t)
	cases := []struct {
		name string
		body string
	}{
		{"missing phone", `{"name":"R","email":"r@e.com","dob":"2005-03-14"}`},
		{"missing dob", `{"name":"R","email":"r@e.com","phone":"123"}`},
		{"bad dob format", `{"name":"R","email":"r@e.com","phone":"123","dob":"14-03-2005"}`},
		{"bad email", `{"name":"R","email":"nope","phone":"123","dob":"2005-03-14"}`},
	}
	for _, tc := range cases {
		rec := doJSON(t, h.CreateStudent, http.MethodPost, "/api/admin/users", tc.body)
		require.Equal(t, http.StatusBadRequest, rec.Code, tc.name)
	}
}

func TestUpdateStudent(t *testing.T) {
	t.Parallel()

	h, dir, _ := newAdminHandler(t)
	u := &model.User{Name: "Ravi", Email: "ravi@example.com", Role: model.RoleStudent, Phone: "111"}
	require.NoError(t, dir.Create(context.Background(), u, "secret123", bcrypt.MinCost))

	rec := doParamJSON(t, h.UpdateStudent, http.MethodPut, "/api/admin/users/1",
		`{"phone":"222"}`, "id", "1")
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := dir.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.Equal(t, "222", stored.Phone)
	require.Equal(t, "Ravi", stored.Name)

	// The update never touches the stored secret.
	require.True(t, utils.CheckPassword(stored.PasswordHash, "secret123"))
}

func TestUpdateStudentNotFound(t *testing.T) {
	t.Parallel()

	h, _, _ := newAdminHandler(t)
	rec := doParamJSON(t, h.UpdateStudent, http.MethodPut, "/api/admin/users/99",
		`{"name":"X"}`, "id", "99")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"error":"student not found"}`, rec.Body.String())
}

func TestDeleteStudent(t *testing.T) {
	t.Parallel()

	h, dir, _ := newAdminHandler(t)
	u := &model.User{Name: "Ravi", Email: "ravi@example.com", Role: model.RoleStudent}
	require.NoError(t, dir.Create(context.Background(), u, "secret123", bcrypt.MinCost))

	rec := doParamJSON(t, h.DeleteStudent, http.MethodDelete, "/api/admin/users/1", "", "id", "1")
	require.Equal(t, http.StatusOK, rec.Code)

	_, err := dir.GetByID(context.Background(), u.ID)
	require.ErrorIs(t, err, repository.ErrUserNotFound)

	rec = doParamJSON(t, h.DeleteStudent, http.MethodDelete, "/api/admin/users/1", "", "id", "1")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecordFee(t *testing.T) {
	t.Parallel()

	h, dir, _ := newAdminHandler(t)
	u := &model.User{Name: "Ravi", Email: "ravi@example.com", Role: model.RoleStudent}
	require.NoError(t, dir.Create(context.Background(), u, "secret123", bcrypt.MinCost))

	rec := doJSON(t, h.RecordFee, http.MethodPost, "/api/admin/fees",
		`{"studentId":1,"totalFee":50000,"amountPaid":20000,"paymentDate":"2026-09-15"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, "fee payment recorded successfully", body["message"])
	student := body["student"].(map[string]any)
	require.Equal(t, float64(20000), student["feePaid"])
	require.Equal(t, float64(50000), student["feeTotal"])

	// Payments accumulate.
	rec = doJSON(t, h.RecordFee, http.MethodPost, "/api/admin/fees",
		`{"studentId":1,"totalFee":50000,"amountPaid":30000,"paymentDate":"2026-12-15"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	stored, err := dir.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.Equal(t, int64(50000), stored.FeePaid)
	require.Equal(t, model.FeeStatusPaid, model.FeeStatus(stored.FeePaid, stored.FeeTotal))
}

func TestRecordFeeAnyExistingAccount(t *testing.T) {
	t.Parallel()

	// The balance update is keyed by id alone; any stored account accepts a
	// payment, the directory does not filter by role.
	h, dir, _ := newAdminHandler(t)
	admin := seedAdmin(t, dir)

	rec := doJSON(t, h.RecordFee, http.MethodPost, "/api/admin/fees",
		`{"studentId":1,"totalFee":1000,"amountPaid":400,"paymentDate":"2026-09-15"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := dir.GetByID(context.Background(), admin.ID)
	require.NoError(t, err)
	require.Equal(t, int64(400), stored.FeePaid)
	require.Equal(t, int64(1000), stored.FeeTotal)
}

func TestRecordFeeUnknownStudent(t *testing.T) {
	t.Parallel()

	h, _, _ := newAdminHandler(t)
	rec := doJSON(t, h.RecordFee, http.MethodPost, "/api/admin/fees",
		`{"studentId":42,"totalFee":50000,"amountPaid":20000,"paymentDate":"2026-09-15"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"error":"student not found"}`, rec.Body.String())
}

func TestListFees(t *testing.T) {
	t.Parallel()

	h, dir, _ := newAdminHandler(t)
	seedAdmin(t, dir)
	u := &model.User{Name: "Ravi", Email: "ravi@example.com", Role: model.RoleStudent}
	require.NoError(t, dir.Create(context.Background(), u, "secret123", bcrypt.MinCost))
	_, err := dir.RecordFee(context.Background(), u.ID, 50000, 20000,
		time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	rec := doJSON(t, h.ListFees, http.MethodGet, "/api/admin/fees", `{}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var records []model.FeeRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	require.Equal(t, "Ravi", records[0].Name)
	require.Equal(t, model.FeeStatusPartial, records[0].Status)
	require.Equal(t, "2026-09-15", records[0].DueDate)
}
