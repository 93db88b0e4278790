package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/labstack/echo/v4"

	"github.com/edulite/edulite/internal/config"
	"github.com/edulite/edulite/internal/model"
	"github.com/edulite/edulite/internal/queue"
	"github.com/edulite/edulite/internal/repository"
	queue_publisher "github.com/edulite/edulite/internal/service"
	"github.com/edulite/edulite/internal/utils"
)

// Password assigned to admin-created students who did not choose one. Their
// DOB works as an alternate credential until they change it.
const defaultStudentPassword = "student123"

// AdminHandler implements the admin-only endpoints: admin login, student
// management and fee tracking.
type AdminHandler struct {
	Cfg     config.Config
	Users   repository.AccountDirectory
	Courses repository.CourseCatalog
	Issuer  *utils.TokenIssuer
}

func NewAdminHandler(cfg config.Config, users repository.AccountDirectory, courses repository.CourseCatalog, issuer *utils.TokenIssuer) *AdminHandler {
	return &AdminHandler{Cfg: cfg, Users: users, Courses: courses, Issuer: issuer}
}

// Login handles POST /api/admin/login. Unknown email, a non-admin account
// and a wrong secret all collapse into the same 401.
func (h *AdminHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid admin credentials"})
		}
		c.Logger().Errorf("admin login: query: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error during admin login"})
	}
	if u.Role != model.RoleAdmin || !utils.VerifyCredential(req.Password, u) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid admin credentials"})
	}

	token, _, err := h.Issuer.Issue(u)
	if err != nil {
		c.Logger().Errorf("admin login: issue token: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error during admin login"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "admin login successful",
		"token":   token,
		"admin":   echo.Map{"id": u.ID, "email": u.Email, "name": u.Name},
	})
}

// ----- student management -----

type studentReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	DOB      string `json:"dob"`
	Password string `json:"password"`
}

func (r studentReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Phone, validation.Required),
		validation.Field(&r.DOB, validation.Required, validation.Date("2006-01-02")),
	)
}

// ListUsers handles GET /api/admin/users: every account without its secret,
// decorated with enrolled course names.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		c.Logger().Errorf("admin list users: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch users"})
	}
	names, err := h.Courses.NamesByStudent(ctx)
	if err != nil {
		c.Logger().Errorf("admin list users: course names: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch users"})
	}

	type userWithCourses struct {
		*model.User
		EnrolledCourses []string `json:"enrolledCourses"`
	}
	out := make([]userWithCourses, 0, len(users))
	for _, u := range users {
		cs := names[u.ID]
		if cs == nil {
			cs = []string{}
		}
		out = append(out, userWithCourses{User: u, EnrolledCourses: cs})
	}
	return c.JSON(http.StatusOK, out)
}

// CreateStudent handles POST /api/admin/users. Name, email, phone and DOB
// are required; the password defaults when absent, in which case the DOB is
// the student's working credential until they pick a password.
func (h *AdminHandler) CreateStudent(c echo.Context) error {
	var req studentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	dob, err := time.Parse("2006-01-02", req.DOB)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date of birth"})
	}
	password := req.Password
	if password == "" {
		password = defaultStudentPassword
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u := &model.User{
		Name:  req.Name,
		Email: req.Email,
		Role:  model.RoleStudent,
		Phone: req.Phone,
		DOB:   &dob,
	}
	if err := h.Users.Create(ctx, u, password, h.Cfg.BcryptCost); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already exists"})
		}
		c.Logger().Errorf("admin create student: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to add student"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "student added successfully", "user": u})
}

// UpdateStudent handles PUT /api/admin/users/:id: profile fields only, the
// secret is never rewritten here.
func (h *AdminHandler) UpdateStudent(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req studentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
		}
		c.Logger().Errorf("admin update student: lookup: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update student"})
	}

	if v := strings.TrimSpace(req.Name); v != "" {
		u.Name = v
	}
	if v := strings.ToLower(strings.TrimSpace(req.Email)); v != "" {
		u.Email = v
	}
	if v := strings.TrimSpace(req.Phone); v != "" {
		u.Phone = v
	}
	if req.DOB != "" {
		dob, err := time.Parse("2006-01-02", req.DOB)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date of birth"})
		}
		u.DOB = &dob
	}

	if err := h.Users.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already exists"})
		}
		c.Logger().Errorf("admin update student: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update student"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "student updated successfully", "user": u})
}

// DeleteStudent handles DELETE /api/admin/users/:id.
func (h *AdminHandler) DeleteStudent(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
		}
		c.Logger().Errorf("admin delete student: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete student"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "student deleted successfully"})
}

// ----- fees -----

type feeReq struct {
	StudentID   uint64 `json:"studentId"`
	TotalFee    int64  `json:"totalFee"`
	AmountPaid  int64  `json:"amountPaid"`
	PaymentDate string `json:"paymentDate"`
}

func (r feeReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.StudentID, validation.Required),
		validation.Field(&r.TotalFee, validation.Required),
		validation.Field(&r.AmountPaid, validation.Required),
		validation.Field(&r.PaymentDate, validation.Required, validation.Date("2006-01-02")),
	)
}

// ListFees handles GET /api/admin/fees: one record per student with derived
// payment status.
func (h *AdminHandler) ListFees(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	records, err := h.Users.FeeRecords(ctx)
	if err != nil {
		c.Logger().Errorf("admin list fees: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch fee records"})
	}
	if records == nil {
		records = []model.FeeRecord{}
	}
	return c.JSON(http.StatusOK, records)
}

// RecordFee handles POST /api/admin/fees: applies a payment to a student's
// balance and publishes an activity event for the audit trail.
func (h *AdminHandler) RecordFee(c echo.Context) error {
	var req feeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	due, err := time.Parse("2006-01-02", req.PaymentDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment date"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
		}
		c.Logger().Errorf("admin record fee: lookup: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record fee payment"})
	}

	u, err := h.Users.RecordFee(ctx, req.StudentID, req.TotalFee, req.AmountPaid, due)
	if err != nil {
		c.Logger().Errorf("admin record fee: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record fee payment"})
	}

	// Best effort; the payment is already recorded.
	go func() {
		_ = queue_publisher.PublishActivity(context.Background(), queue.ActivityEvent{
			Kind:        queue.KindFeePaymentRecord,
			StudentID:   u.ID,
			StudentName: u.Name,
			AmountPaid:  req.AmountPaid,
			FeeTotal:    u.FeeTotal,
		})
	}()

	return c.JSON(http.StatusOK, echo.Map{
		"message": "fee payment recorded successfully",
		"student": echo.Map{
			"id":         u.ID,
			"name":       u.Name,
			"feePaid":    u.FeePaid,
			"feeTotal":   u.FeeTotal,
			"nextFeeDue": u.NextFeeDue,
		},
	})
}
