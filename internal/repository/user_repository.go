package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/edulite/edulite/internal/model"
	"github.com/edulite/edulite/internal/utils"
)

// UserRepo is the MySQL-backed AccountDirectory.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var _ AccountDirectory = (*UserRepo)(nil)

const userColumns = "id,name,email,password_hash,google_id,role,phone,dob,fee_paid,fee_total,next_fee_due,created_at,updated_at"

// Create inserts the account. Local accounts get their password hashed here;
// federated accounts get a hashed random placeholder so the column is never
// empty. A hashing failure aborts the insert entirely.
func (r *UserRepo) Create(ctx context.Context, u *model.User, plainPassword string, bcryptCost int) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Role == "" {
		u.Role = model.RoleStudent
	}

	secret := plainPassword
	if u.GoogleID != "" {
		placeholder, err := utils.RandomPlaceholder()
		if err != nil {
			return err
		}
		secret = placeholder
	}
	hash, err := utils.HashPassword(secret, bcryptCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash

	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, google_id, role, phone, dob, fee_paid, fee_total, next_fee_due) VALUES (?,?,?,?,?,?,?,?,?,?)",
		u.Name, u.Email, u.PasswordHash, nullStr(u.GoogleID), u.Role, nullStr(u.Phone), nullTime(u.DOB), u.FeePaid, u.FeeTotal, nullTime(u.NextFeeDue))
	if err != nil {
		if isDuplicate(err) {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.getWhere(ctx, "email=?", email)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	return r.getWhere(ctx, "id=?", id)
}

// GetByGoogleID fetches a user by its federated Google identity.
func (r *UserRepo) GetByGoogleID(ctx context.Context, googleID string) (*model.User, error) {
	return r.getWhere(ctx, "google_id=?", googleID)
}

func (r *UserRepo) getWhere(ctx context.Context, where string, arg any) (*model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE "+where+" LIMIT 1", arg)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// List returns every account, newest first.
func (r *UserRepo) List(ctx context.Context) ([]*model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Update writes profile fields. The password hash column is deliberately
// absent from the statement so unrelated edits can never rehash or clear the
// secret.
func (r *UserRepo) Update(ctx context.Context, u *model.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET name=?, email=?, phone=?, dob=? WHERE id=?",
		u.Name, u.Email, nullStr(u.Phone), nullTime(u.DOB), u.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrEmailExists
		}
		return err
	}
	return nil
}

// LinkGoogleID attaches a federated identity to an existing account.
func (r *UserRepo) LinkGoogleID(ctx context.Context, id uint64, googleID string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET google_id=? WHERE id=?", googleID, id)
	return err
}

// Delete removes the account. Enrollment rows are cleaned up by the
// ON DELETE CASCADE on the join table.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	return noneMeansMissing(res)
}

// FeeRecords builds the admin fee listing. Course names the student's first
// enrollment when one exists.
func (r *UserRepo) FeeRecords(ctx context.Context) ([]model.FeeRecord, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT u.id, u.name, u.fee_paid, u.fee_total, u.next_fee_due,
		       (SELECT c.name FROM enrollments e JOIN courses c ON c.id = e.course_id
		        WHERE e.user_id = u.id ORDER BY e.created_at LIMIT 1)
		FROM users u WHERE u.role = ? ORDER BY u.name`, model.RoleStudent)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.FeeRecord
	for rows.Next() {
		var (
			rec    model.FeeRecord
			paid   int64
			total  int64
			due    sql.NullTime
			course sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.Name, &paid, &total, &due, &course); err != nil {
			return nil, err
		}
		rec.Course = "N/A"
		if course.Valid {
			rec.Course = course.String
		}
		rec.AmountDue = total
		rec.DueDate = "N/A"
		if due.Valid {
			rec.DueDate = due.Time.Format("2006-01-02")
		}
		rec.Status = model.FeeStatus(paid, total)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// RecordFee applies a payment to any existing account and returns the
// refreshed record. Callers verify existence first, matching the handler's
// 404 behavior.
func (r *UserRepo) RecordFee(ctx context.Context, id uint64, totalFee, amountPaid int64, nextDue time.Time) (*model.User, error) {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET fee_total=?, fee_paid=fee_paid+?, next_fee_due=? WHERE id=?",
		totalFee, amountPaid, nextDue, id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

type rowScanner interface{ Scan(dest ...any) error }

func scanUser(row rowScanner) (*model.User, error) {
	var (
		u        model.User
		googleID sql.NullString
		phone    sql.NullString
		dob      sql.NullTime
		feeDue   sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &googleID, &u.Role,
		&phone, &dob, &u.FeePaid, &u.FeeTotal, &feeDue, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.GoogleID = googleID.String
	u.Phone = phone.String
	if dob.Valid {
		t := dob.Time
		u.DOB = &t
	}
	if feeDue.Valid {
		t := feeDue.Time
		u.NextFeeDue = &t
	}
	return &u, nil
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

// MySQL reports unique index violations as error 1062.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}

// noneMeansMissing maps zero affected rows to ErrUserNotFound. Only safe for
// DELETE statements; MySQL also reports zero for no-op updates.
func noneMeansMissing(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}
