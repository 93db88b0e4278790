package handler

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/edulite/edulite/internal/model"
	"github.com/edulite/edulite/internal/repository"
	"github.com/edulite/edulite/internal/utils"
)

// fakeDirectory is an in-memory AccountDirectory for handler tests. It
// mirrors the store's contract: atomic per-call, unique email enforced on
// create, secrets hashed exactly as the real repository does.
type fakeDirectory struct {
	mu     sync.Mutex
	nextID uint64
	users  map[uint64]*model.User
}

var _ repository.AccountDirectory = (*fakeDirectory)(nil)

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{nextID: 1, users: map[uint64]*model.User{}}
}

func (f *fakeDirectory) Create(_ context.Context, u *model.User, plainPassword string, bcryptCost int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
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

	u.ID = f.nextID
	f.nextID++
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now

	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeDirectory) GetByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeDirectory) GetByID(_ context.Context, id uint64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeDirectory) GetByGoogleID(_ context.Context, googleID string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.GoogleID != "" && u.GoogleID == googleID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeDirectory) List(_ context.Context) ([]*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.User, 0, len(f.users))
	for _, u := range f.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeDirectory) Update(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.users[u.ID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for id, other := range f.users {
		if id != u.ID && other.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	stored.Name = u.Name
	stored.Email = u.Email
	stored.Phone = u.Phone
	stored.DOB = u.DOB
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakeDirectory) LinkGoogleID(_ context.Context, id uint64, googleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.GoogleID = googleID
	return nil
}

func (f *fakeDirectory) Delete(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeDirectory) FeeRecords(_ context.Context) ([]model.FeeRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.FeeRecord
	for _, u := range f.users {
		if u.Role != model.RoleStudent {
			continue
		}
		rec := model.FeeRecord{
			ID:        u.ID,
			Name:      u.Name,
			Course:    "N/A",
			AmountDue: u.FeeTotal,
			DueDate:   "N/A",
			Status:    model.FeeStatus(u.FeePaid, u.FeeTotal),
		}
		if u.NextFeeDue != nil {
			rec.DueDate = u.NextFeeDue.Format("2006-01-02")
		}
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeDirectory) RecordFee(_ context.Context, id uint64, totalFee, amountPaid int64, nextDue time.Time) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	u.FeeTotal = totalFee
	u.FeePaid += amountPaid
	u.NextFeeDue = &nextDue
	cp := *u
	return &cp, nil
}
