package handler

import (
	"context"
	"sync"
	"time"

	"github.com/edulite/edulite/internal/model"
	"github.com/edulite/edulite/internal/repository"
)

// fakeCatalog is an in-memory CourseCatalog for handler tests. Enrollment
// pairs are unique, as the join table's index guarantees.
type fakeCatalog struct {
	mu       sync.Mutex
	nextID   uint64
	courses  map[uint64]*model.Course
	enrolled map[uint64][]uint64 // courseID -> userIDs in enroll order
	users    *fakeDirectory      // for enrollee details
}

var _ repository.CourseCatalog = (*fakeCatalog)(nil)

func newFakeCatalog(users *fakeDirectory) *fakeCatalog {
	return &fakeCatalog{
		nextID:   1,
		courses:  map[uint64]*model.Course{},
		enrolled: map[uint64][]uint64{},
		users:    users,
	}
}

func (f *fakeCatalog) Create(_ context.Context, c *model.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = f.nextID
	f.nextID++
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	cp := *c
	f.courses[c.ID] = &cp
	return nil
}

func (f *fakeCatalog) GetByID(ctx context.Context, id uint64) (*model.CourseWithStudents, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.courses[id]
	if !ok {
		return nil, repository.ErrCourseNotFound
	}
	return f.withStudents(ctx, c), nil
}

func (f *fakeCatalog) List(ctx context.Context) ([]*model.CourseWithStudents, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.CourseWithStudents, 0, len(f.courses))
	for _, c := range f.courses {
		out = append(out, f.withStudents(ctx, c))
	}
	return out, nil
}

func (f *fakeCatalog) Delete(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.courses[id]; !ok {
		return repository.ErrCourseNotFound
	}
	delete(f.courses, id)
	delete(f.enrolled, id)
	return nil
}

func (f *fakeCatalog) Enroll(_ context.Context, courseID, userID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, uid := range f.enrolled[courseID] {
		if uid == userID {
			return repository.ErrAlreadyEnrolled
		}
	}
	f.enrolled[courseID] = append(f.enrolled[courseID], userID)
	return nil
}

func (f *fakeCatalog) Unenroll(_ context.Context, courseID, userID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := f.enrolled[courseID]
	for i, uid := range ids {
		if uid == userID {
			f.enrolled[courseID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotEnrolled
}

func (f *fakeCatalog) NamesByStudent(_ context.Context) (map[uint64][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[uint64][]string{}
	for cid, uids := range f.enrolled {
		c, ok := f.courses[cid]
		if !ok {
			continue
		}
		for _, uid := range uids {
			out[uid] = append(out[uid], c.Name)
		}
	}
	return out, nil
}

func (f *fakeCatalog) withStudents(ctx context.Context, c *model.Course) *model.CourseWithStudents {
	cw := &model.CourseWithStudents{Course: *c, EnrolledStudents: []model.Enrollee{}}
	for _, uid := range f.enrolled[c.ID] {
		u, err := f.users.GetByID(ctx, uid)
		if err != nil {
			continue
		}
		cw.EnrolledStudents = append(cw.EnrolledStudents, model.Enrollee{ID: u.ID, Name: u.Name, Email: u.Email})
	}
	return cw
}
