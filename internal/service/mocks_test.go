package service_test

import (
	"fmt"
	"sort"
	"sync"
	"time"

	appErrors "github.com/reviewloop/reviewloop-backend/internal/errors"
	"github.com/reviewloop/reviewloop-backend/internal/model"
	"github.com/reviewloop/reviewloop-backend/internal/repository"
)

// MockJobRepo keeps jobs in memory and mirrors the real store's
// contract: recipient validation before insert, the unique
// (user, review, channel) backstop, and idempotent terminal transitions.
type MockJobRepo struct {
	mu     sync.Mutex
	nextID int
	jobs   []*model.AutomationJob
}

func NewMockJobRepo() *MockJobRepo {
	return &MockJobRepo{nextID: 1}
}

func (m *MockJobRepo) Insert(job *model.AutomationJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch job.Channel {
	case model.ChannelEmail:
		if job.RecipientEmail == "" {
			return appErrors.NewValidation("email job for review %s has no recipient email", job.ReviewID)
		}
	case model.ChannelSMS:
		if job.RecipientPhone == "" {
			return appErrors.NewValidation("sms job for review %s has no recipient phone", job.ReviewID)
		}
	default:
		return appErrors.NewValidation("unknown channel %q", job.Channel)
	}

	if job.ReviewID != "" {
		for _, existing := range m.jobs {
			if existing.UserID == job.UserID && existing.ReviewID == job.ReviewID && existing.Channel == job.Channel {
				return repository.ErrAlreadyScheduled
			}
		}
	}

	job.ID = m.nextID
	m.nextID++
	job.Status = model.JobStatusPending
	job.CreatedAt = time.Now()
	m.jobs = append(m.jobs, job)
	return nil
}

func (m *MockJobRepo) ExistsForReview(userID int, reviewID, channel string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, j := range m.jobs {
		if j.UserID == userID && j.ReviewID == reviewID && j.Channel == channel {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockJobRepo) ExistsForCustomerEventSince(userID int, customerID, event string, since time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, j := range m.jobs {
		if j.UserID == userID && j.CustomerID == customerID && j.TriggerEvent == event && !j.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockJobRepo) ListDue(now time.Time, limit int) ([]*model.AutomationJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	due := []*model.AutomationJob{}
	for _, j := range m.jobs {
		if j.Status == model.JobStatusPending && !j.ScheduledFor.After(now) {
			due = append(due, j)
		}
	}
	sort.Slice(due, func(a, b int) bool { return due[a].ScheduledFor.Before(due[b].ScheduledFor) })
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (m *MockJobRepo) ListPending(limit int) ([]*model.AutomationJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pending := []*model.AutomationJob{}
	for _, j := range m.jobs {
		if j.Status == model.JobStatusPending {
			pending = append(pending, j)
		}
	}
	sort.Slice(pending, func(a, b int) bool { return pending[a].ScheduledFor.Before(pending[b].ScheduledFor) })
	if len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (m *MockJobRepo) GetByID(id int) (*model.AutomationJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, j := range m.jobs {
		if j.ID == id {
			return j, nil
		}
	}
	return nil, nil
}

func (m *MockJobRepo) MarkCompleted(id int, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, j := range m.jobs {
		if j.ID == id && j.Status == model.JobStatusPending {
			j.Status = model.JobStatusCompleted
			j.CompletedAt = &at
		}
	}
	return nil
}

func (m *MockJobRepo) MarkFailed(id int, errorMessage string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, j := range m.jobs {
		if j.ID == id && j.Status == model.JobStatusPending {
			j.Status = model.JobStatusFailed
			j.ErrorMessage = errorMessage
		}
	}
	return nil
}

// CountForReview is a test helper for the idempotency property.
func (m *MockJobRepo) CountForReview(reviewID, channel string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, j := range m.jobs {
		if j.ReviewID == reviewID && j.Channel == channel {
			n++
		}
	}
	return n
}

type MockTemplateRepo struct {
	templates map[string]*model.Template // key userID/channel
}

func NewMockTemplateRepo(templates ...*model.Template) *MockTemplateRepo {
	m := &MockTemplateRepo{templates: map[string]*model.Template{}}
	for i, t := range templates {
		if t.ID == 0 {
			t.ID = i + 1
		}
		m.templates[fmt.Sprintf("%d/%s", t.UserID, t.Channel)] = t
	}
	return m
}

func (m *MockTemplateRepo) GetByUserChannel(userID int, channel string) (*model.Template, error) {
	return m.templates[fmt.Sprintf("%d/%s", userID, channel)], nil
}

func (m *MockTemplateRepo) GetByID(id int) (*model.Template, error) {
	for _, t := range m.templates {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (m *MockTemplateRepo) Upsert(t *model.Template) error {
	if t.ID == 0 {
		t.ID = len(m.templates) + 1
	}
	m.templates[fmt.Sprintf("%d/%s", t.UserID, t.Channel)] = t
	return nil
}

type MockReviewRepo struct {
	reviews map[string]*model.Review
}

func NewMockReviewRepo(reviews ...*model.Review) *MockReviewRepo {
	m := &MockReviewRepo{reviews: map[string]*model.Review{}}
	for _, r := range reviews {
		m.reviews[r.ID] = r
	}
	return m
}

func (m *MockReviewRepo) GetByID(id string) (*model.Review, error) {
	return m.reviews[id], nil
}

func (m *MockReviewRepo) ListRecentByUser(userID int, since time.Time) ([]*model.Review, error) {
	out := []*model.Review{}
	for _, r := range m.reviews {
		if r.UserID == userID && !r.CreatedAt.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

type MockCustomerRepo struct {
	customers map[string]*model.Customer
}

func NewMockCustomerRepo(customers ...*model.Customer) *MockCustomerRepo {
	m := &MockCustomerRepo{customers: map[string]*model.Customer{}}
	for _, c := range customers {
		m.customers[c.ID] = c
	}
	return m
}

func (m *MockCustomerRepo) GetByID(id string, userID int) (*model.Customer, error) {
	c := m.customers[id]
	if c == nil || c.UserID != userID {
		return nil, nil
	}
	return c, nil
}

type MockUserRepo struct {
	users map[int]*model.User
}

func NewMockUserRepo(users ...*model.User) *MockUserRepo {
	m := &MockUserRepo{users: map[int]*model.User{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *MockUserRepo) GetByID(id int) (*model.User, error) {
	return m.users[id], nil
}

var (
	_ repository.JobRepositoryInterface      = (*MockJobRepo)(nil)
	_ repository.TemplateRepositoryInterface = (*MockTemplateRepo)(nil)
	_ repository.ReviewRepositoryInterface   = (*MockReviewRepo)(nil)
	_ repository.CustomerRepositoryInterface = (*MockCustomerRepo)(nil)
	_ repository.UserRepositoryInterface     = (*MockUserRepo)(nil)
)
