package service

import (
	"context"
	"sync"
	"time"

	"github.com/Utfprpb-oficina-20251/server-sub001/internal/entity"
	"github.com/Utfprpb-oficina-20251/server-sub001/internal/repository"

	"github.com/google/uuid"
)

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFixedClock(now time.Time) *fixedClock {
	return &fixedClock{now: now}
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeCodeRepo mimics the store contract in memory, including global code
// uniqueness and the at-most-one-winner MarkUsed transition.
type fakeCodeRepo struct {
	mu      sync.Mutex
	records []*entity.VerificationCode

	failCreates int
	createErr   error
}

func newFakeCodeRepo() *fakeCodeRepo {
	return &fakeCodeRepo{}
}

func (r *fakeCodeRepo) Create(_ context.Context, code *entity.VerificationCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failCreates > 0 {
		r.failCreates--
		if r.createErr != nil {
			return r.createErr
		}
		return repository.ErrDuplicateCode
	}
	for _, existing := range r.records {
		if existing.Code == code.Code {
			return repository.ErrDuplicateCode
		}
	}
	if code.ID == uuid.Nil {
		code.ID = uuid.New()
	}
	stored := *code
	r.records = append(r.records, &stored)
	return nil
}

func (r *fakeCodeRepo) FindLatest(_ context.Context, email string, purpose entity.CodePurpose) (*entity.VerificationCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var latest *entity.VerificationCode
	for _, record := range r.records {
		if record.Email != email || record.Purpose != purpose {
			continue
		}
		if latest == nil || record.GeneratedAt.After(latest.GeneratedAt) {
			latest = record
		}
	}
	if latest == nil {
		return nil, nil
	}
	found := *latest
	return &found, nil
}

func (r *fakeCodeRepo) FindByCode(_ context.Context, value string) (*entity.VerificationCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, record := range r.records {
		if record.Code == value {
			found := *record
			return &found, nil
		}
	}
	return nil, nil
}

func (r *fakeCodeRepo) ListIssuedSince(_ context.Context, email string, purpose entity.CodePurpose, since time.Time) ([]entity.VerificationCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matches []entity.VerificationCode
	for _, record := range r.records {
		if record.Email == email && record.Purpose == purpose && !record.GeneratedAt.Before(since) {
			matches = append(matches, *record)
		}
	}
	return matches, nil
}

func (r *fakeCodeRepo) MarkUsed(_ context.Context, id uuid.UUID, usedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, record := range r.records {
		if record.ID != id {
			continue
		}
		if record.UsedAt != nil {
			return false, nil
		}
		stamp := usedAt
		record.UsedAt = &stamp
		return true, nil
	}
	return false, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users []*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	repo := &fakeUserRepo{}
	for _, user := range users {
		stored := *user
		if stored.ID == uuid.Nil {
			stored.ID = uuid.New()
		}
		repo.users = append(repo.users, &stored)
	}
	return repo
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	stored := *user
	r.users = append(r.users, &stored)
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.ID == id {
			found := *user
			return &found, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			found := *user
			return &found, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Activate(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.ID == id {
			user.IsActive = true
		}
	}
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, limit, offset int) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var users []entity.User
	for _, user := range r.users {
		users = append(users, *user)
	}
	return users, nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []entity.AuditLog
}

func (r *fakeAuditRepo) Log(_ context.Context, log *entity.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *log)
	return nil
}

func (r *fakeAuditRepo) actions() []entity.AuditAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	var actions []entity.AuditAction
	for _, entry := range r.entries {
		actions = append(actions, entry.Action)
	}
	return actions
}

type sentMail struct {
	Email   string
	Code    string
	Purpose entity.CodePurpose
}

type fakeEmailSender struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (s *fakeEmailSender) SendCode(_ context.Context, email string, code string, purpose entity.CodePurpose) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMail{Email: email, Code: code, Purpose: purpose})
	return nil
}

type stubTokenIssuer struct{}

func (stubTokenIssuer) IssueAccessToken(Principal) (string, time.Duration, error) {
	return "stub-token", 15 * time.Minute, nil
}
