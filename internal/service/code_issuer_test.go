package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Utfprpb-oficina-20251/server-sub001/internal/entity"

	"github.com/stretchr/testify/assert"
)

var testPolicies = OTPConfig{
	Policies: map[entity.CodePurpose]PurposePolicy{
		entity.PurposeAuthentication: {
			TTL:            5 * time.Minute,
			CodeLength:     6,
			MaxPerWindow:   3,
			ThrottleWindow: 15 * time.Minute,
		},
	},
}

func TestIssueStoresRecordWithPolicyTTL(t *testing.T) {
	repo := newFakeCodeRepo()
	clock := newFixedClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	issuer := NewCodeIssuer(repo, clock, testPolicies)

	code, err := issuer.Issue(context.Background(), "a@b.com", entity.PurposeAuthentication)
	assert.NoError(t, err)
	assert.Len(t, code.Code, 6)
	assert.Equal(t, clock.Now(), code.GeneratedAt)
	assert.Equal(t, clock.Now().Add(5*time.Minute), code.ExpiresAt)
	assert.Nil(t, code.UsedAt)

	stored, err := repo.FindByCode(context.Background(), code.Code)
	assert.NoError(t, err)
	assert.NotNil(t, stored)
}

func TestIssueRejectsInvalidPurpose(t *testing.T) {
	issuer := NewCodeIssuer(newFakeCodeRepo(), newFixedClock(time.Now()), testPolicies)

	_, err := issuer.Issue(context.Background(), "a@b.com", entity.CodePurpose("banana"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestIssueThrottlesAfterMaxPerWindow(t *testing.T) {
	repo := newFakeCodeRepo()
	clock := newFixedClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	issuer := NewCodeIssuer(repo, clock, testPolicies)

	for i := 0; i < 3; i++ {
		_, err := issuer.Issue(context.Background(), "a@b.com", entity.PurposeAuthentication)
		assert.NoError(t, err)
		clock.Advance(time.Minute)
	}

	_, err := issuer.Issue(context.Background(), "a@b.com", entity.PurposeAuthentication)
	assert.ErrorIs(t, err, ErrRateLimited)

	// A different address is not affected by the throttled one.
	_, err = issuer.Issue(context.Background(), "c@d.com", entity.PurposeAuthentication)
	assert.NoError(t, err)
}

func TestIssueAllowedAgainAfterWindowPasses(t *testing.T) {
	repo := newFakeCodeRepo()
	clock := newFixedClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	issuer := NewCodeIssuer(repo, clock, testPolicies)

	for i := 0; i < 3; i++ {
		_, err := issuer.Issue(context.Background(), "a@b.com", entity.PurposeAuthentication)
		assert.NoError(t, err)
	}
	clock.Advance(16 * time.Minute)

	_, err := issuer.Issue(context.Background(), "a@b.com", entity.PurposeAuthentication)
	assert.NoError(t, err)
}

func TestIssueRetriesOnCodeCollision(t *testing.T) {
	repo := newFakeCodeRepo()
	repo.failCreates = 2
	issuer := NewCodeIssuer(repo, newFixedClock(time.Now()), testPolicies)

	code, err := issuer.Issue(context.Background(), "a@b.com", entity.PurposeAuthentication)
	assert.NoError(t, err)
	assert.NotNil(t, code)
}

func TestIssueFailsAfterExhaustedRetries(t *testing.T) {
	repo := newFakeCodeRepo()
	repo.failCreates = 3
	issuer := NewCodeIssuer(repo, newFixedClock(time.Now()), testPolicies)

	_, err := issuer.Issue(context.Background(), "a@b.com", entity.PurposeAuthentication)
	assert.ErrorIs(t, err, ErrIssuanceFailed)
}

func TestIssueSurfacesStoreErrors(t *testing.T) {
	repo := newFakeCodeRepo()
	repo.failCreates = 1
	repo.createErr = errors.New("connection reset")
	issuer := NewCodeIssuer(repo, newFixedClock(time.Now()), testPolicies)

	_, err := issuer.Issue(context.Background(), "a@b.com", entity.PurposeAuthentication)
	assert.EqualError(t, err, "connection reset")
}
