package service

import (
	"context"
	"errors"
	"time"

	"github.com/Utfprpb-oficina-20251/server-sub001/internal/entity"
	"github.com/Utfprpb-oficina-20251/server-sub001/internal/repository"
	"github.com/Utfprpb-oficina-20251/server-sub001/internal/utils"
)

// maxIssueAttempts bounds regeneration after a code-value collision.
const maxIssueAttempts = 3

// CodeIssuer generates and persists verification codes. It does not deliver
// them; mailing is the caller's concern.
type CodeIssuer struct {
	codes  repository.VerificationCodeRepository
	clock  Clock
	config OTPConfig
}

func NewCodeIssuer(codes repository.VerificationCodeRepository, clock Clock, config OTPConfig) *CodeIssuer {
	return &CodeIssuer{codes: codes, clock: clock, config: config}
}

func (i *CodeIssuer) Issue(ctx context.Context, email string, purpose entity.CodePurpose) (*entity.VerificationCode, error) {
	if !purpose.Valid() {
		return nil, ErrInvalidInput
	}
	policy := i.config.Policy(purpose)
	now := i.now()

	recent, err := i.codes.ListIssuedSince(ctx, email, purpose, now.Add(-policy.ThrottleWindow))
	if err != nil {
		return nil, err
	}
	if len(recent) >= policy.MaxPerWindow {
		return nil, ErrRateLimited
	}

	for attempt := 0; attempt < maxIssueAttempts; attempt++ {
		value, err := utils.GenerateNumericCode(policy.CodeLength)
		if err != nil {
			return nil, err
		}
		code := &entity.VerificationCode{
			Email:       email,
			Code:        value,
			Purpose:     purpose,
			GeneratedAt: now,
			ExpiresAt:   now.Add(policy.TTL),
		}
		err = i.codes.Create(ctx, code)
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, repository.ErrDuplicateCode) {
			return nil, err
		}
	}
	return nil, ErrIssuanceFailed
}

func (i *CodeIssuer) now() time.Time {
	if i.clock == nil {
		return RealClock{}.Now()
	}
	return i.clock.Now()
}
