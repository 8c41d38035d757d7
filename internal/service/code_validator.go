package service

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/Utfprpb-oficina-20251/server-sub001/internal/entity"
	"github.com/Utfprpb-oficina-20251/server-sub001/internal/repository"
)

// CodeValidator decides whether a submitted code is accepted and consumes
// the matching record on acceptance.
type CodeValidator struct {
	codes repository.VerificationCodeRepository
	clock Clock
}

func NewCodeValidator(codes repository.VerificationCodeRepository, clock Clock) *CodeValidator {
	return &CodeValidator{codes: codes, clock: clock}
}

// Validate checks submitted against the latest record for (email, purpose).
// Only the latest record is eligible: a fresh issuance supersedes every
// earlier code for the pair, even codes that have not yet expired. A returned
// error reports store failure, never a rejection.
func (v *CodeValidator) Validate(
	ctx context.Context,
	email string,
	purpose entity.CodePurpose,
	submitted string,
) (bool, error) {

	record, err := v.codes.FindLatest(ctx, email, purpose)
	if err != nil {
		return false, err
	}
	if record == nil {
		return false, nil
	}
	if record.IsUsed() {
		return false, nil
	}
	if record.IsExpired(v.now()) {
		return false, nil
	}
	if subtle.ConstantTimeCompare([]byte(submitted), []byte(record.Code)) != 1 {
		return false, nil
	}

	// Exactly one of any concurrent validators wins the unused-to-used
	// transition; the rest fail here.
	won, err := v.codes.MarkUsed(ctx, record.ID, v.now())
	if err != nil {
		return false, err
	}
	return won, nil
}

func (v *CodeValidator) now() time.Time {
	if v.clock == nil {
		return RealClock{}.Now()
	}
	return v.clock.Now()
}
