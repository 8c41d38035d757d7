package service

import (
	"context"
	"time"

	"github.com/Utfprpb-oficina-20251/server-sub001/internal/entity"
)

// PurposePolicy bounds issuance for one code purpose.
type PurposePolicy struct {
	TTL            time.Duration
	CodeLength     int
	MaxPerWindow   int
	ThrottleWindow time.Duration
}

type OTPConfig struct {
	Policies map[entity.CodePurpose]PurposePolicy
}

// Policy returns the configured policy for purpose, with zero fields filled
// from defaults.
func (c OTPConfig) Policy(purpose entity.CodePurpose) PurposePolicy {
	policy := c.Policies[purpose]
	if policy.TTL == 0 {
		policy.TTL = defaultTTL(purpose)
	}
	if policy.CodeLength == 0 {
		policy.CodeLength = 6
	}
	if policy.MaxPerWindow == 0 {
		policy.MaxPerWindow = 3
	}
	if policy.ThrottleWindow == 0 {
		policy.ThrottleWindow = 15 * time.Minute
	}
	return policy
}

func defaultTTL(purpose entity.CodePurpose) time.Duration {
	switch purpose {
	case entity.PurposeRegistration:
		return 15 * time.Minute
	case entity.PurposeRecovery:
		return 10 * time.Minute
	default:
		return 5 * time.Minute
	}
}

type EmailSender interface {
	SendCode(ctx context.Context, email string, code string, purpose entity.CodePurpose) error
}

type AccessTokenIssuer interface {
	IssueAccessToken(principal Principal) (string, time.Duration, error)
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}
