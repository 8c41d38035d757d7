package entity

import (
	"time"

	"github.com/google/uuid"
)

type CodePurpose string

const (
	PurposeAuthentication CodePurpose = "authentication"
	PurposeRegistration   CodePurpose = "registration"
	PurposeRecovery       CodePurpose = "recovery"
)

func (p CodePurpose) Valid() bool {
	switch p {
	case PurposeAuthentication, PurposeRegistration, PurposeRecovery:
		return true
	}
	return false
}

// VerificationCode is one issued email code. Codes are never deleted by the
// service; a new issuance for the same (email, purpose) supersedes older rows
// without touching them.
type VerificationCode struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	Email   string      `gorm:"type:varchar(255);not null;index:idx_codes_email_purpose"`
	Code    string      `gorm:"type:varchar(16);not null;uniqueIndex"`
	Purpose CodePurpose `gorm:"type:varchar(32);not null;index:idx_codes_email_purpose"`

	GeneratedAt time.Time `gorm:"not null;index"`
	ExpiresAt   time.Time `gorm:"not null"`
	UsedAt      *time.Time
}

func (VerificationCode) TableName() string {
	return "verification_codes"
}

func (v *VerificationCode) IsUsed() bool {
	return v.UsedAt != nil
}

func (v *VerificationCode) IsExpired(now time.Time) bool {
	return now.After(v.ExpiresAt)
}
