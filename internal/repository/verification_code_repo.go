package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Utfprpb-oficina-20251/server-sub001/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrDuplicateCode is returned by Create when the code value already exists.
// Code values are globally unique across all rows ever written.
var ErrDuplicateCode = errors.New("code already exists")

type VerificationCodeRepository interface {
	Create(ctx context.Context, code *entity.VerificationCode) error
	FindLatest(ctx context.Context, email string, purpose entity.CodePurpose) (*entity.VerificationCode, error)
	FindByCode(ctx context.Context, code string) (*entity.VerificationCode, error)
	ListIssuedSince(ctx context.Context, email string, purpose entity.CodePurpose, since time.Time) ([]entity.VerificationCode, error)
	MarkUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) (bool, error)
}

type verificationCodeRepository struct {
	db *gorm.DB
}

func NewVerificationCodeRepository(db *gorm.DB) VerificationCodeRepository {
	return &verificationCodeRepository{db: db}
}

func (r *verificationCodeRepository) Create(ctx context.Context, code *entity.VerificationCode) error {
	err := r.db.WithContext(ctx).Create(code).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateCode
	}
	return err
}

// FindLatest returns the most recently generated row for (email, purpose)
// without filtering on used or expired; callers decide eligibility.
func (r *verificationCodeRepository) FindLatest(
	ctx context.Context,
	email string,
	purpose entity.CodePurpose,
) (*entity.VerificationCode, error) {

	var code entity.VerificationCode
	err := r.db.WithContext(ctx).
		Where("email = ? AND purpose = ?", email, purpose).
		Order("generated_at DESC").
		First(&code).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &code, err
}

func (r *verificationCodeRepository) FindByCode(ctx context.Context, value string) (*entity.VerificationCode, error) {
	var code entity.VerificationCode
	err := r.db.WithContext(ctx).
		Where("code = ?", value).
		First(&code).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &code, err
}

func (r *verificationCodeRepository) ListIssuedSince(
	ctx context.Context,
	email string,
	purpose entity.CodePurpose,
	since time.Time,
) ([]entity.VerificationCode, error) {

	var codes []entity.VerificationCode
	err := r.db.WithContext(ctx).
		Where("email = ? AND purpose = ? AND generated_at >= ?", email, purpose, since).
		Find(&codes).Error
	if err != nil {
		return nil, err
	}
	return codes, nil
}

// MarkUsed flips the row to used exactly once. The guarded update makes
// concurrent validators race safely: only the caller whose update actually
// changed the row gets true, everyone else observes a row that is already
// used.
func (r *verificationCodeRepository) MarkUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.VerificationCode{}).
		Where("id = ? AND used_at IS NULL", id).
		Update("used_at", &usedAt)

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
