package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Utfprpb-oficina-20251/server-sub001/internal/entity"
	"github.com/Utfprpb-oficina-20251/server-sub001/internal/repository"
	"github.com/Utfprpb-oficina-20251/server-sub001/internal/utils"
)

// EmailCodeProvider authenticates an (email, code) credential against the
// authentication-purpose code for that email. Every failure cause collapses
// into ErrAuthenticationFailed so callers cannot probe which emails exist or
// which codes expired.
type EmailCodeProvider struct {
	validator *CodeValidator
	users     repository.UserRepository
	audit     repository.AuditLogRepository
	logger    logrus.FieldLogger
}

func NewEmailCodeProvider(
	validator *CodeValidator,
	users repository.UserRepository,
	audit repository.AuditLogRepository,
	logger logrus.FieldLogger,
) *EmailCodeProvider {
	return &EmailCodeProvider{
		validator: validator,
		users:     users,
		audit:     audit,
		logger:    logger,
	}
}

func (p *EmailCodeProvider) Supports(kind CredentialKind) bool {
	return kind == CredentialEmailCode
}

func (p *EmailCodeProvider) Authenticate(ctx context.Context, credential Credential) (*Principal, error) {
	email := utils.NormalizeEmail(credential.Email)

	ok, err := p.validator.Validate(ctx, email, entity.PurposeAuthentication, credential.Code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAuthenticationFailed
	}

	user, err := p.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// A code validated for an email without an account means issuance
		// was scoped wrong; worth an alert, but the caller still gets the
		// opaque failure.
		if p.logger != nil {
			p.logger.WithField("email", email).Error("validated code for unknown account")
		}
		return nil, ErrAuthenticationFailed
	}

	if !user.IsActive {
		if err := p.users.Activate(ctx, user.ID); err != nil {
			return nil, err
		}
		user.IsActive = true
		p.logAudit(ctx, user.ID, entity.AccountActivated)
	}

	return &Principal{
		UserID:      user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Role:        user.Role,
		Authorities: authoritiesFor(user.Role),
	}, nil
}

func (p *EmailCodeProvider) logAudit(ctx context.Context, userID uuid.UUID, action entity.AuditAction) {
	if p.audit == nil {
		return
	}
	entry := &entity.AuditLog{UserID: &userID, Action: action}
	if err := p.audit.Log(ctx, entry); err != nil && p.logger != nil {
		p.logger.WithError(err).Warn("audit log write failed")
	}
}

func authoritiesFor(role entity.UserRole) []string {
	switch role {
	case entity.UserRoleAdmin:
		return []string{"user", "staff", "admin"}
	case entity.UserRoleStaff:
		return []string{"user", "staff"}
	default:
		return []string{"user"}
	}
}
