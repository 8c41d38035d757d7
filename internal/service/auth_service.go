package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/Utfprpb-oficina-20251/server-sub001/internal/entity"
	"github.com/Utfprpb-oficina-20251/server-sub001/internal/repository"
	"github.com/Utfprpb-oficina-20251/server-sub001/internal/utils"
)

// AuthService is the surface the handlers call: code issuance with delivery,
// credential authentication with token issuance, and the authenticated user
// queries.
type AuthService struct {
	issuer    *CodeIssuer
	providers *ProviderRegistry
	users     repository.UserRepository
	audit     repository.AuditLogRepository

	emailSender  EmailSender
	accessTokens AccessTokenIssuer
	logger       logrus.FieldLogger
}

func NewAuthService(
	issuer *CodeIssuer,
	providers *ProviderRegistry,
	users repository.UserRepository,
	audit repository.AuditLogRepository,
	emailSender EmailSender,
	accessTokens AccessTokenIssuer,
	logger logrus.FieldLogger,
) *AuthService {
	return &AuthService{
		issuer:       issuer,
		providers:    providers,
		users:        users,
		audit:        audit,
		emailSender:  emailSender,
		accessTokens: accessTokens,
		logger:       logger,
	}
}

// RequestCode issues a fresh code for (email, purpose) and mails it. Mail
// delivery failure does not undo the issuance; the code stays valid and the
// failure is logged.
func (s *AuthService) RequestCode(ctx context.Context, input RequestCodeInput) error {
	if strings.TrimSpace(input.Email) == "" {
		return ErrInvalidInput
	}
	purpose := entity.CodePurpose(input.Purpose)
	if !purpose.Valid() {
		return ErrInvalidInput
	}
	email := utils.NormalizeEmail(input.Email)

	code, err := s.issuer.Issue(ctx, email, purpose)
	if err != nil {
		return err
	}

	s.logAudit(ctx, nil, input.IPAddress, entity.CodeIssued, map[string]any{
		"email":   email,
		"purpose": string(purpose),
	})

	if s.emailSender != nil {
		if err := s.emailSender.SendCode(ctx, email, code.Code, purpose); err != nil && s.logger != nil {
			s.logger.WithError(err).WithField("email", email).Warn("code email delivery failed")
		}
	}
	return nil
}

// Authenticate exchanges an (email, code) credential for an access token.
func (s *AuthService) Authenticate(ctx context.Context, input AuthenticateInput) (*AuthResult, error) {
	if strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Code) == "" {
		return nil, ErrAuthenticationFailed
	}

	principal, err := s.providers.Authenticate(ctx, Credential{
		Kind:  CredentialEmailCode,
		Email: input.Email,
		Code:  input.Code,
	})
	if err != nil {
		s.logAudit(ctx, nil, input.IPAddress, entity.AuthFailed, map[string]any{
			"email": utils.NormalizeEmail(input.Email),
		})
		return nil, err
	}

	token, ttl, err := s.accessTokens.IssueAccessToken(*principal)
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, &principal.UserID, input.IPAddress, entity.AuthSuccess, nil)
	return &AuthResult{
		Principal:   *principal,
		AccessToken: token,
		ExpiresIn:   ttl,
	}, nil
}

func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) ListUsers(ctx context.Context, limit, offset int) ([]entity.User, error) {
	return s.users.List(ctx, limit, offset)
}

func (s *AuthService) logAudit(
	ctx context.Context,
	userID *uuid.UUID,
	ipAddress *string,
	action entity.AuditAction,
	metadata map[string]any,
) {
	if s.audit == nil {
		return
	}
	var payload datatypes.JSON
	if metadata != nil {
		bytes, err := json.Marshal(metadata)
		if err != nil {
			return
		}
		payload = datatypes.JSON(bytes)
	}
	entry := &entity.AuditLog{
		UserID:    userID,
		IPAddress: ipAddress,
		Action:    action,
		Metadata:  payload,
	}
	if err := s.audit.Log(ctx, entry); err != nil && s.logger != nil {
		s.logger.WithError(err).Warn("audit log write failed")
	}
}
