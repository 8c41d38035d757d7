package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Utfprpb-oficina-20251/server-sub001/internal/entity"
)

type CredentialKind string

const CredentialEmailCode CredentialKind = "email_code"

// Credential is a tagged authentication request. The kind selects the
// provider; the remaining fields are interpreted by it.
type Credential struct {
	Kind  CredentialKind
	Email string
	Code  string
}

// Principal is an authenticated identity handed to the session layer.
type Principal struct {
	UserID      uuid.UUID
	Email       string
	Name        string
	Role        entity.UserRole
	Authorities []string
}

type Provider interface {
	Supports(kind CredentialKind) bool
	Authenticate(ctx context.Context, credential Credential) (*Principal, error)
}

// ProviderRegistry dispatches credentials to the first provider that
// supports their kind.
type ProviderRegistry struct {
	providers []Provider
}

func NewProviderRegistry(providers ...Provider) *ProviderRegistry {
	return &ProviderRegistry{providers: providers}
}

func (r *ProviderRegistry) Register(provider Provider) {
	r.providers = append(r.providers, provider)
}

func (r *ProviderRegistry) Authenticate(ctx context.Context, credential Credential) (*Principal, error) {
	for _, provider := range r.providers {
		if provider.Supports(credential.Kind) {
			return provider.Authenticate(ctx, credential)
		}
	}
	return nil, ErrAuthenticationFailed
}
