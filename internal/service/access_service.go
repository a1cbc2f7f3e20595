package service

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/nomavia/guestlink/internal/domain"
	"github.com/nomavia/guestlink/internal/repo/postgres"
)

// AccessService resolves an access code to a role and its record.
type AccessService interface {
	Resolve(ctx context.Context, code string) (*domain.Resolved, error)
}

type accessService struct {
	lodgingRepo    postgres.LodgingRepository
	operatorRepo   postgres.OperatorRepository
	superAdminCode string
}

func NewAccessService(
	lodgingRepo postgres.LodgingRepository,
	operatorRepo postgres.OperatorRepository,
	superAdminCode string,
) AccessService {
	return &accessService{
		lodgingRepo:    lodgingRepo,
		operatorRepo:   operatorRepo,
		superAdminCode: superAdminCode,
	}
}

// Resolve checks the lodging table first, then operators. The order is a
// policy choice: if a code ever exists in both spaces, guest identity
// wins.
func (s *accessService) Resolve(ctx context.Context, code string) (*domain.Resolved, error) {
	lodging, err := s.lodgingRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to look up lodging: %w", err)
	}
	if lodging != nil {
		return &domain.Resolved{Role: domain.RoleGuest, Lodging: lodging}, nil
	}

	operator, err := s.operatorRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to look up operator: %w", err)
	}
	if operator != nil {
		role := domain.RoleHost
		if s.isSuperAdmin(code) {
			role = domain.RoleAdmin
		}
		return &domain.Resolved{Role: role, Operator: operator}, nil
	}

	return nil, domain.ErrNotFound
}

// isSuperAdmin compares in constant time since the code acts as a
// credential.
func (s *accessService) isSuperAdmin(code string) bool {
	if s.superAdminCode == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(code), []byte(s.superAdminCode)) == 1
}
