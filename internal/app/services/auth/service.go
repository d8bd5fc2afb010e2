// internal/app/services/auth/service.go

// Package authsvc authenticates users and issues bearer tokens.
package authsvc

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	organizationstore "github.com/coralhq/atrium/internal/app/store/organizations"
	userstore "github.com/coralhq/atrium/internal/app/store/users"
	"github.com/coralhq/atrium/internal/app/system/credentials"
	"github.com/coralhq/atrium/internal/app/system/fault"
	"github.com/coralhq/atrium/internal/app/system/metrics"
	"github.com/coralhq/atrium/internal/domain/models"
)

// msgInvalidCredentials is deliberately identical for an unknown username
// and a wrong password so login cannot be used to enumerate accounts.
const msgInvalidCredentials = "Invalid username or password"

// Service handles login.
type Service struct {
	users  userstore.Repository
	orgs   organizationstore.Repository
	hasher *credentials.Hasher
	tokens *TokenIssuer
	log    *zap.Logger
}

// New wires the service.
func New(users userstore.Repository, orgs organizationstore.Repository, hasher *credentials.Hasher, tokens *TokenIssuer, logger *zap.Logger) *Service {
	return &Service{users: users, orgs: orgs, hasher: hasher, tokens: tokens, log: logger}
}

// LoginResult is a successful authentication.
type LoginResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// Login authenticates by email and password. Platform admins bypass the
// organization checks entirely; everyone else requires an active org.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			metrics.Logins.WithLabelValues("failure").Inc()
			return nil, fault.New(fault.Unauthorized, msgInvalidCredentials)
		}
		return nil, fault.Wrap(fault.Internal, "look up user", err)
	}

	if u.Status != models.UserStatusActive {
		metrics.Logins.WithLabelValues("failure").Inc()
		return nil, fault.New(fault.Unauthorized, "User account is disabled")
	}

	if !u.IsPlatformAdmin() && u.OrgID != models.PlatformOrgID {
		org, err := s.orgs.GetByID(ctx, u.OrgID)
		if err != nil {
			if errors.Is(err, organizationstore.ErrNotFound) {
				metrics.Logins.WithLabelValues("failure").Inc()
				return nil, fault.New(fault.Unauthorized, "Organization not found")
			}
			return nil, fault.Wrap(fault.Internal, "load organization", err)
		}
		switch org.Status {
		case models.OrgStatusSuspended:
			metrics.Logins.WithLabelValues("failure").Inc()
			return nil, fault.New(fault.Unauthorized, "Organization is suspended")
		case models.OrgStatusCancelled:
			metrics.Logins.WithLabelValues("failure").Inc()
			return nil, fault.New(fault.Unauthorized, "Organization is cancelled")
		}
	}

	if !s.hasher.Verify(password, u.PasswordHash) {
		metrics.Logins.WithLabelValues("failure").Inc()
		return nil, fault.New(fault.Unauthorized, msgInvalidCredentials)
	}

	token, expires, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}

	metrics.Logins.WithLabelValues("success").Inc()
	s.log.Info("login",
		zap.String("userId", u.ID), zap.String("orgId", u.OrgID))
	return &LoginResult{User: u, Token: token, ExpiresAt: expires}, nil
}
