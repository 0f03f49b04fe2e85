package user

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/mindtrack/mindtrack/internal/domain/audit"
	"github.com/mindtrack/mindtrack/internal/platform/apperr"
	"github.com/mindtrack/mindtrack/internal/platform/auth"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validRoles = map[string]bool{
	auth.RolePatient:  true,
	auth.RoleProvider: true,
}

type Service struct {
	repo   Repository
	issuer *auth.TokenIssuer
	audit  *audit.Recorder
}

func NewService(repo Repository, issuer *auth.TokenIssuer, recorder *audit.Recorder) *Service {
	return &Service{repo: repo, issuer: issuer, audit: recorder}
}

func validateSignup(req *SignupRequest) []apperr.FieldError {
	var fields []apperr.FieldError
	if n := len(req.Username); n < 3 || n > 50 {
		fields = append(fields, apperr.FieldError{Field: "username", Message: "username must be between 3 and 50 characters"})
	}
	if !emailPattern.MatchString(req.Email) {
		fields = append(fields, apperr.FieldError{Field: "email", Message: "email must be a valid email address"})
	}
	if len(req.Password) < 8 {
		fields = append(fields, apperr.FieldError{Field: "password", Message: "password must be at least 8 characters"})
	}
	if !validRoles[req.Role] {
		fields = append(fields, apperr.FieldError{Field: "role", Message: "role must be patient or provider"})
	}
	return fields
}

// Signup creates an account and returns a fresh session token. The stored
// credential is a bcrypt hash; the plaintext is never persisted.
func (s *Service) Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if fields := validateSignup(req); len(fields) > 0 {
		return nil, apperr.ValidationFields(fields...)
	}

	taken, err := s.repo.ExistsByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if taken {
		return nil, apperr.Validation("username or email already exists")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	u := &User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		// A concurrent signup can slip past the exists check and hit the
		// unique constraint instead.
		if errors.Is(err, ErrDuplicate) {
			return nil, apperr.Validation("username or email already exists")
		}
		return nil, apperr.Internal(err)
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:       &u.ID,
		Action:       audit.ActionUserSignup,
		ResourceType: "user",
		ResourceID:   &u.ID,
		Details:      map[string]any{"username": u.Username, "role": u.Role},
	})

	token, err := s.issuer.Generate(u.ID, u.Username, u.Role)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &AuthResponse{Token: token, User: u}, nil
}

// Login authenticates username+password+role. Every failure mode returns the
// same generic error so callers cannot probe which part was wrong.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	invalid := apperr.Auth("invalid credentials")

	u, err := s.repo.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, invalid
		}
		return nil, apperr.Internal(err)
	}
	if u.Role != req.Role || !u.IsActive {
		return nil, invalid
	}
	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		return nil, invalid
	}

	if err := s.repo.UpdateLastLogin(ctx, u.ID); err != nil {
		return nil, apperr.Internal(err)
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:       &u.ID,
		Action:       audit.ActionUserLogin,
		ResourceType: "user",
		ResourceID:   &u.ID,
	})

	token, err := s.issuer.Generate(u.ID, u.Username, u.Role)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &AuthResponse{Token: token, User: u}, nil
}
