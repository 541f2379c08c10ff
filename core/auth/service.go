package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Ayavuzer/manushotspot/core/cache"
	"github.com/Ayavuzer/manushotspot/core/store"
	"github.com/Ayavuzer/manushotspot/core/utils"
)

// Service implements the login, refresh and account flows. Refresh tokens
// are single-slot per user: issuing a new one invalidates whatever was
// stored before, and logout clears the slot.
type Service struct {
	users   store.UsersStore
	roles   store.RolesStore
	tokens  *TokenIssuer
	refresh *cache.RefreshTokenStore
	pepper  string
	logger  *utils.Logger

	defaultRole string
}

func NewService(users store.UsersStore, roles store.RolesStore, tokens *TokenIssuer, refresh *cache.RefreshTokenStore, pepper, defaultRole string, logger *utils.Logger) *Service {
	return &Service{
		users:       users,
		roles:       roles,
		tokens:      tokens,
		refresh:     refresh,
		pepper:      pepper,
		logger:      logger,
		defaultRole: defaultRole,
	}
}

type TokenPair struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type LoginResult struct {
	TokenPair
	User *store.User `json:"user"`
}

// Login verifies credentials and issues a fresh token pair. Unknown users,
// wrong passwords and disabled accounts are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	u, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if u == nil || !u.IsActive {
		return nil, ErrInvalidCredentials
	}
	stored, err := ParsePasswordHash(u.PasswordHash, u.Salt)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	ok, err := VerifyPassword(password, s.pepper, stored)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, u)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, u.ID, now); err != nil && s.logger != nil {
		s.logger.Errorf("update last login for user %d: %v", u.ID, err)
	}
	u.LastLoginAt = &now
	return &LoginResult{TokenPair: *pair, User: u}, nil
}

// Refresh rotates the token pair. The presented refresh token must match
// the stored one byte for byte; after rotation the old token is dead.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	stored, err := s.refresh.Get(ctx, claims.ID)
	if err != nil {
		if err == cache.ErrTokenNotFound {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !utils.ConstantTimeEquals([]byte(stored), []byte(refreshToken)) {
		return nil, ErrInvalidToken
	}
	u, err := s.users.Get(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if u == nil || !u.IsActive {
		return nil, ErrInvalidToken
	}
	return s.issuePair(ctx, u)
}

// Logout drops the stored refresh token. The access token stays valid until
// it expires on its own.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	return s.refresh.Delete(ctx, userID)
}

type RegisterParams struct {
	Username       string
	Email          string
	Password       string
	RoleID         int64
	IsSuperAdmin   bool
	OrganizationID *int64
}

// Register creates an account. Without an explicit role the default
// least-privilege role is assigned.
func (s *Service) Register(ctx context.Context, p RegisterParams) (*store.User, error) {
	username := strings.TrimSpace(p.Username)
	email := strings.TrimSpace(p.Email)
	if username == "" || email == "" || p.Password == "" {
		return nil, ErrMissingFields
	}
	exists, err := s.users.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateIdentity
	}

	roleID := p.RoleID
	if roleID == 0 {
		role, err := s.roles.GetByName(ctx, s.defaultRole)
		if err != nil {
			return nil, err
		}
		if role == nil {
			return nil, fmt.Errorf("default role %q is not seeded", s.defaultRole)
		}
		roleID = role.ID
	} else {
		role, err := s.roles.Get(ctx, roleID)
		if err != nil {
			return nil, err
		}
		if role == nil {
			return nil, ErrRoleNotFound
		}
	}

	hash, err := HashPassword(p.Password, s.pepper)
	if err != nil {
		return nil, err
	}
	u := &store.User{
		Username:       username,
		Email:          email,
		PasswordHash:   hash.Hash,
		Salt:           hash.Salt,
		RoleID:         roleID,
		IsSuperAdmin:   p.IsSuperAdmin,
		OrganizationID: p.OrganizationID,
		IsActive:       true,
	}
	id, err := s.users.Create(ctx, u)
	if err != nil {
		return nil, err
	}
	u.ID = id
	return u, nil
}

// Profile returns the account with its role name resolved.
func (s *Service) Profile(ctx context.Context, userID int64) (*store.UserWithRole, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	out := &store.UserWithRole{User: *u}
	role, err := s.roles.Get(ctx, u.RoleID)
	if err != nil {
		return nil, err
	}
	if role != nil {
		out.RoleName = role.Name
	}
	return out, nil
}

// ChangePassword verifies the current password before setting the new one
// and kills the refresh token so other sessions must log in again.
func (s *Service) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}
	stored, err := ParsePasswordHash(u.PasswordHash, u.Salt)
	if err != nil {
		return ErrInvalidCredentials
	}
	ok, err := VerifyPassword(current, s.pepper, stored)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCredentials
	}
	hash, err := HashPassword(next, s.pepper)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, hash.Hash, hash.Salt); err != nil {
		return err
	}
	return s.refresh.Delete(ctx, userID)
}

// HashFor exposes password hashing with the service pepper for callers that
// create users outside the register flow.
func (s *Service) HashFor(password string) (*PasswordHash, error) {
	return HashPassword(password, s.pepper)
}

func (s *Service) issuePair(ctx context.Context, u *store.User) (*TokenPair, error) {
	access, err := s.tokens.IssueAccessToken(u)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefreshToken(u.ID)
	if err != nil {
		return nil, err
	}
	if err := s.refresh.Save(ctx, u.ID, refresh, s.tokens.RefreshTTL()); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
