package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/diewo77/go-profiles/auth"
	"github.com/diewo77/go-profiles/gate"
	"github.com/diewo77/go-profiles/internal/models"
	"github.com/diewo77/go-profiles/internal/repository"
	"github.com/diewo77/go-profiles/validation"
)

// CodeUsernameTaken is reported when registering an existing username.
const CodeUsernameTaken = "username_taken"

type LoginResult struct {
	Token    string       `json:"token"`
	UserID   uint         `json:"user_id"`
	Username string       `json:"username"`
	Profile  *ProfileView `json:"profile"`
}

type RegisterInput struct {
	Username  string
	Password  string
	Password2 string
	Email     string
	FirstName string
	LastName  string
}

type RegisterResult struct {
	Token    string `json:"token"`
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

type AuthService struct {
	store    *repository.Store
	policy   *validation.PasswordPolicy
	mediaURL func(string) string
	newToken func() (string, error)
}

func NewAuthService(store *repository.Store, policy *validation.PasswordPolicy, mediaURL func(string) string) *AuthService {
	if policy == nil {
		policy = validation.DefaultPasswordPolicy()
	}
	return &AuthService{store: store, policy: policy, mediaURL: mediaURL, newToken: auth.NewToken}
}

// Login checks credentials and returns the account token, creating it on first login.
// Unknown users, wrong passwords and accounts without a password are indistinguishable.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, &ValidationError{Code: "credentials_required"}
	}
	account, err := s.store.Accounts().FindByUsername(ctx, username)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !account.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, s.store, account.ID)
	if err != nil {
		return nil, err
	}
	res := &LoginResult{Token: token, UserID: account.ID, Username: account.Username}

	profile, err := s.store.Profiles().FindByAccountID(ctx, account.ID)
	switch {
	case err == nil:
		view := NewProfileView(profile, s.mediaURL)
		res.Profile = &view
	case !repository.IsNotFound(err):
		return nil, err
	}
	return res, nil
}

// Register creates an account with a password and issues its token. No profile is created.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	v := make(validation.Violations)
	validation.Required("username", in.Username, v)
	validation.Username("username", in.Username, v)
	validation.Required("password", in.Password, v)
	validation.Required("password2", in.Password2, v)
	validation.Email("email", in.Email, v)
	validation.MaxLength("first_name", in.FirstName, 150, v)
	validation.MaxLength("last_name", in.LastName, 150, v)
	if in.Password != "" {
		s.policy.Validate("password", in.Password, v, in.Username, in.FirstName, in.LastName, in.Email)
	}
	if in.Password != "" && in.Password2 != "" && in.Password != in.Password2 {
		v.Add("password", validation.CodePasswordMismatch)
	}
	if _, bad := v["username"]; !bad {
		taken, err := s.store.Accounts().UsernameExists(ctx, in.Username)
		if err != nil {
			return nil, err
		}
		if taken {
			v.Add("username", CodeUsernameTaken)
		}
	}
	if err := Invalid(v); err != nil {
		return nil, err
	}

	account := &models.Account{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}
	if err := account.SetPassword(in.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var token string
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Accounts().Create(ctx, account); err != nil {
			return err
		}
		var err error
		token, err = s.issueToken(ctx, tx, account.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &RegisterResult{Token: token, UserID: account.ID, Username: account.Username}, nil
}

func (s *AuthService) issueToken(ctx context.Context, store *repository.Store, accountID uint) (string, error) {
	key, err := s.newToken()
	if err != nil {
		return "", err
	}
	token, err := store.Accounts().GetOrCreateToken(ctx, accountID, key)
	if err != nil {
		return "", err
	}
	return token.Key, nil
}

// ResolveToken maps a token key to its account id for the auth middleware.
// Unknown keys yield gate.ErrNotFound.
func (s *AuthService) ResolveToken(ctx context.Context, key string) (uint, error) {
	token, err := s.store.Accounts().FindToken(ctx, key)
	if err != nil {
		if repository.IsNotFound(err) {
			return 0, gate.ErrNotFound
		}
		return 0, err
	}
	return token.AccountID, nil
}

// TokenResolver exposes ResolveToken as a gate resolver.
func (s *AuthService) TokenResolver() gate.Resolver[string, uint] {
	return gate.ResolverFunc[string, uint](s.ResolveToken)
}
