package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/PickAim/jarvis-backend/internal/apperrors"
	"github.com/PickAim/jarvis-backend/internal/models"
	"github.com/PickAim/jarvis-backend/internal/repository"
	"github.com/PickAim/jarvis-backend/internal/service/auth/tokenmanager"
	"github.com/PickAim/jarvis-backend/internal/service/validate"
)

type Config struct {
	// Hasher to use during user registration or login process
	// PBKDF2 hasher is used if not set
	Hasher PasswordHasher
}

// AuthService orchestrates login, registration, logout and token refresh.
// It owns the invariant: one imprint maps to at most one live token pair
// per user.
type AuthService struct {
	tokens  *tokenmanager.Manager
	hasher  PasswordHasher
	storage repository.Storage
}

func NewService(cfg Config, tokens *tokenmanager.Manager, storage repository.Storage) (*AuthService, error) {
	if tokens == nil || storage == nil {
		return nil, errors.New("token manager and storage must not be nil")
	}

	hasher := cfg.Hasher
	if hasher == nil {
		hasher = NewPBKDF2Hasher(tokens)
	}

	return &AuthService{
		tokens:  tokens,
		hasher:  hasher,
		storage: storage,
	}, nil
}

// Register validates identifiers and password, then creates the account
// with its user atomically. At least one of email or phone is required.
func (s *AuthService) Register(ctx context.Context, email string, phone string, password string) error {
	phone = validate.PreparePhoneNumber(phone)

	if email == "" && phone == "" {
		return apperrors.ErrRegisterWithoutLogin
	}
	if email != "" {
		if err := validate.CheckEmail(email); err != nil {
			return err
		}
	}
	if phone != "" {
		if err := validate.CheckPhoneNumber(phone); err != nil {
			return err
		}
	}
	if err := validate.CheckPassword(password); err != nil {
		return err
	}

	// Early conflict check for the nicer error; the unique index on
	// accounts stays the real guard against races
	_, err := s.storage.User().GetAccount(ctx, email, phone)
	switch {
	case err == nil:
		return apperrors.ErrLoginAlreadyExists
	case !errors.Is(err, apperrors.ErrUserNotFound):
		return fmt.Errorf("error while checking existing login. Err: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("can't use this as password. Err: %w", err)
	}

	return s.storage.InTx(ctx, func(st repository.Storage) error {
		_, err := st.User().CreateUserAndAccount(ctx, repository.CreateUserParams{
			Email:          email,
			Phone:          phone,
			HashedPassword: hash,
			Privilege:      models.PrivilegeBasic,
		})
		return err
	})
}

// Login resolves the account by email or phone, verifies the password and
// issues a fresh token pair bound to the imprint. An absent imprint gets a
// newly generated one; a supplied imprint replaces the stored random parts
// of its existing session or, when unknown, starts a new session slot
// reusing the client value.
func (s *AuthService) Login(ctx context.Context, login string, password string, imprint string) (models.TokenTriple, error) {
	var triple models.TokenTriple

	account, err := s.storage.User().GetAccount(ctx, login, validate.PreparePhoneNumber(login))
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		// Not distinguishable from a wrong password on purpose
		return triple, apperrors.ErrIncorrectLoginOrPassword
	case err != nil:
		return triple, fmt.Errorf("error while resolving login. Err: %w", err)
	}

	if !s.hasher.Verify(password, account.HashedPassword) {
		return triple, apperrors.ErrIncorrectLoginOrPassword
	}

	user, err := s.storage.User().GetUserByAccount(ctx, account)
	if err != nil {
		return triple, fmt.Errorf("error while loading user. Err: %w", err)
	}

	access, err := s.tokens.CreateAccessToken(user.ID)
	if err != nil {
		return triple, fmt.Errorf("error while issuing access token. Err: %w", err)
	}
	update, err := s.tokens.CreateUpdateToken(user.ID)
	if err != nil {
		return triple, fmt.Errorf("error while issuing update token. Err: %w", err)
	}

	err = s.storage.InTx(ctx, func(st repository.Storage) error {
		if imprintAbsent(imprint) {
			imprint, err = s.tokens.CreateImprintToken()
			if err != nil {
				return err
			}
			return st.Session().SaveAllTokens(ctx, access.RandomPart, update.RandomPart, imprint, user.ID)
		}

		exists, err := st.Session().CheckTokenExist(ctx, user.ID, imprint, models.TokenKindUpdate)
		if err != nil {
			return err
		}
		if exists {
			return st.Session().UpdateSessionTokensByImprint(ctx, access.RandomPart, update.RandomPart, imprint, user.ID)
		}

		// Stale or foreign imprint: keep the client value, bind a new
		// session slot to the authenticated user
		return st.Session().SaveAllTokens(ctx, access.RandomPart, update.RandomPart, imprint, user.ID)
	})
	if err != nil {
		return triple, fmt.Errorf("error while persisting session. Err: %w", err)
	}

	return models.TokenTriple{
		TokenPair: models.TokenPair{Access: access, Update: update},
		Imprint:   imprint,
	}, nil
}

// RefreshPair rotates a session: issues a new access and update pair and
// atomically replaces the stored random parts matched by the old update
// token. A replayed or revoked update token fails with ErrIncorrectToken,
// as does any persistence failure during rotation (fail closed).
func (s *AuthService) RefreshPair(ctx context.Context, updateToken string) (models.TokenPair, error) {
	var pair models.TokenPair

	claims, err := s.tokens.Decode(updateToken)
	if err != nil {
		return pair, fmt.Errorf("%w: update token rejected", apperrors.ErrIncorrectToken)
	}

	kind, err := s.tokens.TokenKind(claims)
	if err != nil || kind != models.TokenKindUpdate {
		return pair, fmt.Errorf("%w: not an update token", apperrors.ErrIncorrectToken)
	}

	userID, err := s.tokens.UserID(claims)
	if err != nil {
		return pair, fmt.Errorf("%w: update token rejected", apperrors.ErrIncorrectToken)
	}
	oldRnd, err := s.tokens.RandomPart(claims)
	if err != nil {
		return pair, fmt.Errorf("%w: update token rejected", apperrors.ErrIncorrectToken)
	}

	access, err := s.tokens.CreateAccessToken(userID)
	if err != nil {
		return pair, fmt.Errorf("error while issuing access token. Err: %w", err)
	}
	update, err := s.tokens.CreateUpdateToken(userID)
	if err != nil {
		return pair, fmt.Errorf("error while issuing update token. Err: %w", err)
	}

	err = s.storage.InTx(ctx, func(st repository.Storage) error {
		return st.Session().UpdateSessionTokens(ctx, userID, oldRnd, access.RandomPart, update.RandomPart)
	})
	if err != nil {
		// Fail closed: any rotation failure means the token is unusable
		return pair, fmt.Errorf("%w: session rotation failed", apperrors.ErrIncorrectToken)
	}

	return models.TokenPair{Access: access, Update: update}, nil
}

// CheckAccess is the per request authorization check: the cheap local
// expiry test runs before the persisted state lookup, so expired tokens
// fail without touching storage. Returns the authenticated user.
func (s *AuthService) CheckAccess(ctx context.Context, accessToken string, imprint string) (models.User, error) {
	var user models.User

	claims, err := s.tokens.Decode(accessToken)
	if err != nil {
		return user, fmt.Errorf("%w: access token rejected", apperrors.ErrIncorrectToken)
	}

	if s.tokens.IsExpired(claims) {
		return user, apperrors.ErrTokenExpired
	}

	kind, err := s.tokens.TokenKind(claims)
	if err != nil || kind != models.TokenKindAccess {
		return user, fmt.Errorf("%w: not an access token", apperrors.ErrIncorrectToken)
	}

	userID, err := s.tokens.UserID(claims)
	if err != nil {
		return user, fmt.Errorf("%w: access token rejected", apperrors.ErrIncorrectToken)
	}
	rnd, err := s.tokens.RandomPart(claims)
	if err != nil {
		return user, fmt.Errorf("%w: access token rejected", apperrors.ErrIncorrectToken)
	}

	live, err := s.storage.Session().CheckTokenRandPart(ctx, rnd, userID, imprint, kind)
	if err != nil {
		return user, fmt.Errorf("error while checking session state. Err: %w", err)
	}
	if !live {
		// Signature alone is not sufficient: a superseded token has a
		// valid MAC but its random part is gone from storage
		return user, fmt.Errorf("%w: token superseded or revoked", apperrors.ErrIncorrectToken)
	}

	user, err = s.storage.User().GetUserByID(ctx, userID)
	if err != nil {
		return user, fmt.Errorf("error while loading user. Err: %w", err)
	}

	return user, nil
}

// Logout drops every session of the token subject bound to the imprint.
// Idempotent: a second logout on an already cleared imprint is a no-op.
func (s *AuthService) Logout(ctx context.Context, accessToken string, imprint string) error {
	claims, err := s.tokens.Decode(accessToken)
	if err != nil {
		return fmt.Errorf("%w: access token rejected", apperrors.ErrIncorrectToken)
	}

	userID, err := s.tokens.UserID(claims)
	if err != nil {
		return fmt.Errorf("%w: access token rejected", apperrors.ErrIncorrectToken)
	}

	return s.storage.Session().DeleteTokensForUser(ctx, userID, imprint)
}

// Swagger clients send literal "None" or "string" placeholders,
// treated the same as an absent imprint
func imprintAbsent(imprint string) bool {
	switch imprint {
	case "", "None", "string":
		return true
	}
	return false
}
