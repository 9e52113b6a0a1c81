package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/schoolplanner/backend/internal/models"
	"github.com/schoolplanner/backend/internal/store"
)

// TokenTTL is how long an access token stays valid after issuance.
const TokenTTL = time.Hour

// Store defines the persistence the token service needs.
type Store interface {
	AccountByUsername(ctx context.Context, username string) (*models.Account, error)
	DeleteTokensForUser(ctx context.Context, userID string) error
	InsertToken(ctx context.Context, t *models.Token) error
	TokenByAccess(ctx context.Context, accessToken string) (*models.Token, error)
	TokenByRefresh(ctx context.Context, refreshToken string) (*models.Token, error)
	UpdateTokenByRefresh(ctx context.Context, oldRefresh string, t *models.Token) error
}

// Service issues, refreshes, and validates bearer tokens. It is the single
// authentication gate every protected route goes through.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(s Store) *Service {
	return &Service{store: s, now: time.Now}
}

// IssueToken verifies the credentials and mints a fresh token pair. Any
// previously issued tokens for the user are deleted first, so only one
// session per user is ever live. The delete-then-insert is not mutually
// exclusive across concurrent calls; two racing issuances leave a single
// winning row.
func (s *Service) IssueToken(ctx context.Context, username, password string) (*models.TokenResponse, error) {
	account, err := s.store.AccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// Hashes imported from the old PHP deployment carry the $2y$ prefix,
	// which Go's bcrypt does not recognize. Same algorithm, same cost.
	hash := strings.Replace(account.Password, "$2y$", "$2a$", 1)
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.store.DeleteTokensForUser(ctx, account.ID); err != nil {
		return nil, err
	}

	token := &models.Token{
		UserID:       account.ID,
		AccessToken:  randomToken(tokenLength),
		TokenType:    "Bearer",
		Expiry:       s.now().UTC().Add(TokenTTL),
		RefreshToken: randomToken(tokenLength),
	}
	if err := s.store.InsertToken(ctx, token); err != nil {
		return nil, err
	}

	return response(token), nil
}

// Refresh rotates the pair behind a refresh token. The row is rewritten in
// place: same user, same row identity, both tokens and the expiry replaced.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	existing, err := s.store.TokenByRefresh(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidGrant
		}
		return nil, err
	}

	token := &models.Token{
		UserID:       existing.UserID,
		AccessToken:  randomToken(tokenLength),
		TokenType:    "Bearer",
		Expiry:       s.now().UTC().Add(TokenTTL),
		RefreshToken: randomToken(tokenLength),
	}
	if err := s.store.UpdateTokenByRefresh(ctx, refreshToken, token); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidGrant
		}
		return nil, err
	}

	return response(token), nil
}

// Authenticate resolves an Authorization header to the owning user id.
// Expired tokens are rejected lazily here; there is no background reaper.
func (s *Service) Authenticate(ctx context.Context, header string) (string, error) {
	if header == "" {
		return "", ErrMissingHeader
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return "", ErrMalformedHeader
	}
	accessToken := strings.TrimPrefix(header, "Bearer ")

	token, err := s.store.TokenByAccess(ctx, accessToken)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidToken
		}
		return "", err
	}

	// Expiry is stored and compared in UTC.
	if token.Expiry.Before(s.now().UTC()) {
		return "", ErrTokenExpired
	}
	return token.UserID, nil
}

func response(t *models.Token) *models.TokenResponse {
	return &models.TokenResponse{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		ExpiresIn:    int(TokenTTL / time.Second),
		RefreshToken: t.RefreshToken,
	}
}
