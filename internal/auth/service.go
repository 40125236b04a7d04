package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"go.uber.org/zap"

	"github.com/prabhata303-del/Dd/internal/models"
)

// Custom errors for the auth service.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password does not meet requirements")
	ErrUserDisabled       = errors.New("account disabled")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// adminAuth is the slice of the Firebase admin auth client the service
// uses. Tests substitute a fake.
type adminAuth interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
	UpdateUser(ctx context.Context, uid string, user *fbauth.UserToUpdate) (*fbauth.UserRecord, error)
}

// TokenClaims carries the verified identity the HTTP middleware attaches to
// a request.
type TokenClaims struct {
	UID   string
	Email string
	Name  string
}

// Service is the auth proxy: it exchanges credentials for sessions through
// the Identity Toolkit API, verifies and revokes tokens through the admin
// SDK, and broadcasts session-state changes to subscribers.
type Service struct {
	admin    adminAuth
	identity *identityClient
	hub      *sessionHub
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates the auth service. webAPIKey is the Firebase project's
// public web API key; httpClient may be nil to use a default client.
func NewService(admin adminAuth, webAPIKey string, httpClient *http.Client, logger *zap.Logger) *Service {
	return &Service{
		admin:    admin,
		identity: newIdentityClient(webAPIKey, httpClient),
		hub:      newSessionHub(),
		logger:   logger,
		now:      time.Now,
	}
}

// Register creates an email/password account and signs it in. The display
// name is stored on the account record afterwards; a failure there is
// logged and does not fail the registration.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.Session, error) {
	tp, err := s.identity.signUp(ctx, req.Email, req.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	if req.Name != "" {
		update := (&fbauth.UserToUpdate{}).DisplayName(req.Name)
		if _, err := s.admin.UpdateUser(ctx, tp.LocalID, update); err != nil {
			s.logger.Warn("failed to set display name after registration",
				zap.String("uid", tp.LocalID), zap.Error(err))
		}
	}

	sess := s.sessionFrom(tp)
	if sess.DisplayName == "" {
		sess.DisplayName = req.Name
	}
	s.hub.publish(sess)
	return sess, nil
}

// Login signs in with email and password.
func (s *Service) Login(ctx context.Context, email, password string) (*models.Session, error) {
	tp, err := s.identity.signInWithPassword(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	sess := s.sessionFrom(tp)
	s.hub.publish(sess)
	return sess, nil
}

// LoginWithGoogle exchanges a Google ID token from the client's OAuth flow
// for a backend session, creating the account on first sign-in.
func (s *Service) LoginWithGoogle(ctx context.Context, googleIDToken string) (*models.Session, error) {
	tp, err := s.identity.signInWithIdp(ctx, googleIDToken)
	if err != nil {
		return nil, fmt.Errorf("google login: %w", err)
	}
	sess := s.sessionFrom(tp)
	s.hub.publish(sess)
	return sess, nil
}

// SignOut revokes the user's refresh tokens and broadcasts the signed-out
// state. Existing ID tokens stay valid until they expire; verification
// against revocation is the middleware's concern.
func (s *Service) SignOut(ctx context.Context, uid string) error {
	if err := s.admin.RevokeRefreshTokens(ctx, uid); err != nil {
		return fmt.Errorf("sign out %s: %w", uid, err)
	}
	s.hub.publish(nil)
	return nil
}

// OnSessionChange registers a handler for session-state changes. The
// handler receives the new session after login or registration and nil
// after sign-out. The returned func unsubscribes; the caller must invoke
// it when done.
func (s *Service) OnSessionChange(handler func(*models.Session)) (cancel func()) {
	return s.hub.subscribe(handler)
}

// VerifyToken validates an ID token and returns its identity claims.
func (s *Service) VerifyToken(ctx context.Context, idToken string) (*TokenClaims, error) {
	tok, err := s.admin.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims := &TokenClaims{UID: tok.UID}
	if email, ok := tok.Claims["email"].(string); ok {
		claims.Email = email
	}
	if name, ok := tok.Claims["name"].(string); ok {
		claims.Name = name
	}
	return claims, nil
}

func (s *Service) sessionFrom(tp *tokenPayload) *models.Session {
	ttl := 3600
	if n, err := strconv.Atoi(tp.ExpiresIn); err == nil && n > 0 {
		ttl = n
	}
	return &models.Session{
		UID:          tp.LocalID,
		Email:        tp.Email,
		DisplayName:  tp.DisplayName,
		PhotoURL:     tp.PhotoURL,
		IDToken:      tp.IDToken,
		RefreshToken: tp.RefreshToken,
		ExpiresAt:    s.now().Add(time.Duration(ttl) * time.Second),
	}
}
