// Package auth handles workspace-scoped login and session lifecycle.
// Usernames are only unique within a workspace, so login always carries the
// workspace slug.
package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/teamboard/backend/domain"
	"github.com/teamboard/backend/repository"
)

type Config struct {
	JWTSecret  string
	Issuer     string
	SessionTTL time.Duration
}

type UseCase struct {
	workspaces repository.WorkspaceRepository
	users      repository.UserRepository
	sessions   repository.SessionRepository
	cfg        Config
	logger     *zap.Logger
}

func New(
	workspaces repository.WorkspaceRepository,
	users repository.UserRepository,
	sessions repository.SessionRepository,
	cfg Config,
	logger *zap.Logger,
) *UseCase {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		workspaces: workspaces,
		users:      users,
		sessions:   sessions,
		cfg:        cfg,
		logger:     logger,
	}
}

// HashPassword derives a bcrypt hash for storage.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", domain.ErrInvalidPayload
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login verifies credentials within the workspace identified by slug and
// returns a session plus a signed bearer token. Lookup and credential
// failures are indistinguishable to the caller.
func (uc *UseCase) Login(ctx context.Context, workspaceSlug, username, password string) (*domain.Session, string, error) {
	ws, err := uc.workspaces.GetBySlug(ctx, workspaceSlug)
	if err != nil {
		return nil, "", domain.ErrUnauthorized
	}
	user, err := uc.users.GetByUsername(ctx, ws.ID, username)
	if err != nil {
		return nil, "", domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		uc.logger.Warn("failed login attempt",
			zap.String("workspace", workspaceSlug),
			zap.String("username", username))
		return nil, "", domain.ErrUnauthorized
	}

	session := &domain.Session{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		WorkspaceID: ws.ID,
		CreatedAt:   time.Now(),
		ExpiresAt:   time.Now().Add(uc.cfg.SessionTTL),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, "", err
	}

	token, err := uc.signToken(session, user)
	if err != nil {
		return nil, "", err
	}
	return session, token, nil
}

func (uc *UseCase) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (uc *UseCase) RefreshSession(ctx context.Context, sessionID string) (*domain.Session, string, error) {
	session, err := uc.GetSession(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}
	if err := uc.sessions.Extend(ctx, sessionID, int(uc.cfg.SessionTTL.Seconds())); err != nil {
		return nil, "", err
	}
	session.ExpiresAt = time.Now().Add(uc.cfg.SessionTTL)

	user, err := uc.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, "", err
	}
	token, err := uc.signToken(session, user)
	if err != nil {
		return nil, "", err
	}
	return session, token, nil
}

func (uc *UseCase) RevokeSession(ctx context.Context, sessionID string) error {
	return uc.sessions.Delete(ctx, sessionID)
}

func (uc *UseCase) signToken(session *domain.Session, user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":      user.ID,
		"workspace_id": user.WorkspaceID,
		"session_id":   session.ID,
		"iss":          uc.cfg.Issuer,
		"exp":          session.ExpiresAt.Unix(),
		"iat":          time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(uc.cfg.JWTSecret))
}
