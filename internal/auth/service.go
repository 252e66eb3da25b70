package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/monoshelf/monoshelf-backend/internal/users"
	pkgAuth "github.com/monoshelf/monoshelf-backend/pkg/auth"
	"github.com/monoshelf/monoshelf-backend/pkg/auth/session"
	"github.com/monoshelf/monoshelf-backend/pkg/config"
	"github.com/monoshelf/monoshelf-backend/pkg/db/models"
	pkgerrors "github.com/monoshelf/monoshelf-backend/pkg/errors"
	"github.com/monoshelf/monoshelf-backend/pkg/github"
)

const signInFailedMessage = "github sign-in failed"

// Service defines the behavior needed by the auth controller.
type Service interface {
	SignInWithGitHub(ctx context.Context, req SignInRequest) (*SignInResponse, error)
	Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error)
	Logout(ctx context.Context, accessID string) error
}

type service struct {
	github  githubClient
	users   userRepository
	session sessionManager
	jwtCfg  config.JWTConfig
}

type githubClient interface {
	ExchangeCode(ctx context.Context, code string) (*github.AccessToken, error)
	FetchUser(ctx context.Context, token string) (*github.User, error)
}

type userRepository interface {
	UpsertFromGitHub(ctx context.Context, profile users.GitHubProfile, now time.Time) (*models.User, error)
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	GitHubClient   githubClient
	UserRepo       userRepository
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
}

// NewService constructs a sign-in service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.GitHubClient == nil {
		return nil, fmt.Errorf("github client is required")
	}
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{
		github:  params.GitHubClient,
		users:   params.UserRepo,
		session: params.SessionManager,
		jwtCfg:  params.JWTConfig,
	}, nil
}

// SignInWithGitHub exchanges the OAuth code, syncs the profile, and issues a token pair.
func (s *service) SignInWithGitHub(ctx context.Context, req SignInRequest) (*SignInResponse, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "authorization code is required")
	}

	token, err := s.github.ExchangeCode(ctx, code)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, signInFailedMessage)
	}

	profile, err := s.github.FetchUser(ctx, token.Token)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, signInFailedMessage)
	}

	now := time.Now().UTC()
	user, err := s.users.UpsertFromGitHub(ctx, users.GitHubProfile{
		GitHubID:  profile.ID,
		Login:     profile.Login,
		Name:      profile.Name,
		Email:     profile.Email,
		AvatarURL: profile.AvatarURL,
	}, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sync user")
	}

	accessID := session.NewAccessID()
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Login:  user.Login,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	refreshToken, err := s.session.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store refresh token")
	}

	return &SignInResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         users.FromModel(user),
	}, nil
}

// Refresh validates the pair, rotates the session, and mints a fresh access token.
func (s *service) Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error) {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, strings.TrimSpace(req.AccessToken))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid access token")
	}

	newAccessID, newRefreshToken, err := s.session.Rotate(ctx, claims.ID, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rotate session")
	}

	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: claims.UserID,
		Login:  claims.Login,
		JTI:    newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &RefreshResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// Logout revokes the refresh session tied to the caller's access token.
func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session identifier")
	}
	if err := s.session.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke session")
	}
	return nil
}
