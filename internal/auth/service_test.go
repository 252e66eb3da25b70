package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/monoshelf/monoshelf-backend/internal/users"
	pkgAuth "github.com/monoshelf/monoshelf-backend/pkg/auth"
	"github.com/monoshelf/monoshelf-backend/pkg/auth/session"
	"github.com/monoshelf/monoshelf-backend/pkg/config"
	"github.com/monoshelf/monoshelf-backend/pkg/db/models"
	pkgerrors "github.com/monoshelf/monoshelf-backend/pkg/errors"
	"github.com/monoshelf/monoshelf-backend/pkg/github"
)

type fakeGitHub struct {
	exchangeErr error
	fetchErr    error
	user        github.User
}

func (f *fakeGitHub) ExchangeCode(ctx context.Context, code string) (*github.AccessToken, error) {
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return &github.AccessToken{Token: "gho_" + code}, nil
}

func (f *fakeGitHub) FetchUser(ctx context.Context, token string) (*github.User, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	u := f.user
	return &u, nil
}

type fakeUserRepo struct {
	upsertErr error
	lastSync  users.GitHubProfile
	userID    uuid.UUID
}

func (f *fakeUserRepo) UpsertFromGitHub(ctx context.Context, profile users.GitHubProfile, now time.Time) (*models.User, error) {
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	f.lastSync = profile
	return &models.User{
		ID:       f.userID,
		GitHubID: profile.GitHubID,
		Login:    profile.Login,
		Name:     profile.Name,
		Email:    profile.Email,
	}, nil
}

type fakeSessions struct {
	generated []string
	revoked   []string
	rotateErr error
}

func (f *fakeSessions) Generate(ctx context.Context, accessID string) (string, error) {
	f.generated = append(f.generated, accessID)
	return "refresh-" + accessID, nil
}

func (f *fakeSessions) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if f.rotateErr != nil {
		return "", "", f.rotateErr
	}
	return "rotated-" + oldAccessID, "refresh-rotated", nil
}

func (f *fakeSessions) Revoke(ctx context.Context, accessID string) error {
	f.revoked = append(f.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "monoshelf-test",
		ExpirationMinutes: 15,
	}
}

func newTestService(gh *fakeGitHub, repo *fakeUserRepo, sessions *fakeSessions) Service {
	svc, err := NewService(ServiceParams{
		GitHubClient:   gh,
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		panic(err)
	}
	return svc
}

func TestSignInWithGitHubIssuesTokenPair(t *testing.T) {
	userID := uuid.New()
	gh := &fakeGitHub{user: github.User{ID: 42, Login: "octocat", Name: "Octo Cat", Email: "octo@example.com"}}
	repo := &fakeUserRepo{userID: userID}
	sessions := &fakeSessions{}
	svc := newTestService(gh, repo, sessions)

	resp, err := svc.SignInWithGitHub(context.Background(), SignInRequest{Code: "abc123"})
	if err != nil {
		t.Fatalf("sign-in failed: %v", err)
	}
	if resp.User == nil || resp.User.ID != userID {
		t.Fatalf("unexpected user in response: %+v", resp.User)
	}
	if repo.lastSync.GitHubID != 42 || repo.lastSync.Login != "octocat" {
		t.Fatalf("profile not synced: %+v", repo.lastSync)
	}
	if len(sessions.generated) != 1 {
		t.Fatalf("expected one session, got %d", len(sessions.generated))
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("minted token should parse: %v", err)
	}
	if claims.UserID != userID || claims.ID != sessions.generated[0] {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if resp.RefreshToken != "refresh-"+sessions.generated[0] {
		t.Fatalf("refresh token not tied to session: %q", resp.RefreshToken)
	}
}

func TestSignInRequiresCode(t *testing.T) {
	svc := newTestService(&fakeGitHub{}, &fakeUserRepo{userID: uuid.New()}, &fakeSessions{})

	_, err := svc.SignInWithGitHub(context.Background(), SignInRequest{Code: "   "})
	domainErr := pkgerrors.As(err)
	if domainErr == nil || domainErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSignInPropagatesExchangeRejection(t *testing.T) {
	gh := &fakeGitHub{exchangeErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "github rejected the authorization code")}
	svc := newTestService(gh, &fakeUserRepo{userID: uuid.New()}, &fakeSessions{})

	_, err := svc.SignInWithGitHub(context.Background(), SignInRequest{Code: "expired"})
	domainErr := pkgerrors.As(err)
	if domainErr == nil || domainErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	userID := uuid.New()
	sessions := &fakeSessions{}
	svc := newTestService(&fakeGitHub{}, &fakeUserRepo{userID: userID}, sessions)

	expired, err := pkgAuth.MintAccessToken(testJWTConfig(), time.Now().Add(-time.Hour), pkgAuth.AccessTokenPayload{
		UserID: userID,
		Login:  "octocat",
		JTI:    "old-access",
	})
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	resp, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  expired,
		RefreshToken: "refresh-old-access",
	})
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("new token should parse: %v", err)
	}
	if claims.UserID != userID || claims.ID != "rotated-old-access" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if resp.RefreshToken != "refresh-rotated" {
		t.Fatalf("unexpected refresh token %q", resp.RefreshToken)
	}
}

func TestRefreshRejectsInvalidRefreshToken(t *testing.T) {
	sessions := &fakeSessions{rotateErr: session.ErrInvalidRefreshToken}
	svc := newTestService(&fakeGitHub{}, &fakeUserRepo{userID: uuid.New()}, sessions)

	token, err := pkgAuth.MintAccessToken(testJWTConfig(), time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		JTI:    "access-1",
	})
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	_, err = svc.Refresh(context.Background(), RefreshRequest{AccessToken: token, RefreshToken: "forged"})
	domainErr := pkgerrors.As(err)
	if domainErr == nil || domainErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if !errors.Is(err, session.ErrInvalidRefreshToken) {
		t.Fatalf("cause should be preserved, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := &fakeSessions{}
	svc := newTestService(&fakeGitHub{}, &fakeUserRepo{userID: uuid.New()}, sessions)

	if err := svc.Logout(context.Background(), "access-1"); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "access-1" {
		t.Fatalf("session not revoked: %+v", sessions.revoked)
	}

	err := svc.Logout(context.Background(), " ")
	domainErr := pkgerrors.As(err)
	if domainErr == nil || domainErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for blank access id, got %v", err)
	}
}
