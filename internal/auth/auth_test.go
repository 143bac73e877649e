package auth_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/club-stats-service/internal/auth"
	"github.com/courtside/club-stats-service/internal/config"
	"github.com/courtside/club-stats-service/internal/model"
	"github.com/courtside/club-stats-service/internal/repository"
)

type fakeUserRepo struct {
	byEmail map[string]model.User
	nextID  int64
}

func (f *fakeUserRepo) Create(_ context.Context, u model.User) (model.User, error) {
	if _, ok := f.byEmail[u.Email]; ok {
		return model.User{}, repository.ErrAlreadyExists
	}
	f.nextID++
	u.ID = f.nextID
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (model.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return model.User{}, repository.ErrNotFound
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func newAuthSvc() *auth.Service {
	cfg := config.AuthConfig{JWTSecret: "test-secret", TokenTTLMinutes: 15}
	return auth.NewService(&fakeUserRepo{byEmail: map[string]model.User{}}, cfg, zerolog.New(io.Discard))
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthSvc()
	ctx := context.Background()

	u, err := svc.Register(ctx, "Coach@Club.example", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "coach@club.example", u.Email, "email lowercased")
	assert.NotEqual(t, "s3cret-pass", u.PasswordHash, "password never stored in clear")

	_, err = svc.Register(ctx, "coach@club.example", "another-pass")
	assert.True(t, errors.Is(err, repository.ErrAlreadyExists))

	token, err := svc.Login(ctx, "coach@club.example", "s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "coach@club.example", claims.Email)
	assert.Equal(t, "1", claims.Subject)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthSvc()
	ctx := context.Background()
	_, err := svc.Register(ctx, "coach@club.example", "s3cret-pass")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "coach@club.example", "wrong-pass")
	assert.True(t, errors.Is(err, auth.ErrInvalidCredentials))

	_, err = svc.Login(ctx, "nobody@club.example", "s3cret-pass")
	assert.True(t, errors.Is(err, auth.ErrInvalidCredentials))
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthSvc()
	ctx := context.Background()

	_, err := svc.Register(ctx, "not-an-email", "s3cret-pass")
	assert.True(t, errors.Is(err, auth.ErrInvalidCredentials))

	_, err = svc.Register(ctx, "coach@club.example", "short")
	assert.True(t, errors.Is(err, auth.ErrWeakPassword))
}

func TestParseTokenRejectsGarbageAndForeignKeys(t *testing.T) {
	svc := newAuthSvc()
	ctx := context.Background()
	_, err := svc.Register(ctx, "coach@club.example", "s3cret-pass")
	require.NoError(t, err)
	token, err := svc.Login(ctx, "coach@club.example", "s3cret-pass")
	require.NoError(t, err)

	if _, err := svc.ParseToken("not.a.token"); !errors.Is(err, auth.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}

	other := auth.NewService(&fakeUserRepo{byEmail: map[string]model.User{}},
		config.AuthConfig{JWTSecret: "other-secret", TokenTTLMinutes: 15}, zerolog.New(io.Discard))
	if _, err := other.ParseToken(token); !errors.Is(err, auth.ErrUnauthorized) {
		t.Fatalf("token signed with a different secret must fail, got %v", err)
	}
}
