package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	infraRepo "github.com/facturio/facturio-api/internal/infrastructure/repository"
	"github.com/facturio/facturio-api/pkg/apperror"
	"github.com/facturio/facturio-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(env *testEnv) *AuthService {
	jwtManager := utils.NewJWTManager("test-secret", 15*time.Minute, 7*24*time.Hour)
	return NewAuthService(infraRepo.NewUserRepository(env.db), jwtManager)
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	auth := newTestAuthService(env)

	out, err := auth.Register(ctx, &RegisterInput{
		Name:     "Marie Curie",
		Email:    "Marie@Example.com",
		Password: "radium1898",
	})
	require.NoError(t, err)
	assert.Equal(t, "marie@example.com", out.User.Email, "emails are stored lowercased")
	assert.NotEmpty(t, out.AccessToken)
	assert.NotEmpty(t, out.RefreshToken)
	assert.NotEqual(t, "radium1898", out.User.Password, "passwords are stored hashed")

	login, err := auth.Login(ctx, &LoginInput{Email: "marie@example.com", Password: "radium1898"})
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, login.User.ID)

	_, err = auth.Login(ctx, &LoginInput{Email: "marie@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = auth.Login(ctx, &LoginInput{Email: "nobody@example.com", Password: "radium1898"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials, "unknown emails get the same error as bad passwords")
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	auth := newTestAuthService(env)

	_, err := auth.Register(ctx, &RegisterInput{Name: "  ", Email: "a@example.com", Password: "longenough"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)

	_, err = auth.Register(ctx, &RegisterInput{Name: "Short", Email: "a@example.com", Password: "short"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)

	_, err = auth.Register(ctx, &RegisterInput{Name: "First", Email: "dup@example.com", Password: "longenough"})
	require.NoError(t, err)
	_, err = auth.Register(ctx, &RegisterInput{Name: "Second", Email: "dup@example.com", Password: "longenough"})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)
}

func TestRefreshToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	auth := newTestAuthService(env)

	out, err := auth.Register(ctx, &RegisterInput{
		Name:     "Marie Curie",
		Email:    "marie@example.com",
		Password: "radium1898",
	})
	require.NoError(t, err)

	refreshed, err := auth.RefreshToken(ctx, out.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, refreshed.User.ID)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = auth.RefreshToken(ctx, "garbage")
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	auth := newTestAuthService(env)

	out, err := auth.Register(ctx, &RegisterInput{
		Name:     "Marie Curie",
		Email:    "marie@example.com",
		Password: "radium1898",
	})
	require.NoError(t, err)

	err = auth.ChangePassword(ctx, &ChangePasswordInput{
		UserID:          out.User.ID,
		CurrentPassword: "wrong",
		NewPassword:     "polonium1898",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)

	err = auth.ChangePassword(ctx, &ChangePasswordInput{
		UserID:          out.User.ID,
		CurrentPassword: "radium1898",
		NewPassword:     "polonium1898",
	})
	require.NoError(t, err)

	_, err = auth.Login(ctx, &LoginInput{Email: "marie@example.com", Password: "polonium1898"})
	assert.NoError(t, err)
	_, err = auth.Login(ctx, &LoginInput{Email: "marie@example.com", Password: "radium1898"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	auth := newTestAuthService(env)

	out, err := auth.Register(ctx, &RegisterInput{
		Name:     "Marie Curie",
		Email:    "marie@example.com",
		Password: "radium1898",
	})
	require.NoError(t, err)

	avatar := "https://cdn.example.com/avatar.png"
	updated, err := auth.UpdateProfile(ctx, &UpdateProfileInput{
		UserID:    out.User.ID,
		AvatarURL: &avatar,
	})
	require.NoError(t, err)
	assert.Equal(t, "Marie Curie", updated.Name)
	require.NotNil(t, updated.AvatarURL)
	assert.Equal(t, avatar, *updated.AvatarURL)
}
