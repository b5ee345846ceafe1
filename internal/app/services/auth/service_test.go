package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/tutorbill/invoice-service/internal/errors"

	"github.com/tutorbill/invoice-service/internal/app/storage"
)

const testSecret = "test-secret-key"

func newTestService() *Service {
	return New(storage.NewMemory(), testSecret, 4, nil) // low cost keeps tests fast
}

func TestRegisterHashesPassword(t *testing.T) {
	svc := newTestService()

	stored, err := svc.Register(context.Background(), "stephy", "hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, stored.ID)
	require.NotEqual(t, "hunter2", stored.Password)
	require.True(t, strings.HasPrefix(stored.Password, "$2a$"), "expected bcrypt hash, got %s", stored.Password)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "stephy", "hunter2")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "stephy", "other")
	require.Error(t, err)
	require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "stephy", "hunter2")
	require.NoError(t, err)

	token, err := svc.Login(ctx, "stephy", "hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	username, err := svc.VerifyToken(token)
	require.NoError(t, err)
	require.Equal(t, "stephy", username)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "stephy", "hunter2")
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, "stephy", "nope")
	_, unknownUser := svc.Login(ctx, "nobody", "nope")

	require.Error(t, wrongPassword)
	require.Error(t, unknownUser)
	require.Equal(t, apperrors.KindAuth, apperrors.KindOf(wrongPassword))
	require.Equal(t, apperrors.KindAuth, apperrors.KindOf(unknownUser))
	require.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "stephy", "hunter2")
	require.NoError(t, err)

	issued := time.Now().Add(-25 * time.Hour)
	svc.now = func() time.Time { return issued }
	token, err := svc.Login(ctx, "stephy", "hunter2")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.VerifyToken(token)
	require.Error(t, err)
	require.Equal(t, apperrors.KindAuth, apperrors.KindOf(err))
}

func TestVerifyTokenRejectsTamperedAndGarbage(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "stephy", "hunter2")
	require.NoError(t, err)
	token, err := svc.Login(ctx, "stephy", "hunter2")
	require.NoError(t, err)

	_, err = svc.VerifyToken(token + "x")
	require.Error(t, err)

	_, err = svc.VerifyToken("not-a-token")
	require.Error(t, err)

	other := New(storage.NewMemory(), "different-secret", 4, nil)
	_, err = other.VerifyToken(token)
	require.Error(t, err)
}
