package session

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/groupshare/internal/common"
	"github.com/dmitrijs2005/groupshare/internal/logging"
	"github.com/dmitrijs2005/groupshare/internal/remote/remotetest"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub})
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestPrincipalIDFromToken(t *testing.T) {
	id, err := PrincipalIDFromToken(signedToken(t, "user-1"))
	require.NoError(t, err)
	require.Equal(t, "user-1", id)
}

func TestPrincipalIDFromToken_Invalid(t *testing.T) {
	_, err := PrincipalIDFromToken("not-a-token")
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestPrincipalIDFromToken_NoSubject(t *testing.T) {
	_, err := PrincipalIDFromToken(signedToken(t, ""))
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestSession_ProfileRefreshedOnPush(t *testing.T) {
	store := remotetest.NewStore()
	store.Set(common.CollectionUsers, "user-1", map[string]any{
		"displayName": "Alice",
		"tag":         "alice#1",
	})

	s := New("user-1", logging.Discard())
	cancel, err := s.Start(context.Background(), store)
	require.NoError(t, err)
	defer cancel()

	require.Equal(t, "Alice", s.Profile().Get().DisplayName)

	store.Update(common.CollectionUsers, "user-1", map[string]any{"displayName": "Alicia"})
	require.Equal(t, "Alicia", s.Profile().Get().DisplayName)
	require.Equal(t, "user-1", s.Profile().Get().ID)
}
