package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/contactkeeper/internal/common"
	"github.com/dmitrijs2005/contactkeeper/internal/server/auth"
	"github.com/dmitrijs2005/contactkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingIssuer struct{}

func (failingIssuer) Issue(string, string) (string, error) { return "", common.ErrSigningKeyMissing }

func newSessions(t *testing.T, issuer TokenIssuer) (*SingleSlotSessions, *memUsers) {
	t.Helper()
	db, _ := newSQLMockDB(t)
	repos := newFakeRepoManager()
	return NewSingleSlotSessions(db, repos, issuer), repos.users
}

func TestSingleSlotSessions_IssueValidateRevoke(t *testing.T) {
	s, users := newSessions(t, auth.NewIssuer("k", time.Hour))
	ctx := context.Background()

	u, err := users.Create(ctx, &models.User{Email: "a@x.com"})
	require.NoError(t, err)

	tok, err := s.Issue(ctx, u)
	require.NoError(t, err)
	require.NotNil(t, users.get(u.ID).Token)

	got, err := s.Validate(ctx, u.ID, tok)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.Validate(ctx, u.ID, tok+"x")
	assert.ErrorIs(t, err, common.ErrSessionRevoked)

	require.NoError(t, s.Revoke(ctx, u))
	_, err = s.Validate(ctx, u.ID, tok)
	assert.ErrorIs(t, err, common.ErrSessionRevoked)
}

func TestSingleSlotSessions_IssueErrors(t *testing.T) {
	ctx := context.Background()

	s, users := newSessions(t, failingIssuer{})
	u, err := users.Create(ctx, &models.User{Email: "a@x.com"})
	require.NoError(t, err)

	_, err = s.Issue(ctx, u)
	assert.ErrorIs(t, err, common.ErrSigningKeyMissing)

	s, users = newSessions(t, auth.NewIssuer("k", time.Hour))
	u, err = users.Create(ctx, &models.User{Email: "a@x.com"})
	require.NoError(t, err)
	users.saveErr = errBoom

	_, err = s.Issue(ctx, u)
	assert.ErrorIs(t, err, errBoom)
}

func TestSingleSlotSessions_RevokeDeletedUser(t *testing.T) {
	s, _ := newSessions(t, auth.NewIssuer("k", time.Hour))
	assert.NoError(t, s.Revoke(context.Background(), &models.User{ID: "gone"}))
}

func TestSingleSlotSessions_RevokeStoreError(t *testing.T) {
	s, users := newSessions(t, auth.NewIssuer("k", time.Hour))
	users.saveErr = errBoom
	assert.ErrorIs(t, s.Revoke(context.Background(), &models.User{ID: "u-1"}), errBoom)
}

func TestSingleSlotSessions_ValidateNeverLoggedIn(t *testing.T) {
	s, users := newSessions(t, auth.NewIssuer("k", time.Hour))
	u, err := users.Create(context.Background(), &models.User{Email: "a@x.com"})
	require.NoError(t, err)

	_, err = s.Validate(context.Background(), u.ID, "anything")
	assert.ErrorIs(t, err, common.ErrSessionRevoked)
}
