package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_SessionSlot(t *testing.T) {
	u := &User{}
	assert.False(t, u.HoldsSession("t1"))

	u.StartSession("t1")
	assert.True(t, u.HoldsSession("t1"))

	u.StartSession("t2")
	assert.False(t, u.HoldsSession("t1"), "new session replaces the old one")
	assert.True(t, u.HoldsSession("t2"))

	u.EndSession()
	u.EndSession()
	assert.False(t, u.HoldsSession("t2"))
	assert.False(t, u.HoldsSession(""))
}

func TestUser_ViewHidesSecrets(t *testing.T) {
	tok := "secret-token"
	u := &User{
		ID:                "u1",
		Email:             "a@x.com",
		PasswordHash:      "$2a$10$hash",
		Token:             &tok,
		Subscription:      TierPro,
		AvatarURL:         "https://img/a.png",
		VerificationToken: &tok,
	}

	b, err := json.Marshal(u.View())
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"a@x.com","subscription":"pro","avatarURL":"https://img/a.png","verify":false}`, string(b))
}

func TestSubscriptionTier_Valid(t *testing.T) {
	assert.True(t, TierStarter.Valid())
	assert.True(t, TierPro.Valid())
	assert.True(t, TierBusiness.Valid())
	assert.False(t, SubscriptionTier("gold").Valid())
}

func TestContactPatch(t *testing.T) {
	assert.True(t, ContactPatch{}.Empty())

	name := "Ann"
	fav := true
	p := ContactPatch{Name: &name, Favorite: &fav}
	assert.False(t, p.Empty())

	c := &Contact{Name: "Old", Email: "old@x.com"}
	p.Apply(c)
	assert.Equal(t, "Ann", c.Name)
	assert.Equal(t, "old@x.com", c.Email)
	assert.True(t, c.Favorite)
}

func TestContactFilter_Normalize(t *testing.T) {
	f := ContactFilter{}.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, DefaultContactLimit, f.Limit)
	assert.Equal(t, 0, f.Offset())

	f = ContactFilter{Page: 3, Limit: 500}.Normalize()
	assert.Equal(t, MaxContactLimit, f.Limit)
	assert.Equal(t, 200, f.Offset())
}
