package rest

import (
	"context"

	"github.com/dmitrijs2005/contactkeeper/internal/common"
	"github.com/dmitrijs2005/contactkeeper/internal/server/models"
	"github.com/dmitrijs2005/contactkeeper/internal/server/services"
)

const validToken = "good-token"

var testUser = &models.User{
	ID:           "u-1",
	Email:        "a@x.com",
	Subscription: models.TierStarter,
	AvatarURL:    "https://img/a",
	Verified:     true,
}

// fakeGate authenticates only "Bearer good-token" and otherwise mirrors
// the gate's error taxonomy.
type fakeGate struct{ err error }

func (g *fakeGate) Authenticate(_ context.Context, header string) (*models.User, string, error) {
	if g.err != nil {
		return nil, "", g.err
	}
	switch header {
	case "":
		return nil, "", common.ErrMissingCredentials
	case "Bearer " + validToken:
		u := *testUser
		return &u, validToken, nil
	}
	if _, ok := services.ParseBearer(header); !ok {
		return nil, "", common.ErrMalformedCredentials
	}
	return nil, "", common.ErrSessionRevoked
}

type fakeAccounts struct {
	registerErr error
	loginRes    *services.LoginResult
	loginErr    error
	logoutErr   error
	verifyErr   error
	resendErr   error
	subErr      error

	lastEmail    string
	lastPassword string
	lastToken    string
	loggedOut    *models.User
}

func (f *fakeAccounts) Register(_ context.Context, email, password string) (*models.User, error) {
	f.lastEmail, f.lastPassword = email, password
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &models.User{ID: "u-9", Email: email, Subscription: models.TierStarter, AvatarURL: "https://img/g"}, nil
}

func (f *fakeAccounts) Login(_ context.Context, email, password string) (*services.LoginResult, error) {
	f.lastEmail, f.lastPassword = email, password
	return f.loginRes, f.loginErr
}

func (f *fakeAccounts) Logout(_ context.Context, user *models.User) error {
	f.loggedOut = user
	return f.logoutErr
}

func (f *fakeAccounts) VerifyEmail(_ context.Context, token string) error {
	f.lastToken = token
	return f.verifyErr
}

func (f *fakeAccounts) ResendVerification(_ context.Context, email string) error {
	f.lastEmail = email
	return f.resendErr
}

func (f *fakeAccounts) UpdateSubscription(_ context.Context, user *models.User, tier models.SubscriptionTier) (*models.User, error) {
	if f.subErr != nil {
		return nil, f.subErr
	}
	user.Subscription = tier
	return user, nil
}

type fakeAvatars struct {
	out *services.AvatarUpload
	err error
}

func (f *fakeAvatars) RequestUpload(context.Context, *models.User) (*services.AvatarUpload, error) {
	return f.out, f.err
}

type fakeContacts struct {
	items []models.Contact
	one   *models.Contact
	err   error

	lastOwner  string
	lastID     string
	lastFilter models.ContactFilter
	lastPatch  models.ContactPatch
	lastFav    *bool
	created    models.Contact
}

func (f *fakeContacts) List(_ context.Context, owner string, filter models.ContactFilter) ([]models.Contact, error) {
	f.lastOwner, f.lastFilter = owner, filter
	return f.items, f.err
}

func (f *fakeContacts) Get(_ context.Context, owner, id string) (*models.Contact, error) {
	f.lastOwner, f.lastID = owner, id
	return f.one, f.err
}

func (f *fakeContacts) Create(_ context.Context, owner string, c models.Contact) (*models.Contact, error) {
	f.lastOwner, f.created = owner, c
	if f.err != nil {
		return nil, f.err
	}
	c.ID, c.Owner = "c-1", owner
	return &c, nil
}

func (f *fakeContacts) Update(_ context.Context, owner, id string, patch models.ContactPatch) (*models.Contact, error) {
	f.lastOwner, f.lastID, f.lastPatch = owner, id, patch
	return f.one, f.err
}

func (f *fakeContacts) UpdateFavorite(_ context.Context, owner, id string, favorite bool) (*models.Contact, error) {
	f.lastOwner, f.lastID, f.lastFav = owner, id, &favorite
	return f.one, f.err
}

func (f *fakeContacts) Delete(_ context.Context, owner, id string) (*models.Contact, error) {
	f.lastOwner, f.lastID = owner, id
	return f.one, f.err
}
