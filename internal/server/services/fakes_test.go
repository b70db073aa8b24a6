package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/contactkeeper/internal/common"
	"github.com/dmitrijs2005/contactkeeper/internal/dbx"
	"github.com/dmitrijs2005/contactkeeper/internal/server/mail"
	"github.com/dmitrijs2005/contactkeeper/internal/server/models"
	contactsrepo "github.com/dmitrijs2005/contactkeeper/internal/server/repositories/contacts"
	usersrepo "github.com/dmitrijs2005/contactkeeper/internal/server/repositories/users"
)

var errBoom = errors.New("boom")

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// memUsers is an in-memory users.Repository. Stored users are copied in
// and out so callers cannot mutate the store behind its back.
type memUsers struct {
	mu     sync.Mutex
	byID   map[string]*models.User
	nextID int

	findErr error
	saveErr error
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[string]*models.User{}}
}

func cloneUser(u *models.User) *models.User {
	c := *u
	if u.Token != nil {
		t := *u.Token
		c.Token = &t
	}
	if u.VerificationToken != nil {
		t := *u.VerificationToken
		c.VerificationToken = &t
	}
	return &c
}

func (m *memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return nil, common.ErrConflict
		}
	}
	m.nextID++
	u.ID = "u-" + strconv.Itoa(m.nextID)
	m.byID[u.ID] = cloneUser(u)
	return u, nil
}

func (m *memUsers) find(match func(*models.User) bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, u := range m.byID {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.Email == email })
}

func (m *memUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.ID == id })
}

func (m *memUsers) FindByVerificationToken(_ context.Context, token string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.VerificationToken != nil && *u.VerificationToken == token })
}

// put stores u as-is, for seeding test state.
func (m *memUsers) put(u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[u.ID]; !ok {
		return common.ErrorNotFound
	}
	m.byID[u.ID] = cloneUser(u)
	return nil
}

// update applies a column write to the stored row only, like the SQL setters.
func (m *memUsers) update(id string, apply func(*models.User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	u, ok := m.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	apply(u)
	return nil
}

func (m *memUsers) SetToken(_ context.Context, id string, token *string) error {
	return m.update(id, func(u *models.User) {
		u.Token = nil
		if token != nil {
			t := *token
			u.Token = &t
		}
	})
}

func (m *memUsers) SetSubscription(_ context.Context, id string, tier models.SubscriptionTier) error {
	return m.update(id, func(u *models.User) { u.Subscription = tier })
}

func (m *memUsers) SetAvatarURL(_ context.Context, id string, avatarURL string) error {
	return m.update(id, func(u *models.User) { u.AvatarURL = avatarURL })
}

func (m *memUsers) SetVerification(_ context.Context, id string, verified bool, token *string) error {
	return m.update(id, func(u *models.User) {
		u.Verified = verified
		u.VerificationToken = nil
		if token != nil {
			t := *token
			u.VerificationToken = &t
		}
	})
}

func (m *memUsers) get(id string) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		return cloneUser(u)
	}
	return nil
}

// memContacts is an in-memory contacts.Repository.
type memContacts struct {
	mu     sync.Mutex
	byID   map[string]models.Contact
	nextID int
	err    error
}

func newMemContacts() *memContacts {
	return &memContacts{byID: map[string]models.Contact{}}
}

func (m *memContacts) List(_ context.Context, owner string, f models.ContactFilter) ([]models.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	f = f.Normalize()
	out := []models.Contact{}
	for _, c := range m.byID {
		if c.Owner != owner || (f.Favorite != nil && c.Favorite != *f.Favorite) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	start := min(f.Offset(), len(out))
	end := min(start+f.Limit, len(out))
	return out[start:end], nil
}

func (m *memContacts) Get(_ context.Context, owner, id string) (*models.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.byID[id]
	if !ok || c.Owner != owner {
		return nil, common.ErrorNotFound
	}
	return &c, nil
}

func (m *memContacts) conflicts(c *models.Contact) bool {
	for _, other := range m.byID {
		if other.ID != c.ID && other.Owner == c.Owner && other.Email == c.Email {
			return true
		}
	}
	return false
}

func (m *memContacts) Create(_ context.Context, c *models.Contact) (*models.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.conflicts(c) {
		return nil, common.ErrConflict
	}
	m.nextID++
	c.ID = "c-" + strconv.Itoa(m.nextID)
	m.byID[c.ID] = *c
	out := *c
	return &out, nil
}

func (m *memContacts) Update(_ context.Context, c *models.Contact) (*models.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	existing, ok := m.byID[c.ID]
	if !ok || existing.Owner != c.Owner {
		return nil, common.ErrorNotFound
	}
	if m.conflicts(c) {
		return nil, common.ErrConflict
	}
	m.byID[c.ID] = *c
	out := *c
	return &out, nil
}

func (m *memContacts) Delete(_ context.Context, owner, id string) (*models.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.byID[id]
	if !ok || c.Owner != owner {
		return nil, common.ErrorNotFound
	}
	delete(m.byID, id)
	return &c, nil
}

type fakeRepoManager struct {
	users    *memUsers
	contacts *memContacts
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{users: newMemUsers(), contacts: newMemContacts()}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository          { return m.users }
func (m *fakeRepoManager) Contacts(dbx.DBTX) contactsrepo.Repository    { return m.contacts }

// racingUsers never sees an existing row, so the insert is the one that
// trips over the unique constraint.
type racingUsers struct{ *memUsers }

func (r racingUsers) FindByEmail(context.Context, string) (*models.User, error) {
	return nil, common.ErrorNotFound
}

type racingRepoManager struct{ *fakeRepoManager }

func (m *racingRepoManager) Users(dbx.DBTX) usersrepo.Repository {
	return racingUsers{m.fakeRepoManager.users}
}

// recordingMailer keeps every message it is asked to send.
type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (r *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func (r *recordingMailer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

// plainHasher stands in for bcrypt where the cost would only slow tests.
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) {
	if p == "" {
		return "", errors.New("password is empty")
	}
	return "hashed:" + p, nil
}

func (plainHasher) Verify(p, h string) bool { return h == "hashed:"+p }
