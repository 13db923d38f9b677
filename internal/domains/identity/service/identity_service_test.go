package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"gcmn-library-backend/internal/config"
	"gcmn-library-backend/internal/domains/identity/model"
	cardModel "gcmn-library-backend/internal/domains/librarycard/model"
	"gcmn-library-backend/internal/infrastructure/session"
)

// ========================================
// FAKES
// ========================================

type fakeIdentityRepo struct {
	users    map[string]*model.User
	profiles map[string]*model.Profile
	roles    map[string][]string // userID -> role names
}

func newFakeIdentityRepo() *fakeIdentityRepo {
	return &fakeIdentityRepo{
		users:    make(map[string]*model.User),
		profiles: make(map[string]*model.Profile),
		roles:    make(map[string][]string),
	}
}

func (r *fakeIdentityRepo) CreateUser(ctx context.Context, u *model.User, defaultRole string) error {
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return model.ErrEmailAlreadyExists
		}
	}
	copied := *u
	r.users[u.ID] = &copied
	r.roles[u.ID] = append(r.roles[u.ID], defaultRole)
	return nil
}

func (r *fakeIdentityRepo) GetUser(ctx context.Context, id string) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeIdentityRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (r *fakeIdentityRepo) DeleteUser(ctx context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return model.ErrUserNotFound
	}
	delete(r.users, id)
	delete(r.profiles, id)
	delete(r.roles, id)
	return nil
}

func (r *fakeIdentityRepo) ListNonStudents(ctx context.Context) ([]model.DirectoryEntry, error) {
	out := make([]model.DirectoryEntry, 0)
	for _, u := range r.users {
		if u.Type != "student" {
			out = append(out, model.DirectoryEntry{ID: u.ID, UserID: u.ID, Name: u.FullName})
		}
	}
	return out, nil
}

func (r *fakeIdentityRepo) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (r *fakeIdentityRepo) UpsertProfile(ctx context.Context, userID string, req model.UpdateProfileRequest) (*model.Profile, error) {
	p := &model.Profile{
		UserID:   userID,
		FullName: req.FullName,
		Phone:    req.Phone,
		Address:  req.Address,
	}
	r.profiles[userID] = p
	copied := *p
	return &copied, nil
}

func (r *fakeIdentityRepo) GetRoles(ctx context.Context, userID string) ([]model.RoleAssignment, error) {
	out := make([]model.RoleAssignment, 0)
	for _, role := range r.roles[userID] {
		out = append(out, model.RoleAssignment{UserID: userID, Role: role})
	}
	return out, nil
}

func (r *fakeIdentityRepo) HasRole(ctx context.Context, userID, role string) (bool, error) {
	for _, have := range r.roles[userID] {
		if have == role {
			return true, nil
		}
	}
	return false, nil
}

type fakeCardRepo struct {
	apps     map[string]*cardModel.Application
	students []cardModel.Student
}

func newFakeCardRepo() *fakeCardRepo {
	return &fakeCardRepo{apps: make(map[string]*cardModel.Application)}
}

func (r *fakeCardRepo) Create(ctx context.Context, app *cardModel.Application) error {
	copied := *app
	r.apps[app.ID] = &copied
	return nil
}

func (r *fakeCardRepo) GetByID(ctx context.Context, id string) (*cardModel.Application, error) {
	app, ok := r.apps[id]
	if !ok {
		return nil, cardModel.ErrApplicationNotFound
	}
	copied := *app
	return &copied, nil
}

func (r *fakeCardRepo) GetByCardNumber(ctx context.Context, cardNumber string) (*cardModel.Application, error) {
	for _, app := range r.apps {
		if strings.EqualFold(app.CardNumber, cardNumber) {
			copied := *app
			return &copied, nil
		}
	}
	return nil, cardModel.ErrApplicationNotFound
}

func (r *fakeCardRepo) List(ctx context.Context) ([]cardModel.Application, error) { return nil, nil }
func (r *fakeCardRepo) ListByUser(ctx context.Context, userID string) ([]cardModel.Application, error) {
	return nil, nil
}
func (r *fakeCardRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return false, nil
}
func (r *fakeCardRepo) CardNumberExists(ctx context.Context, cardNumber string) (bool, error) {
	return false, nil
}
func (r *fakeCardRepo) UpdateStatus(ctx context.Context, id string, status cardModel.ApplicationStatus, student *cardModel.Student) (*cardModel.Application, error) {
	return nil, cardModel.ErrApplicationNotFound
}
func (r *fakeCardRepo) Delete(ctx context.Context, id string) error { return nil }
func (r *fakeCardRepo) ListStudents(ctx context.Context) ([]cardModel.Student, error) {
	return r.students, nil
}

type fakeSessionStore struct {
	sessions map[string]session.Session
	next     int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]session.Session)}
}

func (s *fakeSessionStore) Create(ctx context.Context, sess session.Session) (string, error) {
	s.next++
	token := fmt.Sprintf("token-%d", s.next)
	s.sessions[token] = sess
	return token, nil
}

func (s *fakeSessionStore) Get(ctx context.Context, token string) (*session.Session, error) {
	sess, ok := s.sessions[token]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	sess.Token = token
	return &sess, nil
}

func (s *fakeSessionStore) Destroy(ctx context.Context, token string) error {
	delete(s.sessions, token)
	return nil
}

// ========================================
// FIXTURE
// ========================================

var adminCfg = config.AdminConfig{
	Email:     "admin@gcmn.edu.pk",
	Password:  "super-secret",
	SecretKey: "vault-key",
}

type fixture struct {
	svc      ServiceInterface
	repo     *fakeIdentityRepo
	cards    *fakeCardRepo
	sessions *fakeSessionStore
}

func newFixture() *fixture {
	repo := newFakeIdentityRepo()
	cards := newFakeCardRepo()
	sessions := newFakeSessionStore()
	return &fixture{
		svc:      NewIdentityService(repo, cards, sessions, adminCfg),
		repo:     repo,
		cards:    cards,
		sessions: sessions,
	}
}

func (f *fixture) addAccount(t *testing.T, id, email, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	f.repo.users[id] = &model.User{
		ID: id, Email: email, Password: string(hash),
		FullName: "Bilal Ahmed", Type: "user", CreatedAt: time.Now(),
	}
	f.repo.roles[id] = []string{model.RoleUser}
}

func (f *fixture) addApplication(id, cardNumber string, status cardModel.ApplicationStatus) {
	f.cards.apps[id] = &cardModel.Application{
		ID: id, FirstName: "Ayesha", LastName: "Khan",
		Email: "ayesha@example.com", Phone: "0300-1234567",
		CardNumber: cardNumber, Status: status,
	}
}

// ========================================
// REGISTRATION
// ========================================

func TestRegister_CreatesAccountAndSession(t *testing.T) {
	f := newFixture()

	result, err := f.svc.Register(context.Background(), model.RegisterRequest{
		Email:    "bilal@example.com",
		Password: "hunter22",
		FullName: "Bilal Ahmed",
	})
	require.NoError(t, err)

	assert.Equal(t, "bilal@example.com", result.User.Email)
	require.NotEmpty(t, result.SessionToken)

	sess, err := f.sessions.Get(context.Background(), result.SessionToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, sess.UserID)

	stored := f.repo.users[result.User.ID]
	require.NotNil(t, stored)
	assert.Equal(t, "user", stored.Type)
	assert.NotEqual(t, "hunter22", stored.Password)
}

func TestRegister_ClassMakesStudent(t *testing.T) {
	f := newFixture()

	result, err := f.svc.Register(context.Background(), model.RegisterRequest{
		Email:        "sana@example.com",
		Password:     "hunter22",
		FullName:     "Sana Tariq",
		StudentClass: "Class 11",
	})
	require.NoError(t, err)

	assert.Equal(t, "student", f.repo.users[result.User.ID].Type)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture()
	f.addAccount(t, "u1", "bilal@example.com", "hunter22")

	_, err := f.svc.Register(context.Background(), model.RegisterRequest{
		Email:    "BILAL@example.com",
		Password: "hunter22",
		FullName: "Bilal Ahmed",
	})
	assert.ErrorIs(t, err, model.ErrEmailAlreadyExists)
}

func TestRegister_InvalidInput(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Register(context.Background(), model.RegisterRequest{
		Email:    "not-an-email",
		Password: "short",
	})
	assert.Error(t, err)
}

// ========================================
// LOGIN
// ========================================

func TestLogin_Account(t *testing.T) {
	f := newFixture()
	f.addAccount(t, "u1", "bilal@example.com", "hunter22")

	result, err := f.svc.Login(context.Background(), model.LoginRequest{
		Email:    "bilal@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", result.User.ID)
	assert.False(t, result.IsAdmin)
	assert.NotEmpty(t, result.SessionToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newFixture()
	f.addAccount(t, "u1", "bilal@example.com", "hunter22")

	_, err := f.svc.Login(context.Background(), model.LoginRequest{
		Email:    "bilal@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Login(context.Background(), model.LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestLogin_FixedAdmin(t *testing.T) {
	f := newFixture()

	result, err := f.svc.Login(context.Background(), model.LoginRequest{
		Email:     adminCfg.Email,
		Password:  adminCfg.Password,
		SecretKey: adminCfg.SecretKey,
	})
	require.NoError(t, err)

	assert.True(t, result.IsAdmin)
	assert.Equal(t, model.FixedAdminID, result.User.ID)
	assert.Equal(t, "/admin-dashboard", result.Redirect)

	sess, err := f.sessions.Get(context.Background(), result.SessionToken)
	require.NoError(t, err)
	assert.True(t, sess.IsAdmin)
	assert.Equal(t, model.FixedAdminID, sess.UserID)
}

func TestLogin_WrongSecretKeyFallsThroughToAccount(t *testing.T) {
	f := newFixture()
	f.addAccount(t, "u1", adminCfg.Email, adminCfg.Password)

	result, err := f.svc.Login(context.Background(), model.LoginRequest{
		Email:     adminCfg.Email,
		Password:  adminCfg.Password,
		SecretKey: "guessed-wrong",
	})
	require.NoError(t, err)

	// Same email and password, but the bad key means a plain account
	// session, not an admin one.
	assert.False(t, result.IsAdmin)
	assert.Equal(t, "u1", result.User.ID)
}

func TestLogin_Card(t *testing.T) {
	f := newFixture()
	f.addApplication("app1", "CS-45-12", cardModel.StatusApproved)

	result, err := f.svc.Login(context.Background(), model.LoginRequest{
		LibraryCardID: "cs-45-12",
	})
	require.NoError(t, err)

	assert.True(t, result.IsLibraryCard)
	assert.Equal(t, "app1", result.User.ID)
	assert.Equal(t, "Ayesha Khan", result.User.Name)

	sess, err := f.sessions.Get(context.Background(), result.SessionToken)
	require.NoError(t, err)
	assert.Equal(t, "card-app1", sess.UserID)
	assert.True(t, sess.IsLibraryCard)
}

func TestLogin_CardStatuses(t *testing.T) {
	f := newFixture()
	f.addApplication("p1", "CS-1-12", cardModel.StatusPending)
	f.addApplication("r1", "CS-2-12", cardModel.StatusRejected)

	_, err := f.svc.Login(context.Background(), model.LoginRequest{LibraryCardID: "CS-1-12"})
	assert.ErrorIs(t, err, model.ErrCardPending)

	_, err = f.svc.Login(context.Background(), model.LoginRequest{LibraryCardID: "CS-2-12"})
	assert.ErrorIs(t, err, model.ErrCardRejected)

	_, err = f.svc.Login(context.Background(), model.LoginRequest{LibraryCardID: "CS-99-12"})
	assert.ErrorIs(t, err, model.ErrCardNotFound)
}

func TestLogout_DestroysSession(t *testing.T) {
	f := newFixture()
	f.addAccount(t, "u1", "bilal@example.com", "hunter22")

	result, err := f.svc.Login(context.Background(), model.LoginRequest{
		Email:    "bilal@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(context.Background(), result.SessionToken))

	_, err = f.sessions.Get(context.Background(), result.SessionToken)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

// ========================================
// ACTOR RESOLUTION
// ========================================

func TestResolveActor_NilSession(t *testing.T) {
	f := newFixture()

	actor, err := f.svc.ResolveActor(context.Background(), nil)
	assert.ErrorIs(t, err, model.ErrNotAuthenticated)
	assert.Equal(t, model.ActorAnonymous, actor.Kind)
}

func TestResolveActor_FixedAdmin(t *testing.T) {
	f := newFixture()

	actor, err := f.svc.ResolveActor(context.Background(), &session.Session{
		UserID:  model.FixedAdminID,
		IsAdmin: true,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ActorFixedAdmin, actor.Kind)
	assert.True(t, actor.Admin)
}

func TestResolveActor_Account(t *testing.T) {
	f := newFixture()
	f.addAccount(t, "u1", "bilal@example.com", "hunter22")

	actor, err := f.svc.ResolveActor(context.Background(), &session.Session{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, model.ActorAccount, actor.Kind)
	assert.Equal(t, "u1", actor.AccountID)
	assert.False(t, actor.Admin)

	// A role grant takes effect on the next resolve, no session change.
	f.repo.roles["u1"] = append(f.repo.roles["u1"], model.RoleAdmin)
	actor, err = f.svc.ResolveActor(context.Background(), &session.Session{UserID: "u1"})
	require.NoError(t, err)
	assert.True(t, actor.Admin)
}

func TestResolveActor_DeletedAccount(t *testing.T) {
	f := newFixture()

	actor, err := f.svc.ResolveActor(context.Background(), &session.Session{UserID: "gone"})
	assert.ErrorIs(t, err, model.ErrNotAuthenticated)
	assert.Equal(t, model.ActorAnonymous, actor.Kind)
}

func TestResolveActor_Card(t *testing.T) {
	f := newFixture()
	f.addApplication("app1", "CS-45-12", cardModel.StatusApproved)

	actor, err := f.svc.ResolveActor(context.Background(), &session.Session{
		UserID:        "card-app1",
		IsLibraryCard: true,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ActorLibraryCard, actor.Kind)
	assert.Equal(t, "app1", actor.ApplicationID)
	assert.False(t, actor.Admin)
}

func TestResolveActor_DeletedApplication(t *testing.T) {
	f := newFixture()

	actor, err := f.svc.ResolveActor(context.Background(), &session.Session{
		UserID:        "card-gone",
		IsLibraryCard: true,
	})
	assert.ErrorIs(t, err, model.ErrNotAuthenticated)
	assert.Equal(t, model.ActorAnonymous, actor.Kind)
}

// ========================================
// DIRECTORY
// ========================================

func TestDeleteUser_ProtectedAccounts(t *testing.T) {
	f := newFixture()

	assert.ErrorIs(t, f.svc.DeleteUser(context.Background(), "1"), model.ErrProtectedAccount)
	assert.ErrorIs(t, f.svc.DeleteUser(context.Background(), "admin"), model.ErrProtectedAccount)
	assert.ErrorIs(t, f.svc.DeleteUser(context.Background(), "  1  "), model.ErrProtectedAccount)
}

func TestDeleteUser_RegularAccount(t *testing.T) {
	f := newFixture()
	f.addAccount(t, "u1", "bilal@example.com", "hunter22")

	require.NoError(t, f.svc.DeleteUser(context.Background(), "u1"))
	_, ok := f.repo.users["u1"]
	assert.False(t, ok)
}

func TestListUsers_SplitsStudentsAndAccounts(t *testing.T) {
	f := newFixture()
	f.addAccount(t, "u1", "bilal@example.com", "hunter22")
	f.cards.students = []cardModel.Student{
		{ID: "s1", UserID: "card-app1", CardID: "CS-45-12", Name: "Ayesha Khan"},
	}

	dir, err := f.svc.ListUsers(context.Background())
	require.NoError(t, err)

	require.Len(t, dir.Students, 1)
	assert.Equal(t, "CS-45-12", dir.Students[0].CardID)
	require.Len(t, dir.NonStudents, 1)
	assert.Equal(t, "u1", dir.NonStudents[0].ID)
}

func TestCurrentUser_Account(t *testing.T) {
	f := newFixture()
	f.addAccount(t, "u1", "bilal@example.com", "hunter22")

	me, err := f.svc.CurrentUser(context.Background(), model.Actor{
		Kind:      model.ActorAccount,
		AccountID: "u1",
	})
	require.NoError(t, err)
	assert.Equal(t, "bilal@example.com", me.User.Email)
	assert.Equal(t, []string{model.RoleUser}, me.Roles)
	assert.False(t, me.IsAdmin)
}

func TestCurrentUser_Card(t *testing.T) {
	f := newFixture()
	f.addApplication("app1", "CS-45-12", cardModel.StatusApproved)

	me, err := f.svc.CurrentUser(context.Background(), model.Actor{
		Kind:          model.ActorLibraryCard,
		ApplicationID: "app1",
	})
	require.NoError(t, err)
	assert.True(t, me.IsLibraryCard)
	assert.Equal(t, "CS-45-12", me.User.CardNumber)
}
