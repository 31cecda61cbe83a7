package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prestige-rentals/internal/auth"
	"prestige-rentals/internal/logger"
	"prestige-rentals/internal/models"
)

type MockUserDB struct {
	users   map[int64]*models.User
	byEmail map[string]*models.User
	details map[int64]*models.UserDetails
	nextID  int64
}

func NewMockUserDB() *MockUserDB {
	return &MockUserDB{
		users:   make(map[int64]*models.User),
		byEmail: make(map[string]*models.User),
		details: make(map[int64]*models.UserDetails),
		nextID:  1,
	}
}

func (m *MockUserDB) CreateUser(user *models.User) error {
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = user
	m.byEmail[user.Email] = user
	return nil
}

func (m *MockUserDB) GetUserByID(id int64) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return u, nil
}

func (m *MockUserDB) GetUserByEmail(email string) (*models.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return u, nil
}

func (m *MockUserDB) GetActiveUsers() ([]models.User, error) {
	var out []models.User
	for _, u := range m.users {
		if u.Active && !u.Deleted {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *MockUserDB) UpdateUser(user *models.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *MockUserDB) SoftDeleteUser(id int64) error {
	u, ok := m.users[id]
	if !ok {
		return models.ErrUserNotFound
	}
	u.Active = false
	u.Deleted = true
	if d, ok := m.details[id]; ok {
		d.Active = false
		d.Deleted = true
	}
	return nil
}

func (m *MockUserDB) CreateUserDetails(details *models.UserDetails) error {
	m.details[details.UserID] = details
	return nil
}

func (m *MockUserDB) GetUserDetails(userID int64) (*models.UserDetails, error) {
	d, ok := m.details[userID]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return d, nil
}

func (m *MockUserDB) UpdateUserDetails(details *models.UserDetails) error {
	m.details[details.UserID] = details
	return nil
}

func newService() (*UserService, *MockUserDB) {
	db := NewMockUserDB()
	tokens := auth.NewTokenGenerator("test-secret", time.Hour)
	return NewUserService(db, tokens, logger.NewLogger()), db
}

func registerRequest() models.RegisterRequest {
	return models.RegisterRequest{
		Email:     "driver@example.com",
		Password:  "hunter22",
		FirstName: "Ana",
		LastName:  "Petrova",
	}
}

func TestRegisterCreatesAccountAndDetails(t *testing.T) {
	svc, db := newService()

	resp, err := svc.Register(registerRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	user, err := db.GetUserByEmail("driver@example.com")
	require.NoError(t, err)
	assert.Equal(t, "User", user.Role)
	assert.NotEqual(t, "hunter22", user.Password, "password must be stored hashed")

	details, err := db.GetUserDetails(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", details.FirstName)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Register(registerRequest())
	require.NoError(t, err)

	_, err = svc.Register(registerRequest())
	assert.ErrorIs(t, err, models.ErrEmailExists)
}

func TestRegisterRequiresEmailAndPassword(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Register(models.RegisterRequest{Password: "x"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	_, err = svc.Register(models.RegisterRequest{Email: "a@b.c"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, _ := newService()
	_, err := svc.Register(registerRequest())
	require.NoError(t, err)

	resp, err := svc.Login(models.LoginRequest{Email: "driver@example.com", Password: "hunter22"})
	require.NoError(t, err)

	userID, role, err := svc.Tokens.VerifyToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), userID)
	assert.Equal(t, "User", role)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _ := newService()
	_, err := svc.Register(registerRequest())
	require.NoError(t, err)

	_, err = svc.Login(models.LoginRequest{Email: "driver@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Login(models.LoginRequest{Email: "ghost@example.com", Password: "x"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestLoginRejectsDeletedAccount(t *testing.T) {
	svc, db := newService()
	_, err := svc.Register(registerRequest())
	require.NoError(t, err)

	user, err := db.GetUserByEmail("driver@example.com")
	require.NoError(t, err)
	require.NoError(t, db.SoftDeleteUser(user.ID))

	_, err = svc.Login(models.LoginRequest{Email: "driver@example.com", Password: "hunter22"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestDeleteUserCascadesToDetails(t *testing.T) {
	svc, db := newService()
	_, err := svc.Register(registerRequest())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(1))

	details, err := db.GetUserDetails(1)
	require.NoError(t, err)
	assert.True(t, details.Deleted)
	assert.False(t, details.Active)
}
