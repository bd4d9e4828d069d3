package service

import (
	"context"
	"testing"

	"github.com/ByEilerDev/carsil-root/internal/apperr"
	"github.com/ByEilerDev/carsil-root/internal/config"
	"github.com/ByEilerDev/carsil-root/internal/dto"
	"github.com/ByEilerDev/carsil-root/internal/model"
	"github.com/ByEilerDev/carsil-root/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	byID   map[uint]model.User
	nextID uint
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[uint]model.User), nextID: 1}
}

func (f *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	u.ID = f.nextID
	f.nextID++
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uint) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := u
	return &cp, nil
}

func (f *fakeUserRepo) FindByName(_ context.Context, name string) (*model.User, error) {
	for _, u := range f.byID {
		if u.Name == name && u.Activo {
			cp := u
			return &cp, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeUserRepo) List(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range f.byID {
		if u.Activo {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *model.User) error {
	if _, ok := f.byID[u.ID]; !ok {
		return apperr.ErrNotFound
	}
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeUserRepo) Deactivate(_ context.Context, id uint) error {
	u, ok := f.byID[id]
	if !ok {
		return apperr.ErrNotFound
	}
	u.Activo = false
	f.byID[id] = u
	return nil
}

func newAuthFixture(t *testing.T) (*fakeUserRepo, AuthService) {
	t.Helper()
	repo := newFakeUserRepo()
	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
	}
	return repo, NewAuthService(repo, cfg)
}

func seedUser(t *testing.T, repo *fakeUserRepo, name, password, rol string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), &model.User{
		Name:         name,
		PasswordHash: string(hash),
		Rol:          rol,
		Activo:       true,
	}))
}

func TestLoginSuccess(t *testing.T) {
	repo, svc := newAuthFixture(t)
	seedUser(t, repo, "maria", "secret123", "supervisor")

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Name: "maria", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "Login successful", resp.Message)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, "maria", resp.User.Name)
	assert.Equal(t, "supervisor", resp.User.Rol)
}

func TestLoginWrongPassword(t *testing.T) {
	repo, svc := newAuthFixture(t)
	seedUser(t, repo, "maria", "secret123", "operario")

	_, err := svc.Login(context.Background(), dto.LoginRequest{Name: "maria", Password: "nope"})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	_, svc := newAuthFixture(t)
	_, err := svc.Login(context.Background(), dto.LoginRequest{Name: "ghost", Password: "whatever"})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}

func TestLoginRejectsEmptyFields(t *testing.T) {
	_, svc := newAuthFixture(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Name: "  ", Password: "x"})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Name: "maria", Password: ""})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestRefreshRoundTrip(t *testing.T) {
	repo, svc := newAuthFixture(t)
	seedUser(t, repo, "maria", "secret123", "administrador")

	login, err := svc.Login(context.Background(), dto.LoginRequest{Name: "maria", Password: "secret123"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, "maria", refreshed.User.Name)
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	_, svc := newAuthFixture(t)
	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}

func TestRefreshRejectsDeactivatedUser(t *testing.T) {
	repo, svc := newAuthFixture(t)
	seedUser(t, repo, "maria", "secret123", "operario")

	login, err := svc.Login(context.Background(), dto.LoginRequest{Name: "maria", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, repo.Deactivate(context.Background(), 1))
	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}

func TestCreateUserHashesPassword(t *testing.T) {
	repo, svc := newAuthFixture(t)

	resp, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Name: "pedro", Password: "longenough", Rol: "operario",
	})
	require.NoError(t, err)
	assert.True(t, resp.Activo)

	stored, err := repo.FindByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "longenough", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("longenough")))
}
