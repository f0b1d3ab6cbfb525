package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"steadypath/internal/model"
)

// =============================================================================
// MOCK REPOSITORY
// =============================================================================

type mockUserRepository struct {
	createFn           func(ctx context.Context, user *model.User) error
	getByIDFn          func(ctx context.Context, id int64) (*model.User, error)
	getByUsernameFn    func(ctx context.Context, username string) (*model.User, error)
	existsByUsernameFn func(ctx context.Context, username string) (bool, error)
	listClientIDsFn    func(ctx context.Context) ([]int64, error)

	createCalls []*model.User
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.createCalls = append(m.createCalls, user)
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsByUsernameFn != nil {
		return m.existsByUsernameFn(ctx, username)
	}
	return false, nil
}

func (m *mockUserRepository) ListClientIDs(ctx context.Context) ([]int64, error) {
	if m.listClientIDsFn != nil {
		return m.listClientIDsFn(ctx)
	}
	return nil, nil
}

// =============================================================================
// REGISTER TESTS
// =============================================================================

func TestUserService_Register_Success(t *testing.T) {
	mockRepo := &mockUserRepository{
		createFn: func(ctx context.Context, user *model.User) error {
			user.ID = 1
			user.CreatedAt = time.Now()
			user.UpdatedAt = time.Now()
			return nil
		},
	}
	svc := NewUserService(mockRepo)

	req := &model.RegisterRequest{
		Username:    "testuser",
		Password:    "securepassword123",
		DisplayName: "Test User",
	}

	user, err := svc.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if user.ID != 1 {
		t.Errorf("expected ID 1, got %d", user.ID)
	}
	if user.Role != model.RoleClient {
		t.Errorf("role should default to client, got %q", user.Role)
	}
	if user.PasswordHashed == req.Password {
		t.Error("password must not be stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password)); err != nil {
		t.Error("stored hash does not match the password")
	}
}

func TestUserService_Register_ExplicitRole(t *testing.T) {
	svc := NewUserService(&mockUserRepository{})

	user, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "lead",
		Password: "securepassword123",
		Role:     model.RoleFacilitator,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if user.Role != model.RoleFacilitator {
		t.Errorf("role = %q, want facilitator", user.Role)
	}
}

func TestUserService_Register_InvalidRole(t *testing.T) {
	svc := NewUserService(&mockUserRepository{})

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "testuser",
		Password: "securepassword123",
		Role:     "admin",
	})
	if !errors.Is(err, model.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got: %v", err)
	}
}

func TestUserService_Register_UsernameTaken(t *testing.T) {
	mockRepo := &mockUserRepository{
		existsByUsernameFn: func(ctx context.Context, username string) (bool, error) {
			return true, nil
		},
	}
	svc := NewUserService(mockRepo)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "taken",
		Password: "securepassword123",
	})
	if !errors.Is(err, model.ErrUsernameExists) {
		t.Fatalf("expected ErrUsernameExists, got: %v", err)
	}
	if len(mockRepo.createCalls) != 0 {
		t.Error("Create should not be called when the username is taken")
	}
}

func TestUserService_Register_MissingFields(t *testing.T) {
	svc := NewUserService(&mockUserRepository{})

	if _, err := svc.Register(context.Background(), &model.RegisterRequest{Password: "x"}); err == nil {
		t.Error("expected an error for missing username")
	}
	if _, err := svc.Register(context.Background(), &model.RegisterRequest{Username: "x"}); err == nil {
		t.Error("expected an error for missing password")
	}
}

// =============================================================================
// LOGIN TESTS
// =============================================================================

func TestUserService_Login(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correcthorse"), bcrypt.DefaultCost)
	mockRepo := &mockUserRepository{
		getByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			if username != "testuser" {
				return nil, model.ErrUserNotFound
			}
			return &model.User{ID: 7, Username: "testuser", PasswordHashed: string(hash), Role: model.RoleClient}, nil
		},
	}
	svc := NewUserService(mockRepo)

	t.Run("success", func(t *testing.T) {
		user, err := svc.Login(context.Background(), &model.LoginRequest{Username: "testuser", Password: "correcthorse"})
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if user.ID != 7 {
			t.Errorf("expected user 7, got %d", user.ID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &model.LoginRequest{Username: "testuser", Password: "wrong"})
		if !errors.Is(err, model.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got: %v", err)
		}
	})

	t.Run("unknown username maps to invalid credentials", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &model.LoginRequest{Username: "nobody", Password: "whatever"})
		if !errors.Is(err, model.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got: %v", err)
		}
	})
}
