package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "graphql-user-service/internal/domain/user"
	apperrors "graphql-user-service/pkg/errors"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func setupTestUsecase(t *testing.T) (*Usecase, *MockRepository) {
	mockRepo := new(MockRepository)
	logger := zaptest.NewLogger(t)
	uc := New(mockRepo, logger)
	return uc, mockRepo
}

// ==================== GET USER TESTS ====================

func TestGetUser_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(1)).
		Return(&domain.User{ID: 1, Name: "John Doe", Email: "john@example.com"}, nil)

	got, err := uc.GetUser(ctx, GetUserRequest{ID: 1})

	require.NoError(t, err)
	assert.Equal(t, &User{ID: 1, Name: "John Doe", Email: "john@example.com"}, got)
	mockRepo.AssertExpectations(t)
}

func TestGetUser_NotFoundReturnsNil(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(99)).Return(nil, apperrors.NewNotFoundError("user", "99"))

	got, err := uc.GetUser(ctx, GetUserRequest{ID: 99})

	assert.NoError(t, err)
	assert.Nil(t, got)
	mockRepo.AssertExpectations(t)
}

func TestGetUser_InvalidIDReturnsNil(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)

	got, err := uc.GetUser(context.Background(), GetUserRequest{ID: 0})

	assert.NoError(t, err)
	assert.Nil(t, got)
	mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestGetUser_RepositoryError(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	dbErr := apperrors.NewInternalError("failed to get user", errors.New("connection refused"))
	mockRepo.On("GetByID", ctx, int64(1)).Return(nil, dbErr)

	got, err := uc.GetUser(ctx, GetUserRequest{ID: 1})

	assert.Nil(t, got)
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
}

// ==================== LIST USERS TESTS ====================

func TestListUsers_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("List", ctx).Return([]domain.User{
		{ID: 1, Name: "John Doe", Email: "john@example.com"},
		{ID: 2, Name: "Jane Smith", Email: "jane@example.com"},
	}, nil)

	users, err := uc.ListUsers(ctx)

	require.NoError(t, err)
	assert.Equal(t, []User{
		{ID: 1, Name: "John Doe", Email: "john@example.com"},
		{ID: 2, Name: "Jane Smith", Email: "jane@example.com"},
	}, users)
}

func TestListUsers_Empty(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("List", ctx).Return([]domain.User{}, nil)

	users, err := uc.ListUsers(ctx)

	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestListUsers_RepositoryError(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("List", ctx).Return(nil, apperrors.NewInternalError("failed to list users", errors.New("db down")))

	users, err := uc.ListUsers(ctx)

	assert.Error(t, err)
	assert.Nil(t, users)
}

// ==================== CREATE USER TESTS ====================

func TestCreateUser_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	req := CreateUserRequest{
		Name:  "John Doe",
		Email: "john@example.com",
	}

	mockRepo.On("GetByEmail", ctx, req.Email).Return(nil, nil)
	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Name == req.Name && u.Email == req.Email
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.User).ID = 1
	}).Return(nil)

	got, err := uc.CreateUser(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, &User{ID: 1, Name: "John Doe", Email: "john@example.com"}, got)
	mockRepo.AssertExpectations(t)
}

func TestCreateUser_ValidationError_NameRequired(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)

	got, err := uc.CreateUser(context.Background(), CreateUserRequest{Email: "john@example.com"})

	assert.Nil(t, got)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "Name is required")
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateUser_ValidationError_MultipleErrors(t *testing.T) {
	uc, _ := setupTestUsecase(t)

	got, err := uc.CreateUser(context.Background(), CreateUserRequest{})

	assert.Nil(t, got)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Name is required")
	assert.Contains(t, err.Error(), "Email is required")
}

func TestCreateUser_EmailAlreadyExists(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	req := CreateUserRequest{Name: "John Doe", Email: "john@example.com"}
	mockRepo.On("GetByEmail", ctx, req.Email).
		Return(&domain.User{ID: 2, Name: "Existing User", Email: "john@example.com"}, nil)

	got, err := uc.CreateUser(ctx, req)

	assert.Nil(t, got)
	assert.Equal(t, apperrors.KindConstraintViolation, apperrors.KindOf(err))
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateUser_ConstraintRaceSurfacesStorageError(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	req := CreateUserRequest{Name: "John Doe", Email: "john@example.com"}
	mockRepo.On("GetByEmail", ctx, req.Email).Return(nil, nil)
	mockRepo.On("Create", ctx, mock.Anything).
		Return(apperrors.NewConstraintViolationError("email", "email already exists", errors.New("UNIQUE constraint failed: users.email")))

	got, err := uc.CreateUser(ctx, req)

	assert.Nil(t, got)
	assert.Equal(t, apperrors.KindConstraintViolation, apperrors.KindOf(err))
}

// ==================== UPDATE USER TESTS ====================

func TestUpdateUser_OnlyNameLeavesEmail(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(1)).
		Return(&domain.User{ID: 1, Name: "John Doe", Email: "john@example.com"}, nil)
	mockRepo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == 1 && u.Name == "John Updated" && u.Email == "john@example.com"
	})).Return(nil)

	got, err := uc.UpdateUser(ctx, UpdateUserRequest{ID: 1, Name: Some("John Updated")})

	require.NoError(t, err)
	assert.Equal(t, &User{ID: 1, Name: "John Updated", Email: "john@example.com"}, got)
	mockRepo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestUpdateUser_NewEmail(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(1)).
		Return(&domain.User{ID: 1, Name: "John Doe", Email: "john@example.com"}, nil)
	mockRepo.On("GetByEmail", ctx, "johnny@example.com").Return(nil, nil)
	mockRepo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Name == "John Doe" && u.Email == "johnny@example.com"
	})).Return(nil)

	got, err := uc.UpdateUser(ctx, UpdateUserRequest{ID: 1, Email: Some("johnny@example.com")})

	require.NoError(t, err)
	assert.Equal(t, "johnny@example.com", got.Email)
	mockRepo.AssertExpectations(t)
}

func TestUpdateUser_NothingSet(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(3)).
		Return(&domain.User{ID: 3, Name: "Jane", Email: "jane@example.com"}, nil)
	mockRepo.On("Update", ctx, mock.Anything).Return(nil)

	got, err := uc.UpdateUser(ctx, UpdateUserRequest{ID: 3})

	require.NoError(t, err)
	assert.Equal(t, &User{ID: 3, Name: "Jane", Email: "jane@example.com"}, got)
}

func TestUpdateUser_EmailTakenByAnotherUser(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(1)).
		Return(&domain.User{ID: 1, Name: "John Doe", Email: "john@example.com"}, nil)
	mockRepo.On("GetByEmail", ctx, "jane@example.com").
		Return(&domain.User{ID: 2, Name: "Jane", Email: "jane@example.com"}, nil)

	got, err := uc.UpdateUser(ctx, UpdateUserRequest{ID: 1, Email: Some("jane@example.com")})

	assert.Nil(t, got)
	assert.Equal(t, apperrors.KindConstraintViolation, apperrors.KindOf(err))
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateUser_NotFound(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(42)).Return(nil, apperrors.NewNotFoundError("user", "42"))

	got, err := uc.UpdateUser(ctx, UpdateUserRequest{ID: 42, Name: Some("Ghost")})

	assert.Nil(t, got)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateUser_InvalidIDIsNotFound(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)

	got, err := uc.UpdateUser(context.Background(), UpdateUserRequest{ID: 0, RawID: "abc", Name: Some("x")})

	assert.Nil(t, got)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	assert.EqualError(t, err, "user not found: id=abc")
	mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestUpdateUser_EmptyValueIsRejected(t *testing.T) {
	tests := []struct {
		name  string
		req   UpdateUserRequest
		field string
	}{
		{"empty name", UpdateUserRequest{ID: 1, Name: Some("")}, "name"},
		{"empty email", UpdateUserRequest{ID: 1, Email: Some("")}, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, mockRepo := setupTestUsecase(t)

			got, err := uc.UpdateUser(context.Background(), tt.req)

			assert.Nil(t, got)
			var vErr *apperrors.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
			mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		})
	}
}

func TestUpdateUser_NullLeavesFieldUnchanged(t *testing.T) {
	tests := []struct {
		name string
		req  UpdateUserRequest
		want User
	}{
		{
			name: "null name",
			req:  UpdateUserRequest{ID: 1, Name: Null(), Email: Some("johnny@example.com")},
			want: User{ID: 1, Name: "John Doe", Email: "johnny@example.com"},
		},
		{
			name: "null email",
			req:  UpdateUserRequest{ID: 1, Name: Some("Johnny"), Email: Null()},
			want: User{ID: 1, Name: "Johnny", Email: "john@example.com"},
		},
		{
			name: "both null",
			req:  UpdateUserRequest{ID: 1, Name: Null(), Email: Null()},
			want: User{ID: 1, Name: "John Doe", Email: "john@example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, mockRepo := setupTestUsecase(t)
			ctx := context.Background()

			mockRepo.On("GetByID", ctx, int64(1)).
				Return(&domain.User{ID: 1, Name: "John Doe", Email: "john@example.com"}, nil)
			mockRepo.On("GetByEmail", ctx, "johnny@example.com").Return(nil, nil).Maybe()
			mockRepo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
				return u.Name == tt.want.Name && u.Email == tt.want.Email
			})).Return(nil)

			got, err := uc.UpdateUser(ctx, tt.req)

			require.NoError(t, err)
			assert.Equal(t, &tt.want, got)
			mockRepo.AssertExpectations(t)
		})
	}
}

// ==================== DELETE USER TESTS ====================

func TestDeleteUser(t *testing.T) {
	tests := []struct {
		name    string
		id      int64
		deleted bool
		repoErr error
		wantErr bool
	}{
		{name: "existing user", id: 1, deleted: true},
		{name: "missing user", id: 2, deleted: false},
		{name: "storage failure", id: 3, repoErr: apperrors.NewInternalError("failed to delete user", errors.New("timeout")), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, mockRepo := setupTestUsecase(t)
			ctx := context.Background()

			mockRepo.On("Delete", ctx, tt.id).Return(tt.deleted, tt.repoErr)

			got, err := uc.DeleteUser(ctx, DeleteUserRequest{ID: tt.id})

			if tt.wantErr {
				assert.Error(t, err)
				assert.False(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.deleted, got)
		})
	}
}

func TestDeleteUser_InvalidID(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)

	got, err := uc.DeleteUser(context.Background(), DeleteUserRequest{ID: 0})

	assert.NoError(t, err)
	assert.False(t, got)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
