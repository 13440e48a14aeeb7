package user

import "context"

// UserUsecase defines the interface for user business logic operations.
// Transport adapters depend on it rather than on *Usecase.
type UserUsecase interface {
	GetUser(ctx context.Context, in GetUserRequest) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
	CreateUser(ctx context.Context, in CreateUserRequest) (*User, error)
	UpdateUser(ctx context.Context, in UpdateUserRequest) (*User, error)
	DeleteUser(ctx context.Context, in DeleteUserRequest) (bool, error)
}
