package user

import domain "graphql-user-service/internal/domain/user"

// OptionalString distinguishes an omitted input field from an explicit null
// and from a value.
type OptionalString struct {
	Set   bool    // Set is true when the field was present in the input
	Value *string // Value is nil when the field was explicitly null
}

// Some returns a present, non-null OptionalString.
func Some(v string) OptionalString {
	return OptionalString{Set: true, Value: &v}
}

// Null returns a present OptionalString holding null.
func Null() OptionalString {
	return OptionalString{Set: true}
}

// Get returns the value and whether there is one to apply. Omitted fields and
// explicit nulls both report false.
func (o OptionalString) Get() (string, bool) {
	if !o.Set || o.Value == nil {
		return "", false
	}
	return *o.Value, true
}

// CreateUserRequest represents the request payload for creating a new user.
type CreateUserRequest struct {
	Name  string `validate:"required"`
	Email string `validate:"required"`
}

// UpdateUserRequest represents a partial update. Omitted and null fields are
// left unchanged.
type UpdateUserRequest struct {
	ID    int64
	RawID string // RawID is the id as the caller sent it, for error messages
	Name  OptionalString
	Email OptionalString
}

// DeleteUserRequest represents the request payload for deleting a user.
type DeleteUserRequest struct {
	ID int64
}

// GetUserRequest represents the request payload for retrieving a user.
type GetUserRequest struct {
	ID int64
}

// User represents a user DTO (Data Transfer Object) for API responses.
type User struct {
	ID    int64
	Name  string
	Email string
}

func fromDomain(u *domain.User) *User {
	return &User{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}
