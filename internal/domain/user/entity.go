package user

import "time"

// User represents a user entity in the system.
type User struct {
	ID        int64     // ID is assigned by storage on insert and never changes
	Name      string    // Name is the full name of the user
	Email     string    // Email is the unique email address of the user
	CreatedAt time.Time // CreatedAt is maintained by storage
	UpdatedAt time.Time // UpdatedAt is maintained by storage
}
