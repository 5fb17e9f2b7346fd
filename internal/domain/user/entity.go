package user

import "time"

// User represents a user entity in the system.
type User struct {
	ID        int64     // ID is assigned by storage on creation and never changes
	Name      string    // Name is the trimmed display name
	Email     string    // Email is the trimmed, unique email address
	CreatedAt time.Time // CreatedAt is set once on creation
	UpdatedAt time.Time // UpdatedAt is refreshed on every update
}
