package identity

import "time"

// User is a platform account. CompanyID and TeamID are zero for
// platform-level users not attached to a tenant.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	DisplayName  string
	CompanyID    int64
	TeamID       int64
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
