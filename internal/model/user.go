package model

import "time"

// Role names stored in users.role.  PASTOR and SECRETARY are the
// privileged roles; LEADER is the ordinary requester role assigned on
// self-registration.
const (
	RolePastor    = "PASTOR"
	RoleSecretary = "SECRETARY"
	RoleLeader    = "LEADER"
)

// IsPrivileged reports whether the given role may approve requests and
// reservations and see undisclosed agenda details.
func IsPrivileged(role string) bool {
	return role == RolePastor || role == RoleSecretary
}

// ValidRole reports whether the string is one of the known role names.
func ValidRole(role string) bool {
	return role == RolePastor || role == RoleSecretary || role == RoleLeader
}

// User represents an application user record as stored in the `users`
// table.  Accounts are never hard-deleted; IsActive is cleared instead so
// historical requests and reservations keep a valid owner.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name shown in notifications and agenda notes.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – role name (PASTOR, SECRETARY or LEADER).
//  Phone        – optional contact phone.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Name         string    // users.name
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	Phone        *string   // users.phone (nullable)
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry and
// revocation.  The plain token is not stored; only its SHA-256 hash.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
