package model

import "time"

// Role names for role assignments.
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleUser      = "user"
)

// ProtectedUserIDs are accounts that can never be deleted: the seed admin
// row and the fixed-admin sentinel.
var ProtectedUserIDs = map[string]bool{
	"1":     true,
	"admin": true,
}

// User is a registered account.
type User struct {
	ID       string  `json:"id" db:"id"`
	Email    string  `json:"email" db:"email"`
	Password string  `json:"-" db:"password_hash"` // never expose in JSON
	FullName string  `json:"fullName" db:"full_name"`
	Phone    *string `json:"phone" db:"phone"`

	// Academic fields captured at registration (optional)
	RollNumber   *string `json:"rollNumber" db:"roll_number"`
	Department   *string `json:"department" db:"department"`
	StudentClass *string `json:"studentClass" db:"student_class"`

	// Type is "student" when a class was declared at registration,
	// otherwise "user". The seed admin row has "admin".
	Type string `json:"type" db:"type"`

	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
}

// Profile is the mutable contact sheet attached to an account.
type Profile struct {
	ID        string     `json:"id" db:"id"`
	UserID    string     `json:"userId" db:"user_id"`
	FullName  string     `json:"fullName" db:"full_name"`
	Phone     string     `json:"phone" db:"phone"`
	Address   string     `json:"address" db:"address"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
}

// RoleAssignment grants a named role to an account. An account may hold
// several.
type RoleAssignment struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// DirectoryEntry is the admin users-listing row for non-student accounts.
type DirectoryEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
}
