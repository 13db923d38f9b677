package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	cardModel "gcmn-library-backend/internal/domains/librarycard/model"
)

// RegisterRequest creates a new account. Academic fields are optional;
// declaring a class marks the account as a student.
type RegisterRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	FullName     string `json:"fullName"`
	Phone        string `json:"phone"`
	RollNumber   string `json:"rollNumber"`
	Department   string `json:"department"`
	StudentClass string `json:"studentClass"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.EmailFormat.Error("invalid email format"),
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
			validation.Length(6, 128).Error("password must be 6-128 characters"),
		),
		validation.Field(&r.FullName, validation.Required.Error("full name is required")),
	)
}

// LoginRequest covers all three login paths. SecretKey attempts the
// fixed-admin path; LibraryCardID attempts the card path (no password);
// otherwise a normal email/password account login.
type LoginRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	SecretKey     string `json:"secretKey"`
	LibraryCardID string `json:"libraryCardId"`
}

func (r LoginRequest) Validate() error {
	if r.LibraryCardID != "" {
		return nil
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Password, validation.Required),
	)
}

// UpdateProfileRequest mutates the caller's profile.
type UpdateProfileRequest struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// PublicUser is the identity payload returned by auth endpoints.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`

	// CardNumber is set for library-card identities only.
	CardNumber string `json:"cardNumber,omitempty"`
}

// AuthResult is what login/register hand back to the HTTP layer.
type AuthResult struct {
	User          PublicUser `json:"user"`
	IsAdmin       bool       `json:"isAdmin,omitempty"`
	IsLibraryCard bool       `json:"isLibraryCard,omitempty"`
	Redirect      string     `json:"redirect,omitempty"`

	// SessionToken goes into the cookie, not the body.
	SessionToken string `json:"-"`
}

// MeResponse describes the current session identity.
type MeResponse struct {
	User          PublicUser `json:"user"`
	Profile       *Profile   `json:"profile,omitempty"`
	Roles         []string   `json:"roles,omitempty"`
	IsAdmin       bool       `json:"isAdmin,omitempty"`
	IsLibraryCard bool       `json:"isLibraryCard,omitempty"`
}

// UserDirectory is the admin users listing: student projections plus
// everyone else.
type UserDirectory struct {
	Students    []cardModel.Student `json:"students"`
	NonStudents []DirectoryEntry    `json:"nonStudents"`
}
