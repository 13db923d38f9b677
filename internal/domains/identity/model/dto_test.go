package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Email checks are purely syntactic. Addresses on domains with no DNS
// records (campus hosts, seed admin accounts) must still validate.
func TestRegisterRequest_EmailFormatOnly(t *testing.T) {
	req := RegisterRequest{
		Email:    "admin@gcmn.edu.pk",
		Password: "hunter22",
		FullName: "System Administrator",
	}
	assert.NoError(t, req.Validate())

	req.Email = "not-an-email"
	assert.Error(t, req.Validate())
}

func TestLoginRequest_EmailFormatOnly(t *testing.T) {
	req := LoginRequest{Email: "someone@no-such-domain.gcmn.edu.pk", Password: "hunter22"}
	assert.NoError(t, req.Validate())

	req.Email = "missing-at-sign"
	assert.Error(t, req.Validate())

	// Card logins skip the email check entirely.
	assert.NoError(t, LoginRequest{LibraryCardID: "CS-45-12"}.Validate())
}
