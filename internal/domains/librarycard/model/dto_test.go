package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Applicants often use campus addresses whose domain has no public DNS
// records; the email rule must stay a pure format check.
func TestSubmitApplicationRequest_EmailFormatOnly(t *testing.T) {
	req := SubmitApplicationRequest{
		FirstName: "Ayesha",
		LastName:  "Khan",
		Class:     "Class 12",
		RollNo:    "45",
		Email:     "ayesha@gcmn.edu.pk",
		Phone:     "0300-1234567",
	}
	assert.NoError(t, req.Validate())

	req.Email = "ayesha-at-nowhere"
	assert.Error(t, req.Validate())
}
