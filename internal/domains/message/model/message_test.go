package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateMessageRequest_Validate(t *testing.T) {
	req := CreateMessageRequest{
		Name:    "Bilal Ahmed",
		Email:   "bilal@gcmn.edu.pk", // domain without DNS records must pass
		Message: "When does the reading hall open?",
	}
	assert.NoError(t, req.Validate())

	req.Email = "bilal@"
	assert.Error(t, req.Validate())

	req = CreateMessageRequest{Email: "bilal@example.com"}
	assert.Error(t, req.Validate())
}
