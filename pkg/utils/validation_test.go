package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	UserID      string `json:"user_id" validate:"required"`
	Requirement string `json:"requirement" validate:"required,min=1"`
	Email       string `json:"email,omitempty" validate:"email"`
}

func TestValidateStructPassesValidInput(t *testing.T) {
	req := sampleRequest{
		UserID:      "alice",
		Requirement: "Build a login page",
		Email:       "alice@example.com",
	}

	assert.NoError(t, ValidateStruct(req))
}

func TestValidateStructReportsWireFieldNames(t *testing.T) {
	err := ValidateStruct(sampleRequest{Email: "not-an-email"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "user_id is required")
	assert.Contains(t, err.Error(), "requirement is required")
	assert.Contains(t, err.Error(), "email must be a valid email")
}

func TestValidateStructJoinsMessages(t *testing.T) {
	err := ValidateStruct(sampleRequest{Email: "bad"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "; ")
}
