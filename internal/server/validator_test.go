package server

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SimpnicServerTeam/scs-blog-server/internal/models"
)

func TestRequestValidator(t *testing.T) {
	v, err := NewRequestValidator()
	require.NoError(t, err)

	tests := []struct {
		name      string
		input     any
		wantField string
	}{
		{"ValidSignup", models.SignupRequest{Email: "a@b.co", Password: "password123"}, ""},
		{"MissingEmail", models.SignupRequest{Password: "password123"}, "email"},
		{"BadEmail", models.SignupRequest{Email: "not-an-email", Password: "password123"}, "email"},
		{"ShortPassword", models.SignupRequest{Email: "a@b.co", Password: "short"}, "password"},
		{"LongPassword", models.SignupRequest{Email: "a@b.co", Password: strings.Repeat("x", 73)}, "password"},
		{"MaxLengthPassword", models.SignupRequest{Email: "a@b.co", Password: strings.Repeat("x", 72)}, ""},
		{"ShortNewPassword", models.ChangePasswordRequest{CurrentPassword: "whatever", NewPassword: "1234567"}, "newPassword"},
		{"MissingTitle", models.CreatePostRequest{Content: "body"}, "title"},
		{"EmptyTitleUpdate", models.UpdatePostRequest{Title: new(string)}, "title"},
		{"EmptyUpdate", models.UpdatePostRequest{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.input)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var ve ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve, tt.wantField)
		})
	}
}

func TestRequestValidator_PasswordMessage(t *testing.T) {
	v, err := NewRequestValidator()
	require.NoError(t, err)

	err = v.Validate(models.SignupRequest{Email: "a@b.co", Password: "short"})

	require.Error(t, err)
	assert.Equal(t, "password must be 8-72 characters", err.Error())
}

func TestValidationError_Error(t *testing.T) {
	assert.Equal(t, "validation error", ValidationError{}.Error())
	assert.Equal(t, "a; b", ValidationError{"y": "b", "x": "a"}.Error())
}
