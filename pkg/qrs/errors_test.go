package qrs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorPredicates(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"auth", &AuthError{Reason: "bad certificate"}, IsAuth},
		{"auth expired", &AuthExpiredError{StatusCode: 401}, IsAuthExpired},
		{"transport", &TransportError{Op: "GET /qrs/app", Err: errors.New("refused")}, IsTransport},
		{"not found", &NotFoundError{Kind: "app", ID: "x"}, IsNotFound},
		{"conflict", &ConflictError{Kind: "stream"}, IsConflict},
		{"validation", &ValidationError{Kind: "user"}, IsValidation},
		{"timeout", &TimeoutError{Action: "reload"}, IsTimeout},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.True(t, testCase.check(testCase.err))
			assert.True(t, testCase.check(fmt.Errorf("wrapped: %w", testCase.err)),
				"predicates see through wrapping")
			assert.False(t, testCase.check(errors.New("unrelated")))
		})
	}
}

func TestRemoteValidationDistinction(t *testing.T) {
	local := &ValidationError{Kind: "app", Field: "name", Detail: "name is required"}
	remote := &ValidationError{Kind: "app", Detail: "rejected", Remote: true}

	assert.True(t, IsValidation(local))
	assert.False(t, IsRemoteValidation(local))

	assert.True(t, IsValidation(remote))
	assert.True(t, IsRemoteValidation(remote))

	assert.Contains(t, local.Error(), "local")
	assert.Contains(t, remote.Error(), "server")
}

func TestAuthErrorUnwraps(t *testing.T) {
	cause := errors.New("no such file")
	err := &AuthError{Reason: "loading client certificate pair", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "no such file")
}

func TestNotFoundErrorMessage(t *testing.T) {
	err := &NotFoundError{Kind: "stream", ID: "abc"}
	assert.Equal(t, `stream "abc" not found`, err.Error())
}
