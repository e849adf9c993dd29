package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesKind(t *testing.T) {
	err := &Error{Kind: KindAlreadyVoted, Status: 403, Message: "You have already voted for one or more posts."}

	assert.True(t, errors.Is(err, ErrAlreadyVoted))
	assert.False(t, errors.Is(err, ErrUnauthorized))
	assert.True(t, errors.Is(fmt.Errorf("cast vote: %w", err), ErrAlreadyVoted))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, ErrorKind(""), KindOf(nil))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindValidation, KindOf(fmt.Errorf("wrapped: %w", NewError(KindValidation, "bad %s", "phone"))))
}

func TestForcesReauth(t *testing.T) {
	assert.True(t, ForcesReauth(ErrAlreadyVoted))
	assert.True(t, ForcesReauth(fmt.Errorf("x: %w", ErrUnauthorized)))
	assert.False(t, ForcesReauth(ErrValidation))
	assert.False(t, ForcesReauth(ErrNetwork))
	assert.False(t, ForcesReauth(errors.New("plain")))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "bad phone", NewError(KindValidation, "bad %s", "phone").Error())
	assert.Equal(t, "NETWORK: dial tcp: refused", (&Error{Kind: KindNetwork, Err: errors.New("dial tcp: refused")}).Error())
	assert.Equal(t, "NOT_FOUND", (&Error{Kind: KindNotFound}).Error())
}
