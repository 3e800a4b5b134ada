package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_MatchesKind(t *testing.T) {
	assert.ErrorIs(t, ErrCommentNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrReplyToReply, ErrBadRequest)
	assert.ErrorIs(t, ErrCommentPermission, ErrForbidden)
	assert.ErrorIs(t, ErrEmptyText, ErrValidationFailed)

	assert.False(t, errors.Is(ErrCommentNotFound, ErrBadRequest))
	// 同样的文案，不同的错误
	assert.False(t, errors.Is(ErrParentNotFound, ErrCommentNotFound))
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("create: %w", ErrReplyToReply)

	assert.Equal(t, ErrBadRequest, KindOf(wrapped))
	assert.Equal(t, ErrNotFound, KindOf(ErrNotFound))
	assert.Equal(t, Kind(""), KindOf(errors.New("boom")))
	assert.Equal(t, "cannot reply to a reply", ErrReplyToReply.Error())
}
