package service

import "errors"

// Kind 错误类别，handler 按类别映射 HTTP 状态码
type Kind string

func (k Kind) Error() string { return string(k) }

const (
	ErrNotFound         Kind = "not found"
	ErrBadRequest       Kind = "bad request"
	ErrForbidden        Kind = "forbidden"
	ErrValidationFailed Kind = "validation failed"
	ErrUnauthorized     Kind = "unauthorized"
)

// Error 带类别的业务错误，errors.Is 同时匹配具体错误和所属类别
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// KindOf 返回错误类别，非业务错误返回空
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var k Kind
	if errors.As(err, &k) {
		return k
	}
	return ""
}

var (
	ErrArticleNotFound   = newError(ErrNotFound, "eco news not found")
	ErrCommentNotFound   = newError(ErrNotFound, "comment not found")
	ErrParentNotFound    = newError(ErrBadRequest, "comment not found")
	ErrCommentGone       = newError(ErrBadRequest, "comment not found")
	ErrReplyToReply      = newError(ErrBadRequest, "cannot reply to a reply")
	ErrParentNotInNews   = newError(ErrBadRequest, "parent comment belongs to another eco news")
	ErrNotCurrentUser    = newError(ErrBadRequest, "not current user")
	ErrCommentPermission = newError(ErrForbidden, "no permission to delete this comment")
	ErrEmptyText         = newError(ErrValidationFailed, "comment text must not be blank")
	ErrTextTooLong       = newError(ErrValidationFailed, "comment text is too long")

	ErrEmailExists        = newError(ErrBadRequest, "email is already registered")
	ErrUsernameExists     = newError(ErrBadRequest, "username is already taken")
	ErrInvalidCredentials = newError(ErrUnauthorized, "wrong email or password")
	ErrUserNotFound       = newError(ErrNotFound, "user not found")
	ErrInvalidRole        = newError(ErrBadRequest, "unknown role")
	ErrRolePermission     = newError(ErrForbidden, "only admins can change roles")
)
