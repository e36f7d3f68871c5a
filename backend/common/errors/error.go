package errors

import (
	"errors"
	"net/http"
)

// Error is an error carrying a stable code next to its human-readable message.
type Error struct {
	Code string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) ErrorCode() string {
	return e.Code
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(code string, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
		Err:  errors.New(msg),
	}
}

// Wrap keeps err as the cause so errors.Is/As still see it.
func Wrap(err error, code string, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
		Err:  err,
	}
}

func InternalServerError(err error) *Error {
	return Wrap(err, ErrInternalServer, "internal server error")
}

func InvalidParamError(param string) *Error {
	return New(ErrInvalidParam, "invalid parameter: "+param)
}

func IsErrorCode(err error, code string) bool {
	return CodeOf(err) == code
}

// CodeOf returns the code of the first coded error in err's chain, or
// ErrInternalServer for anything uncoded.
func CodeOf(err error) string {
	var codedErr *Error
	if errors.As(err, &codedErr) {
		return codedErr.Code
	}
	return ErrInternalServer
}

var statusByCode = map[string]int{
	ErrInvalidParam:       http.StatusBadRequest,
	ErrTooManyRequests:    http.StatusTooManyRequests,
	ErrBodyTooLarge:       http.StatusRequestEntityTooLarge,
	ErrUnauthorized:       http.StatusUnauthorized,
	ErrInvalidCredentials: http.StatusUnauthorized,
	ErrForbidden:          http.StatusForbidden,
	ErrUserNotFound:       http.StatusNotFound,
	ErrCategoryNotFound:   http.StatusNotFound,
	ErrEmptyName:          http.StatusBadRequest,
	ErrFileNotFound:       http.StatusNotFound,
	ErrBlobMissing:        http.StatusNotFound,
	ErrNoFile:             http.StatusBadRequest,
	ErrUnsupportedType:    http.StatusBadRequest,
	ErrFileTooLarge:       http.StatusRequestEntityTooLarge,
	ErrInvalidCategoryID:  http.StatusBadRequest,
	ErrCategoryMissing:    http.StatusBadRequest,
}

// HTTPStatus maps err to the status code the API answers with.
func HTTPStatus(err error) int {
	if status, ok := statusByCode[CodeOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}
