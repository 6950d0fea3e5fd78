package responses

import "net/http"

// APIError interface for custom API errors
type APIError interface {
	Error() string
	StatusCode() int
}

type BadRequestError struct {
	Msg string
}

func (e BadRequestError) Error() string {
	return e.Msg
}

func (BadRequestError) StatusCode() int {
	return http.StatusBadRequest
}

type NotFoundError struct {
	Msg string
}

func (e NotFoundError) Error() string {
	return e.Msg
}

func (NotFoundError) StatusCode() int {
	return http.StatusNotFound
}

// ConflictError is returned when a session id is already connected.
type ConflictError struct {
	Msg string
}

func (e ConflictError) Error() string {
	return e.Msg
}

func (ConflictError) StatusCode() int {
	return http.StatusConflict
}

type TooManyRequestsError struct {
	Msg string
}

func (e TooManyRequestsError) Error() string {
	return e.Msg
}

func (TooManyRequestsError) StatusCode() int {
	return http.StatusTooManyRequests
}

type InternalServerError struct {
	Msg string
}

func (e InternalServerError) Error() string {
	return e.Msg
}

func (InternalServerError) StatusCode() int {
	return http.StatusInternalServerError
}
