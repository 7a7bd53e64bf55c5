package service

import (
	"errors"
	"fmt"
	"net/http"

	"recipehub/internal/microservices/http-api/dto"
)

// Kind classifies a service failure; the HTTP layer maps it to a status code.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindDuplicate
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindDuplicate:
		return "duplicate"
	case KindPersistence:
		return "persistence"
	}
	return "unknown"
}

// HTTPStatus is the response code used for errors of this kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindDuplicate:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Error is the structured failure returned by every service operation.
// Message is safe to show to users, Err keeps the underlying cause.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on the code, so a sentinel still matches after a cause is attached.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Identity errors
var (
	ErrDuplicateIdentity  = &Error{Kind: KindDuplicate, Code: "AUTH001", Message: "Username or email already exists"}
	ErrWeakPassword       = &Error{Kind: KindValidation, Code: "AUTH002", Message: "Password must be at least 6 characters long"}
	ErrInvalidEmail       = &Error{Kind: KindValidation, Code: "AUTH003", Message: "Invalid email format"}
	ErrInvalidCredentials = &Error{Kind: KindAuthentication, Code: "AUTH004", Message: "Invalid username or password"}
	ErrUnauthenticated    = &Error{Kind: KindAuthentication, Code: "AUTH005", Message: "Please log in to continue"}
	ErrInvalidCSRFToken   = &Error{Kind: KindAuthorization, Code: "AUTH006", Message: "Invalid request token"}
	ErrPasswordTooLong    = &Error{Kind: KindValidation, Code: "AUTH007", Message: "Password must be at most 72 bytes long"}
)

// Recipe errors
var (
	ErrNotOwner       = &Error{Kind: KindAuthorization, Code: "REC001", Message: "You can only edit your own recipes"}
	ErrNotOwnerDelete = &Error{Kind: KindAuthorization, Code: "REC002", Message: "You can only delete your own recipes"}
	ErrRecipeNotFound = &Error{Kind: KindNotFound, Code: "REC003", Message: "Recipe not found"}
	ErrInvalidImage   = &Error{Kind: KindValidation, Code: "REC004", Message: "Invalid image upload"}
)

// Rating errors
var (
	ErrOutOfRange          = &Error{Kind: KindValidation, Code: "RAT001", Message: "Rating must be between 1 and 5 stars"}
	ErrSelfRatingForbidden = &Error{Kind: KindAuthorization, Code: "RAT002", Message: "You cannot rate your own recipe"}
	ErrNotAuthor           = &Error{Kind: KindAuthorization, Code: "RAT003", Message: "You can only delete your own ratings"}
	ErrRatingNotFound      = &Error{Kind: KindNotFound, Code: "RAT004", Message: "Rating not found"}
	ErrCommentTooLong      = &Error{Kind: KindValidation, Code: "RAT005", Message: "Comment must be at most 500 characters"}
)

func validationError(err error) *Error {
	return &Error{Kind: KindValidation, Code: "VAL001", Message: err.Error(), Err: err}
}

func persistenceError(op string, err error) *Error {
	return &Error{Kind: KindPersistence, Code: "DB001", Message: "Something went wrong, please try again", Err: fmt.Errorf("%s: %w", op, err)}
}

// withCause attaches an underlying error to a sentinel without losing its identity.
func withCause(sentinel *Error, err error) *Error {
	return &Error{Kind: sentinel.Kind, Code: sentinel.Code, Message: sentinel.Message, Err: err}
}

// Describe maps any error to an HTTP status and the outcome shown to the client.
// Errors that are not service errors are reported as internal failures.
func Describe(err error) (int, dto.Outcome) {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind.HTTPStatus(), dto.Failed(svcErr.Code, svcErr.Message)
	}
	return http.StatusInternalServerError, dto.Failed("SYS001", "Internal server error")
}
