// Package apierrors defines the client-visible error taxonomy of the gallery
// server. Every error a handler can surface is an *APIError carrying a Kind,
// an HTTP status and a message that is safe to show to the caller.
package apierrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an APIError.
type Kind string

const (
	KindMissingField                   Kind = "MissingField"
	KindDuplicateEmail                 Kind = "DuplicateEmail"
	KindDuplicateCategory              Kind = "DuplicateCategory"
	KindCategoryRequiredForCertificate Kind = "CategoryRequiredForCertificate"
	KindCertificateRequiredForField    Kind = "CertificateRequiredForField"
	KindNewFieldAndCertificateRequired Kind = "NewFieldAndCertificateRequired"
	KindInvalidCredentials             Kind = "InvalidCredentials"
	KindMissingToken                   Kind = "MissingToken"
	KindInvalidToken                   Kind = "InvalidToken"
	KindTokenExpired                   Kind = "TokenExpired"
	KindAuthorNotFound                 Kind = "AuthorNotFound"
	KindCategoryMismatch               Kind = "CategoryMismatch"
	KindUnknownCategory                Kind = "UnknownCategory"
	KindPromptNotFound                 Kind = "PromptNotFound"
	KindStorage                        Kind = "StorageError"
	KindArtifactWrite                  Kind = "ArtifactWriteError"
	KindInternal                       Kind = "InternalServerError"
)

// Messages shared by several constructors. Authentication failures never say
// which check failed.
const (
	MessageInvalidCredentials = "Invalid email or password"
	MessageInvalidToken       = "Invalid or expired token"
	MessageStorage            = "Service temporarily unavailable, please retry"
	MessageInternal           = "Internal server error"
)

// APIError is an error with a kind, an HTTP status and a client-safe message.
type APIError struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an APIError of the same kind.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Retryable reports whether the caller may retry the request unchanged.
func (e *APIError) Retryable() bool {
	return e.Kind == KindStorage
}

// Sentinels for errors.Is comparisons.
var (
	ErrMissingField                   = &APIError{Kind: KindMissingField}
	ErrDuplicateEmail                 = &APIError{Kind: KindDuplicateEmail}
	ErrDuplicateCategory              = &APIError{Kind: KindDuplicateCategory}
	ErrCategoryRequiredForCertificate = &APIError{Kind: KindCategoryRequiredForCertificate}
	ErrCertificateRequiredForField    = &APIError{Kind: KindCertificateRequiredForField}
	ErrNewFieldAndCertificateRequired = &APIError{Kind: KindNewFieldAndCertificateRequired}
	ErrInvalidCredentials             = &APIError{Kind: KindInvalidCredentials}
	ErrMissingToken                   = &APIError{Kind: KindMissingToken}
	ErrInvalidToken                   = &APIError{Kind: KindInvalidToken}
	ErrTokenExpired                   = &APIError{Kind: KindTokenExpired}
	ErrAuthorNotFound                 = &APIError{Kind: KindAuthorNotFound}
	ErrCategoryMismatch               = &APIError{Kind: KindCategoryMismatch}
	ErrUnknownCategory                = &APIError{Kind: KindUnknownCategory}
	ErrPromptNotFound                 = &APIError{Kind: KindPromptNotFound}
	ErrStorage                        = &APIError{Kind: KindStorage}
	ErrArtifactWrite                  = &APIError{Kind: KindArtifactWrite}
	ErrInternal                       = &APIError{Kind: KindInternal}
)

// As extracts the *APIError from err's chain.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func NewErrMissingField(field string) *APIError {
	return &APIError{
		Kind:    KindMissingField,
		Status:  http.StatusBadRequest,
		Message: fmt.Sprintf("Field %q is required", field),
	}
}

// NewErrAllFieldsRequired is a MissingField error that does not single out a field.
func NewErrAllFieldsRequired() *APIError {
	return &APIError{
		Kind:    KindMissingField,
		Status:  http.StatusBadRequest,
		Message: "All fields are required",
	}
}

func NewErrDuplicateEmail(email string) *APIError {
	return &APIError{
		Kind:    KindDuplicateEmail,
		Status:  http.StatusBadRequest,
		Message: "User already exists",
		Err:     fmt.Errorf("email %s is already registered", email),
	}
}

func NewErrDuplicateCategory(name string) *APIError {
	return &APIError{
		Kind:    KindDuplicateCategory,
		Status:  http.StatusBadRequest,
		Message: "Category already exists",
		Err:     fmt.Errorf("category %q collides with an existing one", name),
	}
}

func NewErrCategoryRequiredForCertificate() *APIError {
	return &APIError{
		Kind:    KindCategoryRequiredForCertificate,
		Status:  http.StatusBadRequest,
		Message: "Please select a field for the attached certificate",
	}
}

func NewErrCertificateRequiredForField() *APIError {
	return &APIError{
		Kind:    KindCertificateRequiredForField,
		Status:  http.StatusBadRequest,
		Message: "A certificate is required for the selected field",
	}
}

func NewErrNewFieldAndCertificateRequired() *APIError {
	return &APIError{
		Kind:    KindNewFieldAndCertificateRequired,
		Status:  http.StatusBadRequest,
		Message: "Both a new field name and a certificate are required",
	}
}

func NewErrInvalidCredentials() *APIError {
	return &APIError{
		Kind:    KindInvalidCredentials,
		Status:  http.StatusBadRequest,
		Message: MessageInvalidCredentials,
	}
}

func NewErrMissingToken() *APIError {
	return &APIError{
		Kind:    KindMissingToken,
		Status:  http.StatusUnauthorized,
		Message: "No token provided",
	}
}

func NewErrInvalidToken(err error) *APIError {
	return &APIError{
		Kind:    KindInvalidToken,
		Status:  http.StatusForbidden,
		Message: MessageInvalidToken,
		Err:     err,
	}
}

func NewErrTokenExpired(err error) *APIError {
	return &APIError{
		Kind:    KindTokenExpired,
		Status:  http.StatusForbidden,
		Message: MessageInvalidToken,
		Err:     err,
	}
}

func NewErrAuthorNotFound(email string) *APIError {
	return &APIError{
		Kind:    KindAuthorNotFound,
		Status:  http.StatusNotFound,
		Message: "User not found",
		Err:     fmt.Errorf("no user with email %s", email),
	}
}

func NewErrCategoryMismatch(certifiedField, category string) *APIError {
	return &APIError{
		Kind:    KindCategoryMismatch,
		Status:  http.StatusBadRequest,
		Message: fmt.Sprintf("You can only post prompts in your certified field %q", certifiedField),
		Err:     fmt.Errorf("category %q does not match certified field %q", category, certifiedField),
	}
}

func NewErrUnknownCategory(name string) *APIError {
	return &APIError{
		Kind:    KindUnknownCategory,
		Status:  http.StatusBadRequest,
		Message: fmt.Sprintf("Category %q does not exist", name),
	}
}

func NewErrPromptNotFound(id string) *APIError {
	return &APIError{
		Kind:    KindPromptNotFound,
		Status:  http.StatusNotFound,
		Message: "Prompt not found",
		Err:     fmt.Errorf("prompt %s not found", id),
	}
}

func NewErrStorage(err error) *APIError {
	return &APIError{
		Kind:    KindStorage,
		Status:  http.StatusServiceUnavailable,
		Message: MessageStorage,
		Err:     err,
	}
}

func NewErrArtifactWrite(err error) *APIError {
	return &APIError{
		Kind:    KindArtifactWrite,
		Status:  http.StatusInternalServerError,
		Message: "Failed to store uploaded file",
		Err:     err,
	}
}

func NewErrInternalServerError(err error) *APIError {
	return &APIError{
		Kind:    KindInternal,
		Status:  http.StatusInternalServerError,
		Message: MessageInternal,
		Err:     err,
	}
}
