package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrAuthenticationMissing means no credential is stored; the request
	// was never sent.
	ErrAuthenticationMissing = errors.New("not logged in")

	// ErrAuthenticationExpired means the stored credential outlived the
	// session lifetime and has been cleared.
	ErrAuthenticationExpired = errors.New("session expired")

	// ErrInvalidCredentials is returned by Login for any non-2xx response.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrNetwork is wrapped by every *NetworkError.
	ErrNetwork = errors.New("network error")

	// ErrServerRejected is wrapped by every *ServerRejection.
	ErrServerRejected = errors.New("server rejected request")

	// ErrValidation is wrapped by every *ValidationError.
	ErrValidation = errors.New("validation failed")
)

// NetworkError is a transport failure, or a non-2xx response whose body
// carried no message.
type NetworkError struct {
	Op     string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %d %s", e.Op, e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrNetwork}
	}
	return []error{ErrNetwork, e.Err}
}

// ServerRejection is a non-2xx response with a {message} body.
type ServerRejection struct {
	Op      string
	Status  int
	Message string
}

func (e *ServerRejection) Error() string {
	return fmt.Sprintf("%s: %s (%d)", e.Op, e.Message, e.Status)
}

func (e *ServerRejection) Unwrap() error { return ErrServerRejected }

// ValidationError is a client-side precondition failure. Nothing was sent.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid is shorthand for a *ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Kind is the user-facing category of an error.
type Kind int

const (
	KindUnknown Kind = iota
	KindAuthMissing
	KindAuthExpired
	KindInvalidCredentials
	KindNetwork
	KindServerRejected
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindAuthMissing:
		return "auth_missing"
	case KindAuthExpired:
		return "auth_expired"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindNetwork:
		return "network"
	case KindServerRejected:
		return "server_rejected"
	case KindValidation:
		return "validation"
	}
	return "unknown"
}

// Classify maps err onto the error taxonomy.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrAuthenticationExpired):
		return KindAuthExpired
	case errors.Is(err, ErrAuthenticationMissing):
		return KindAuthMissing
	case errors.Is(err, ErrInvalidCredentials):
		return KindInvalidCredentials
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrServerRejected):
		return KindServerRejected
	case errors.Is(err, ErrNetwork):
		return KindNetwork
	}
	return KindUnknown
}

// RequiresLogin reports whether err should send the user back to login.
func RequiresLogin(err error) bool {
	k := Classify(err)
	return k == KindAuthMissing || k == KindAuthExpired
}

// Message renders err as the text shown in a danger notice.
func Message(err error) string {
	var rej *ServerRejection
	var val *ValidationError
	switch Classify(err) {
	case KindAuthExpired:
		return "Your session has expired. Please log in again."
	case KindAuthMissing:
		return "Please log in to continue."
	case KindInvalidCredentials:
		return "Login failed. Please check your username and password."
	case KindValidation:
		if errors.As(err, &val) {
			return val.Error()
		}
	case KindServerRejected:
		if errors.As(err, &rej) {
			return rej.Message
		}
	case KindNetwork:
		return "Could not reach the server: " + err.Error()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
