package auth

import (
	"errors"
	"net/http"
)

// Kind classifies a request failure. The api package maps every Kind to an
// HTTP status and a JSON error body.
type Kind string

const (
	MissingCredential     Kind = "MissingCredential"
	ConfigurationError    Kind = "ConfigurationError"
	UpstreamAuthRejected  Kind = "UpstreamAuthRejected"
	AuthUnavailable       Kind = "AuthUnavailable" // no answer from the auth service
	MalformedClaim        Kind = "MalformedClaim"
	InsufficientPrivilege Kind = "InsufficientPrivilege"
)

// Failure is a typed authentication or authorization error. Status and
// Message are what the caller sees.
type Failure struct {
	Kind    Kind
	Status  int
	Message string
}

func (f *Failure) Error() string {
	return string(f.Kind) + ": " + f.Message
}

var (
	// ErrMissingCredential is returned when no credential was supplied.
	ErrMissingCredential = &Failure{Kind: MissingCredential, Status: http.StatusUnauthorized, Message: "missing credentials"}
	// ErrNoAuthService is returned when AUTH_SERVICE_ADDRESS is not configured.
	ErrNoAuthService = &Failure{Kind: ConfigurationError, Status: http.StatusInternalServerError, Message: "AUTH_SERVICE_ADDRESS environment variable not set"}
	// ErrMalformedClaim is returned when the claim payload is not a JSON object.
	ErrMalformedClaim = &Failure{Kind: MalformedClaim, Status: http.StatusUnauthorized, Message: "Invalid token format"}
	// ErrNotAdmin is returned when the claim does not grant the admin role.
	ErrNotAdmin = &Failure{Kind: InsufficientPrivilege, Status: http.StatusForbidden, Message: "Unauthorized, admin role required"}
)

// AsFailure unwraps err into a *Failure if it carries one.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
