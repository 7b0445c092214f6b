package services

import "errors"

// Sentinel errors for the business rules. Handlers map these to HTTP status
// codes with errors.Is; everything else surfaces as an internal error.
var (
	// ErrEmailTaken is returned when signing up with an already registered
	// email. The comparison is exact and case-sensitive.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidRole is returned when a signup carries a role outside
	// mentor/mentee.
	ErrInvalidRole = errors.New("invalid role")

	// ErrInvalidCredentials covers both unknown email and wrong password,
	// so a caller cannot probe which emails are registered.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrTokenExpired marks a well-formed, correctly signed token past its
	// expiry. It is surfaced to clients the same as ErrTokenInvalid but the
	// two are logged apart.
	ErrTokenExpired = errors.New("token has expired")

	// ErrTokenInvalid marks a malformed, tampered or otherwise unverifiable
	// token.
	ErrTokenInvalid = errors.New("invalid token")

	// ErrUserNotFound is returned when a verified token references a user
	// that no longer exists, or an image is requested for an unknown user.
	ErrUserNotFound = errors.New("user not found")

	// ErrMentorNotFound is returned when a match request targets an id that
	// is not an existing mentor.
	ErrMentorNotFound = errors.New("mentor not found")

	// ErrDuplicatePendingRequest is returned when a mentee already has a
	// pending request to any mentor.
	ErrDuplicatePendingRequest = errors.New("mentee already has a pending match request")

	// ErrMentorSlotTaken is returned when a mentor tries to accept a request
	// while already having an accepted one.
	ErrMentorSlotTaken = errors.New("mentor already has an accepted mentee")

	// ErrRequestNotFound covers a missing request id, a request owned by
	// someone else and a request in the wrong status. Collapsing the three
	// keeps another user's requests invisible.
	ErrRequestNotFound = errors.New("match request not found")
)
