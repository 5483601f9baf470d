package platform

import "errors"

var (
	// ErrRelationshipNotFound is returned when credentials are requested for an unknown relationship.
	ErrRelationshipNotFound = errors.New("relationship not found")
	// ErrInvalidCredentials is returned when a relationship entry cannot be decoded into Credentials.
	ErrInvalidCredentials = errors.New("invalid relationship credentials")
)
