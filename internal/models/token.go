package models

import (
	"time"
)

// IssuedToken is a signed bearer token handed to the client.
// Not persisted anywhere, it dies by expiry only.
type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}
