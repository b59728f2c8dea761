// Package noteid generates note identifiers.
package noteid

import "github.com/google/uuid"

// New returns a random (version 4) UUID string. It panics if the system's secure
// random source is unavailable, which is treated as a fatal condition.
func New() string {
	return uuid.New().String()
}
