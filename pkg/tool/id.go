package tool

import "github.com/google/uuid"

// GenerateUUIDV7 returns a time-ordered UUID; primary keys use it so index
// pages fill append-only.
func GenerateUUIDV7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// GenerateTraceID returns a random UUID for request correlation.
func GenerateTraceID() string {
	return uuid.NewString()
}
