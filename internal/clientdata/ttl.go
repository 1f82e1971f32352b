package clientdata

import "time"

// TTL constants for different data types.
// These are added to the current time when storing to calculate expires_at.
const (
	// TTLChart covers raw daily-close responses. Historical closes do not
	// change, but the trailing day does.
	TTLChart = time.Hour
)
