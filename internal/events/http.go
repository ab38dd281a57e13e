package events

import "time"

// HTTPStart opens one request on the GraphQL endpoint. The event context
// carries the request ID.
type HTTPStart struct {
	Method string
	Target string
}

// HTTPFinish closes the request. Operations counts the GraphQL operations
// executed; it is zero when the request was rejected before parsing
// succeeded.
type HTTPFinish struct {
	Status     int
	Operations int
	Duration   time.Duration
}
