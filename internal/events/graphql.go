package events

import "time"

// GraphQLStart is published once the document has parsed, before the
// variables gate runs.
type GraphQLStart struct {
	Query         string
	OperationName string
	OperationType string
}

// GraphQLFinish closes an operation. Rejected reports a response carrying
// no data, as when the variables gate fails.
type GraphQLFinish struct {
	OperationName string
	OperationType string
	Errors        []error
	Rejected      bool
	Duration      time.Duration
}

// VariablesCoerced is emitted once per operation after its variables have
// been coerced, before any field is resolved.
type VariablesCoerced struct {
	OperationName string
	Variables     int // declared
	Processed     int
	Fatal         int
	Advisory      int
	Duration      time.Duration
}
