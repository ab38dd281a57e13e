// Package executor runs GraphQL operations over a pluggable Runtime.
//
// Every operation passes through variable coercion first. A fatal
// variable error ends the request with errors and no data. Otherwise the
// coerced values drive argument substitution and @skip/@include, and any
// advisory variable errors lead the result's error list.
//
// Execution is breadth first. Synchronous fields (schema.Field.Async ==
// false) are resolved and completed immediately. Async fields found at one
// depth are queued and resolved with a single Runtime.BatchResolveAsync
// call, so an operation whose async nesting is d levels deep makes exactly
// d batch calls.
//
// Non-Null violations null the nearest nullable ancestor. Queued tasks
// below a nulled path are dropped before the next batch.
package executor
