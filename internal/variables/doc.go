// Package variables coerces the raw, client-supplied variable values of an
// operation against the operation's variable definitions.
//
// # Overview
//
// Coerce walks every variable definition in document order and produces a
// Result holding, per variable, either a type-conformant value or a set of
// located errors. The walk is a pure recursion over the declared type:
//
//   - NonNull: a null raw value is "Not provided"; otherwise the inner type
//     is coerced at the same path.
//   - List: null is an absent list. A non-sequence is "Invalid value
//     provided". Null elements are dropped when the element type is
//     nullable and reported at "<path>[]" when it is NonNull.
//   - Scalar: the registry's parse function decides; a failure is "Invalid
//     value provided".
//   - Enum: the raw value must name a declared enum value.
//   - Input object: declared fields are visited in schema order, applying
//     field defaults and required-field checks. Deprecated fields and keys
//     unknown to the schema are reported as advisories.
//
// # Errors
//
// Every problem reachable in the input is reported in a single pass. Each
// Error carries a Severity: SeverityFatal records make the Result fail and
// keep the affected variable out of Result.Processed; SeverityAdvisory
// records are informational and never block execution.
//
// Messages have a fixed shape that clients rely on:
//
//	Variable `<path>' (<Type>): Not provided
//	Variable `<path>' (<Type>): Invalid value provided
//	Variable `<path>' (<Type>): Deprecated; <reason>
//	Variable `<path>': Not present in schema
//
// Paths start at the variable name, add ".<field>" per input field and a
// literal "[]" per list level. Every error is located at the declaring
// variable definition.
//
// # Recursion bound
//
// Input object types may refer to themselves, and a field default can feed
// such a cycle without any client input. Recursion is therefore capped by
// Options.MaxDepth; crossing it is a fatal error at the offending path.
package variables
