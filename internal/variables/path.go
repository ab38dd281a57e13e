package variables

import "strings"

// ListSegment is the path segment recorded for one level of list traversal.
const ListSegment = "[]"

// Path locates a value inside a variable. The first segment is the variable
// name. Paths are never modified in place; Append returns a copy.
type Path []string

// Append returns a new path with seg added.
func (p Path) Append(seg string) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = seg
	return out
}

// String renders the path as "contact.emails[].address".
func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		if i > 0 && seg != ListSegment {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
}
