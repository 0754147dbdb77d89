package datatree

import "fmt"

// InvalidDataStructureError reports an irreconcilable leaf/container
// conflict while building the data context. It is only produced under
// WithStrictConflicts; the default policy resolves conflicts in favour of
// the deeper path.
type InvalidDataStructureError struct {
	Path   string
	Reason string
}

func (e *InvalidDataStructureError) Error() string {
	return fmt.Sprintf("datatree: structural conflict at %q: %s", e.Path, e.Reason)
}
