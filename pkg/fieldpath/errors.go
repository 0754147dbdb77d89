package fieldpath

import "fmt"

// InvalidPathError reports a path string that cannot be decoded. It signals
// an input-format bug in the record that carried the path; callers skip the
// offending record rather than aborting the pass.
type InvalidPathError struct {
	Raw    string
	Reason string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("fieldpath: invalid path %q: %s", e.Raw, e.Reason)
}
