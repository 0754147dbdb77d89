package helpers

import "github.com/goliatone/go-docmerge/pkg/fieldpath"

// Frame tracks one level of path-aware block evaluation. Iteration frames
// carry the entry's index or key; scope frames only extend the accumulated
// path prefix. Frames chain child → parent and live exactly as long as the
// block invocation that created them.
type Frame struct {
	BasePath fieldpath.Path
	Index    int
	Key      string
	First    bool
	Last     bool
	Parent   *Frame
}

// Ancestor walks the parent chain the given number of levels. Zero returns
// the frame itself; walking past the outermost frame returns nil.
func (f *Frame) Ancestor(levels int) *Frame {
	frame := f
	for levels > 0 && frame != nil {
		frame = frame.Parent
		levels--
	}
	return frame
}

// Depth reports how many frames are stacked below this one.
func (f *Frame) Depth() int {
	depth := 0
	for frame := f.Parent; frame != nil; frame = frame.Parent {
		depth++
	}
	return depth
}
