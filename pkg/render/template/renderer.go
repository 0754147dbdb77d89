// Package template defines the engine seam the renderer depends on,
// keeping the concrete template backend swappable.
package template

// Template is a compiled template, reusable across render passes.
type Template interface {
	Execute(data map[string]any) (string, error)
}

// TemplateRenderer compiles block-structured template text. Compilation
// happens once per template; execution happens once per pass.
type TemplateRenderer interface {
	CompileString(content string) (Template, error)
	CompileFile(name string) (Template, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
}
