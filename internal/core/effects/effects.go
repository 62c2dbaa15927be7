// Package effects describes the I/O a scaffold run performs as plain data.
// Planners in internal/core build effects; internal/app interprets them.
package effects

// Effect is one planned I/O operation.
type Effect interface {
	EffectType() string
}

// FileEffect writes one generated artifact.
type FileEffect struct {
	Operation string // "write"
	Path      string
	Content   []byte
	Mode      uint32
	Role      string // "component", "route table", "router"
	Artifact  string // artifact kind for components
}

func (e FileEffect) EffectType() string { return "file" }

// CommandEffect represents an external tool invocation, such as a
// framework's project bootstrap command.
type CommandEffect struct {
	Dir  string // working directory
	Name string
	Args []string
}

func (e CommandEffect) EffectType() string { return "command" }
