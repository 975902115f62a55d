package domain

import "strings"

// CommandSpec is a parameterized process invocation. Args are passed as a
// vector and never joined into a shell string.
type CommandSpec struct {
	Name string
	Args []string
}

// Command builds a CommandSpec.
func Command(name string, args ...string) CommandSpec {
	return CommandSpec{Name: name, Args: args}
}

// String renders the spec for logs.
func (c CommandSpec) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// ProcessOutcome is the uniform result of a privileged or plain command.
type ProcessOutcome struct {
	Success  bool
	ExitCode int
	Stdout   string
	Stderr   string
}
