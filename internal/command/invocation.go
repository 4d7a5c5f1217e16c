package command

import "strings"

// chainOperator runs the next command only if the previous one exited 0.
const chainOperator = " && "

// String returns the command as the interpreter will see it.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Assemble joins commands into a single invocation that stops at the first failure.
func Assemble(commands []Command) string {
	parts := make([]string, 0, len(commands))
	for _, cmd := range commands {
		parts = append(parts, cmd.String())
	}
	return strings.Join(parts, chainOperator)
}

// trimTrailingNewline strips exactly one trailing newline.
func trimTrailingNewline(b []byte) string {
	s := string(b)
	return strings.TrimSuffix(s, "\n")
}
