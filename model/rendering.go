package model

import (
	"fmt"
	"io"
	"os"
	"os/exec"
)

const clearCmd = "clear"

// TerminalRenderer prints boards as text
type TerminalRenderer struct {
	Out io.Writer
}

// NewTerminalRenderer returns a renderer writing to stdout
func NewTerminalRenderer() *TerminalRenderer {
	return &TerminalRenderer{Out: os.Stdout}
}

// Display writes the framed board followed by a blank line
func (r *TerminalRenderer) Display(b *Board) {
	fmt.Fprintf(r.out(), "%s\n\n", b.Display())
}

// Clear clears the terminal screen
func (r *TerminalRenderer) Clear() {
	cmd := exec.Command(clearCmd)
	cmd.Stdout = r.out()
	if err := cmd.Run(); err != nil {
		fmt.Fprintln(r.out(), "Error clearing terminal:", err)
	}
}

func (r *TerminalRenderer) out() io.Writer {
	if r.Out == nil {
		return os.Stdout
	}
	return r.Out
}
