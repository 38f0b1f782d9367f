package model

import (
	"fmt"

	"github.com/pkg/errors"
)

// Command is an action requested by the player
type Command int

const (
	TogglePause Command = iota
	Advance
	ToggleTransient
	Randomize
	FillBoard
	ClearBoard
	LoadBlock
	LoadGlider
	Print
	ToggleMutation
)

var commandNames = map[Command]string{
	TogglePause:     "toggle pause",
	Advance:         "advance",
	ToggleTransient: "toggle transient",
	Randomize:       "randomize",
	FillBoard:       "fill",
	ClearBoard:      "clear",
	LoadBlock:       "block",
	LoadGlider:      "glider",
	Print:           "print",
	ToggleMutation:  "toggle mutation",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("command(%d)", int(c))
}

// KeyBindings maps keyboard keys to commands
var KeyBindings = map[rune]Command{
	'p': TogglePause,
	' ': Advance,
	's': ToggleTransient,
	'd': Print,
	'm': ToggleMutation,
	'r': Randomize,
	'f': FillBoard,
	'g': LoadGlider,
	'b': LoadBlock,
	'c': ClearBoard,
}

// Help lists the key bindings in the order they are shown to the player
const Help = `P    : Pause/Resume simulation
Space: Pause and step through one iteration
S    : Show growing/dieing cells
D    : Display current board in terminal
M    : Enable random mutations
R    : Randomize board
F    : Fill board
G    : Fill with single glider
B    : Fill with single block
C    : Clear the board`

// CommandForKey looks up the command bound to key, ignoring case
func CommandForKey(key rune) (Command, bool) {
	if key >= 'A' && key <= 'Z' {
		key += 'a' - 'A'
	}
	cmd, ok := KeyBindings[key]
	return cmd, ok
}

// Session drives a board from player commands and the update clock
type Session struct {
	Board         *Board
	Renderer      *TerminalRenderer
	Running       bool
	ShowTransient bool
}

// NewSession wraps b; renderer receives Print output and status messages
func NewSession(b *Board, renderer *TerminalRenderer, running bool) *Session {
	if renderer == nil {
		renderer = NewTerminalRenderer()
	}
	return &Session{Board: b, Renderer: renderer, Running: running}
}

// Apply executes a single player command
func (s *Session) Apply(cmd Command) error {
	switch cmd {
	case TogglePause:
		s.Running = !s.Running
		fmt.Fprintf(s.Renderer.out(), "running: %v\n", s.Running)
	case Advance:
		s.Running = false
		return s.advance()
	case ToggleTransient:
		s.ShowTransient = !s.ShowTransient
	case Randomize:
		s.Board.Random()
	case FillBoard:
		s.Board.Fill()
	case ClearBoard:
		s.Board.Clear()
	case LoadBlock:
		if _, err := s.Board.Block(); err != nil {
			return errors.Wrap(err, "[Apply]")
		}
	case LoadGlider:
		if _, err := s.Board.Glider(); err != nil {
			return errors.Wrap(err, "[Apply]")
		}
	case Print:
		s.Renderer.Display(s.Board)
	case ToggleMutation:
		fmt.Fprintf(s.Renderer.out(), "random_mutation: %v\n", s.Board.ToggleRandomMutation())
	default:
		return errors.Errorf("[Apply] unknown command %v", cmd)
	}
	return nil
}

// Tick advances the board if the session is running
func (s *Session) Tick() error {
	if !s.Running {
		return nil
	}
	return s.advance()
}

// advance performs one update. With transient states shown it alternates
// between Step and Grow, otherwise it completes a whole generation.
func (s *Session) advance() error {
	if s.Board.Pending() {
		s.Board.Grow()
		return nil
	}
	if s.ShowTransient {
		return s.Board.Step()
	}
	return s.Board.StepAndGrow()
}
