package runner

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Command is one user action in the stepper.
type Command int

const (
	CommandNone Command = iota
	CommandForward
	CommandBackward
	CommandReset
	CommandTogglePlay
	CommandQuit
)

func (c Command) String() string {
	switch c {
	case CommandForward:
		return "forward"
	case CommandBackward:
		return "backward"
	case CommandReset:
		return "reset"
	case CommandTogglePlay:
		return "toggle-play"
	case CommandQuit:
		return "quit"
	}
	return "none"
}

// CommandSource defines where the stepper reads user actions from.
// Next blocks until a command is available and returns io.EOF when the
// source is exhausted.
type CommandSource interface {
	Next(ctx context.Context) (Command, error)
}

// ParseCommand maps one line of input to a command.
// An empty line steps forward; a line of blanks toggles autoplay.
func ParseCommand(line string) Command {
	line = strings.TrimRight(line, "\r\n")
	if line != "" && strings.TrimSpace(line) == "" {
		return CommandTogglePlay
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "n", "next", "f", "forward":
		return CommandForward
	case "p", "prev", "b", "back", "backward":
		return CommandBackward
	case "r", "reset":
		return CommandReset
	case "play", "pause", "space":
		return CommandTogglePlay
	case "q", "quit", "exit":
		return CommandQuit
	}
	return CommandNone
}

// LineSource reads one command per line.
type LineSource struct {
	reader *bufio.Reader
}

// NewLineSource creates a line based source. A nil reader means os.Stdin.
func NewLineSource(r io.Reader) *LineSource {
	if r == nil {
		r = os.Stdin
	}
	return &LineSource{reader: bufio.NewReader(r)}
}

func (s *LineSource) Next(ctx context.Context) (Command, error) {
	for {
		if err := ctx.Err(); err != nil {
			return CommandNone, err
		}
		line, err := s.reader.ReadString('\n')
		if err != nil && (line == "" || err != io.EOF) {
			return CommandNone, err
		}
		if cmd := ParseCommand(line); cmd != CommandNone {
			return cmd, nil
		}
		if err != nil {
			return CommandNone, err
		}
	}
}

// KeySource decodes single key presses, including ANSI arrow sequences.
// It expects the terminal to be in raw mode (see EnableRawMode).
type KeySource struct {
	reader *bufio.Reader
}

// NewKeySource creates a key based source. A nil reader means os.Stdin.
func NewKeySource(r io.Reader) *KeySource {
	if r == nil {
		r = os.Stdin
	}
	return &KeySource{reader: bufio.NewReader(r)}
}

const (
	keyCtrlC  = 0x03
	keyCtrlD  = 0x04
	keyEscape = 0x1b
)

func (s *KeySource) Next(ctx context.Context) (Command, error) {
	for {
		if err := ctx.Err(); err != nil {
			return CommandNone, err
		}
		b, err := s.reader.ReadByte()
		if err != nil {
			return CommandNone, err
		}

		var cmd Command
		switch b {
		case 'n', 'l', 'f', '\r', '\n':
			cmd = CommandForward
		case 'p', 'h', 'b':
			cmd = CommandBackward
		case 'r':
			cmd = CommandReset
		case ' ':
			cmd = CommandTogglePlay
		case 'q', keyCtrlC, keyCtrlD:
			cmd = CommandQuit
		case keyEscape:
			cmd = s.escape()
		}
		if cmd != CommandNone {
			return cmd, nil
		}
	}
}

// escape decodes the rest of a CSI arrow sequence: ESC [ C or ESC [ D.
func (s *KeySource) escape() Command {
	if next, err := s.reader.ReadByte(); err != nil || next != '[' {
		return CommandNone
	}
	code, err := s.reader.ReadByte()
	if err != nil {
		return CommandNone
	}
	switch code {
	case 'C':
		return CommandForward
	case 'D':
		return CommandBackward
	}
	return CommandNone
}

// EnableRawMode puts f into raw mode when it is a terminal.
// The returned function restores the previous mode and is safe to call on
// non-terminals.
func EnableRawMode(f *os.File) (restore func(), err error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return func() {}, nil
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return func() { _ = term.Restore(fd, state) }, nil
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
