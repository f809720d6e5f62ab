package runner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ts1257/acme-blogs/pkg/domain"
)

// MaxLineLength bounds a command line in bytes.
const MaxLineLength = 256

var (
	ErrLineTooLong    = errors.New("command line too long")
	ErrMalformedLine  = errors.New("command line is not valid UTF-8")
	ErrUnknownCommand = errors.New("unknown command")
)

// Verb names a runner command.
type Verb string

const (
	VerbUsers  Verb = "users"
	VerbSelect Verb = "select"
	VerbToggle Verb = "toggle"
	VerbShow   Verb = "show"
	VerbHelp   Verb = "help"
	VerbQuit   Verb = "quit"
)

var aliases = map[string]Verb{
	"exit": VerbQuit,
	"?":    VerbHelp,
}

// Command is a parsed command line.
type Command struct {
	Verb Verb

	// Value is what select hands to the board: a user id, or "" for the placeholder.
	Value string

	// PostID is the toggle target.
	PostID int
}

// ParseCommand validates line against the runner grammar:
//
//	users | select [<user id>] | toggle <post id> | show | help | quit
//
// Terminal escapes and other control characters are dropped first. Ids must be
// positive integers; anything else is reported as domain.ErrInvalidID. A blank
// line yields the zero Command.
func ParseCommand(line string) (Command, error) {
	if len(line) > MaxLineLength {
		return Command{}, fmt.Errorf("%w: %d bytes, limit %d", ErrLineTooLong, len(line), MaxLineLength)
	}
	if !utf8.ValidString(line) {
		return Command{}, ErrMalformedLine
	}
	line = strings.Map(func(r rune) rune {
		if r == '\t' {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, line)

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, nil
	}
	name, args := strings.ToLower(fields[0]), fields[1:]
	verb, ok := aliases[name]
	if !ok {
		verb = Verb(name)
	}

	switch verb {
	case VerbUsers, VerbShow, VerbHelp, VerbQuit:
		if len(args) > 0 {
			return Command{}, fmt.Errorf("%s takes no argument", verb)
		}
		return Command{Verb: verb}, nil
	case VerbSelect:
		switch len(args) {
		case 0:
			return Command{Verb: verb}, nil
		case 1:
			id, err := parseID(verb, args[0])
			if err != nil {
				return Command{}, err
			}
			return Command{Verb: verb, Value: strconv.Itoa(id)}, nil
		}
	case VerbToggle:
		if len(args) == 1 {
			id, err := parseID(verb, args[0])
			if err != nil {
				return Command{}, err
			}
			return Command{Verb: verb, PostID: id}, nil
		}
		if len(args) == 0 {
			return Command{}, fmt.Errorf("toggle needs a post id: %w", domain.ErrInvalidID)
		}
	default:
		return Command{}, fmt.Errorf("%w %q (%s)", ErrUnknownCommand, fields[0], helpText)
	}
	return Command{}, fmt.Errorf("%s takes one id, got %d arguments", verb, len(args))
}

func parseID(verb Verb, s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s %q: %w", verb, s, domain.ErrInvalidID)
	}
	return id, nil
}
