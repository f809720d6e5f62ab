package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ts1257/acme-blogs/internal/logging"
	"github.com/ts1257/acme-blogs/internal/presentation/tui"
	"github.com/ts1257/acme-blogs/pkg/dom"
	"github.com/ts1257/acme-blogs/pkg/domain"
	"github.com/ts1257/acme-blogs/pkg/ports"
)

// Board is what the runner drives.
type Board interface {
	ports.Board
	Users(ctx context.Context) ([]domain.User, error)
	View(fn func(doc *dom.Document) error) error
}

// ErrQuit is returned by Exec for the quit command.
var ErrQuit = errors.New("quit")

const helpText = "commands: users | select <id> | toggle <post id> | show | help | quit"

// Runner handles the interactive loop over a board using an IOHandler.
type Runner struct {
	// Handler is the strategy for IO. Defaults to a TextHandler on Stdin/Stdout.
	Handler IOHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger
}

// NewRunner creates a new Runner with default Stdin/Stdout.
func NewRunner(handler IOHandler) *Runner {
	if handler == nil {
		handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	return &Runner{
		Handler: handler,
		Logger:  logging.NewNop(),
	}
}

// Run shows the board and executes commands until quit, EOF or ctx is done.
// Command errors are reported to the handler and do not stop the loop.
func (r *Runner) Run(ctx context.Context, board Board) error {
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}

	if err := board.InitPage(ctx); err != nil {
		return fmt.Errorf("init page: %w", err)
	}
	if err := r.show(ctx, board, nil); err != nil {
		return err
	}
	if err := r.Handler.SystemOutput(ctx, helpText); err != nil {
		return err
	}

	for {
		line, err := r.Handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}
		if line == "" {
			continue
		}

		err = r.Exec(ctx, board, line)
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			r.Logger.Debug("command failed", "command", line, "err", err)
			if outErr := r.Handler.SystemOutput(ctx, "Error: "+err.Error()); outErr != nil {
				return outErr
			}
		}
	}
}

// Exec runs a single command line against board. Lines that do not parse are
// rejected before the board is touched.
func (r *Runner) Exec(ctx context.Context, board Board, line string) error {
	cmd, err := ParseCommand(line)
	if err != nil {
		return err
	}

	switch cmd.Verb {
	case "":
		return nil
	case VerbQuit:
		return ErrQuit
	case VerbHelp:
		return r.Handler.SystemOutput(ctx, helpText)
	case VerbShow:
		return r.show(ctx, board, nil)
	case VerbUsers:
		users, err := board.Users(ctx)
		if err != nil {
			return err
		}
		lines := make([]string, 0, len(users))
		for _, u := range users {
			lines = append(lines, fmt.Sprintf("%d  %s (%s)", u.ID, u.Name, u.Company.Name))
		}
		return r.Handler.SystemOutput(ctx, strings.Join(lines, "\n"))
	case VerbSelect:
		res, err := board.Select(ctx, cmd.Value)
		if err != nil {
			return err
		}
		var skipped []domain.SkippedPost
		if res.Refresh != nil {
			skipped = res.Refresh.Skipped
		}
		return r.show(ctx, board, skipped)
	case VerbToggle:
		res, err := board.Click(ctx, cmd.PostID)
		if err != nil {
			return err
		}
		if !res.Found {
			return fmt.Errorf("post %d is not displayed", cmd.PostID)
		}
		return r.show(ctx, board, nil)
	}
	return nil
}

func (r *Runner) show(ctx context.Context, board Board, skipped []domain.SkippedPost) error {
	view := View{Session: board.Snapshot(), Skipped: skipped}
	if err := board.View(func(doc *dom.Document) error {
		view.Markdown = tui.Markdown(doc)
		return nil
	}); err != nil {
		return err
	}
	return r.Handler.Output(ctx, view)
}
