package cli

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/xolan/locktime/internal/service"
)

// Deps contains all dependencies for CLI operations
type Deps struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
	Exit   func(code int)

	// OpenServices builds the service container used by one command.
	OpenServices func() (*service.Services, error)
	// IsInteractive reports whether prompts can take over the terminal.
	IsInteractive func() bool
	// Now is the clock used for relative times in output.
	Now func() time.Time
}

// DefaultDeps creates a new Deps with default values
func DefaultDeps() *Deps {
	return &Deps{
		Stdout:        os.Stdout,
		Stderr:        os.Stderr,
		Stdin:         os.Stdin,
		Exit:          os.Exit,
		OpenServices:  service.NewServices,
		IsInteractive: StdinIsTerminal,
		Now:           time.Now,
	}
}

// NewDeps creates a Deps that always returns the given services
func NewDeps(services *service.Services) *Deps {
	d := DefaultDeps()
	d.OpenServices = func() (*service.Services, error) { return services, nil }
	return d
}

// StdinIsTerminal reports whether standard input is a terminal.
func StdinIsTerminal() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// Interactive reports whether prompts may be shown.
func (d *Deps) Interactive() bool {
	return d.IsInteractive != nil && d.IsInteractive()
}

// Clock returns the current time from Now, or time.Now when unset.
func (d *Deps) Clock() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}
