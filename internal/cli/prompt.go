package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
)

// ErrPasswordMismatch is returned when a confirmation password differs.
var ErrPasswordMismatch = errors.New("passwords do not match")

// readLine reads up to the next newline without buffering past it, so
// consecutive prompts can share one reader.
func readLine(r io.Reader) (string, error) {
	var b strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				break
			}
			b.WriteByte(buf[0])
		}
		if err == io.EOF {
			if b.Len() == 0 {
				return "", io.ErrUnexpectedEOF
			}
			break
		}
		if err != nil {
			return "", err
		}
	}
	return strings.TrimRight(b.String(), "\r"), nil
}

// ReadPassword asks for a password. A masked huh input is shown on a
// terminal; otherwise one line is read from Stdin.
func ReadPassword(d *Deps, title string) (string, error) {
	if d.Interactive() {
		var password string
		err := huh.NewInput().
			Title(title).
			EchoMode(huh.EchoModePassword).
			Value(&password).
			Run()
		return password, err
	}
	return readLine(d.Stdin)
}

// ReadNewPassword asks for a password twice and checks both match.
func ReadNewPassword(d *Deps) (string, error) {
	password, err := ReadPassword(d, "Password")
	if err != nil {
		return "", err
	}
	confirm, err := ReadPassword(d, "Confirm password")
	if err != nil {
		return "", err
	}
	if password != confirm {
		return "", ErrPasswordMismatch
	}
	return password, nil
}

// Confirm asks a yes/no question and returns true only for an explicit yes.
func Confirm(d *Deps, question string) bool {
	if d.Interactive() {
		var ok bool
		err := huh.NewConfirm().
			Title(question).
			Affirmative("Yes").
			Negative("No").
			Value(&ok).
			Run()
		return err == nil && ok
	}

	_, _ = fmt.Fprintf(d.Stdout, "%s [y/N]: ", question)
	response, err := readLine(d.Stdin)
	if err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
