// Package prompt collects interactive input. On a terminal it uses promptui;
// otherwise it reads plain lines so input can be piped in.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"
)

// ErrAborted is returned when the user aborts a prompt (Ctrl+C or EOF).
var ErrAborted = errors.New("aborted")

// Prompt reads answers from a terminal or a line-oriented stream.
type Prompt struct {
	out         io.Writer
	reader      *bufio.Reader
	interactive bool
}

// New returns a Prompt bound to the process's stdin and stdout.
func New() *Prompt {
	return NewWithIO(os.Stdin, os.Stdout, term.IsTerminal(int(os.Stdin.Fd())))
}

// NewWithIO returns a Prompt over arbitrary streams. When interactive is
// false, labels are written to out and answers read line by line from in.
func NewWithIO(in io.Reader, out io.Writer, interactive bool) *Prompt {
	return &Prompt{
		out:         out,
		reader:      bufio.NewReader(in),
		interactive: interactive,
	}
}

// Credentials asks for login, address and password in that order.
func (p *Prompt) Credentials() (login, address, password string, err error) {
	if login, err = p.Required("Enter SSH login"); err != nil {
		return "", "", "", err
	}
	if address, err = p.Required("Enter SSH address"); err != nil {
		return "", "", "", err
	}
	if password, err = p.Password("Enter SSH password"); err != nil {
		return "", "", "", err
	}
	return login, address, password, nil
}

// Required asks for a non-empty answer.
func (p *Prompt) Required(label string) (string, error) {
	if !p.interactive {
		return p.line(label)
	}
	pr := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("a value is required")
			}
			return nil
		},
	}
	result, err := pr.Run()
	return strings.TrimSpace(result), wrapError(err)
}

// Password asks for a secret without echoing it on a terminal.
func (p *Prompt) Password(label string) (string, error) {
	if !p.interactive {
		return p.line(label)
	}
	pr := promptui.Prompt{
		Label: label,
		Mask:  '*',
	}
	result, err := pr.Run()
	return result, wrapError(err)
}

// Confirm asks a yes/no question. Only "y" and "yes" count as yes.
func (p *Prompt) Confirm(label string) (bool, error) {
	label += " (yes/no)"
	var answer string
	var err error
	if p.interactive {
		pr := promptui.Prompt{
			Label: label,
			Validate: func(input string) error {
				switch strings.ToLower(strings.TrimSpace(input)) {
				case "y", "yes", "n", "no":
					return nil
				}
				return errors.New("answer yes or no")
			},
		}
		answer, err = pr.Run()
		err = wrapError(err)
	} else {
		answer, err = p.line(label)
	}
	if err != nil {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func (p *Prompt) line(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	s, err := p.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && s != "" {
			return strings.TrimRight(s, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrAborted
		}
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimRight(s, "\r\n"), nil
}

// wrapError maps promptui interrupts to ErrAborted.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
		return ErrAborted
	}
	return err
}
