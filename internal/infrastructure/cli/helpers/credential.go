package helpers

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/doeshing/hostwarden/internal/domain"
)

// ErrNoTerminal is returned when a password is needed but stdin is neither
// a terminal nor an explicit --password-stdin source.
var ErrNoTerminal = errors.New("password required: run in a terminal or pass --password-stdin")

// Terminal abstracts the no-echo prompt so commands can be tested.
type Terminal interface {
	IsTerminal() bool
	ReadPassword() ([]byte, error)
}

type stdinTerminal struct{}

func (stdinTerminal) IsTerminal() bool { return term.IsTerminal(int(os.Stdin.Fd())) }

func (stdinTerminal) ReadPassword() ([]byte, error) { return term.ReadPassword(int(os.Stdin.Fd())) }

// StdinTerminal reads from the process's controlling terminal.
var StdinTerminal Terminal = stdinTerminal{}

// ReadCredential obtains the password for one elevated call. It returns nil
// when the platform executor needs none. With fromStdin the first line of in
// is used; otherwise tty prompts without echo on prompt.
func ReadCredential(required, fromStdin bool, in io.Reader, prompt io.Writer, tty Terminal) (*domain.Credential, error) {
	if !required {
		return nil, nil
	}
	if fromStdin {
		secret, err := readLine(in)
		if err != nil {
			return nil, fmt.Errorf("read password from stdin: %w", err)
		}
		return domain.NewCredential(secret), nil
	}
	if tty == nil || !tty.IsTerminal() {
		return nil, ErrNoTerminal
	}
	fmt.Fprint(prompt, "Password: ")
	secret, err := tty.ReadPassword()
	fmt.Fprintln(prompt)
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	return domain.NewCredential(secret), nil
}

// readLine reads up to the first newline one byte at a time so no copy of
// the secret is left in an intermediate buffer. A trailing CR is dropped.
func readLine(in io.Reader) ([]byte, error) {
	var line []byte
	buf := make([]byte, 1)
	for {
		n, err := in.Read(buf)
		if n == 1 {
			if buf[0] == '\n' {
				break
			}
			line = appendZeroing(line, buf[0])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			zero(line)
			return nil, err
		}
	}
	buf[0] = 0
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line[n-1] = 0
		line = line[:n-1]
	}
	return line, nil
}

// appendZeroing appends b, wiping the old backing array when it grows.
func appendZeroing(line []byte, b byte) []byte {
	if len(line) < cap(line) {
		return append(line, b)
	}
	grown := make([]byte, len(line), 2*cap(line)+8)
	copy(grown, line)
	zero(line)
	return append(grown, b)
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
