package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Terminal access, swapped in tests.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// readLine returns the next line without its line ending. A final line
// without a newline still counts; an empty stream is io.EOF.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Ask prints "label: " and returns the trimmed answer.
func Ask(r *bufio.Reader, w io.Writer, label string) (string, error) {
	if _, err := fmt.Fprintf(w, "%s: ", label); err != nil {
		return "", err
	}
	line, err := readLine(r)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// AskPassword reads without echo on a terminal. Piped input is read as a
// plain line and kept verbatim, spaces included.
func AskPassword(r *bufio.Reader, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return "", err
	}
	defer fmt.Fprintln(w)

	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		return readLine(r)
	}
	pw, err := readPassword(fd)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}
