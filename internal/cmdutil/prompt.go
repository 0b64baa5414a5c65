package cmdutil

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// PromptLine prints a label and reads one line from the reader.
func PromptLine(r io.Reader, w io.Writer, label string) (string, error) {
	_, _ = fmt.Fprintf(w, "%s: ", label)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// PromptSecret reads a value without echoing it when stdin is a terminal.
// Falls back to a plain line read for piped input.
func PromptSecret(w io.Writer, label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return PromptLine(os.Stdin, w, label)
	}

	_, _ = fmt.Fprintf(w, "%s: ", label)
	secret, err := term.ReadPassword(fd)
	_, _ = fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}
	return strings.TrimSpace(string(secret)), nil
}

// Confirm asks a yes/no question and returns true for an affirmative answer.
func Confirm(r io.Reader, w io.Writer, question string) (bool, error) {
	_, _ = fmt.Fprintf(w, "%s [y/N]: ", question)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read input: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
