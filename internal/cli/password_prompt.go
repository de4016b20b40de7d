package cli

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
)

// readSecretLine reads one line from stdin with terminal echo turned off.
// When stdin is not a terminal the line is read as is, so a password can be
// piped in.
func readSecretLine(stdin *os.File) (string, error) {
	if stdin == nil {
		return "", errors.New("stdin unavailable")
	}

	restore, err := disableEcho(stdin)
	if err == nil {
		defer restore()
	}

	reader := bufio.NewReader(stdin)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
