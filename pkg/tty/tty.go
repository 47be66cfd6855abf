/*
Package tty queries the controlling terminal for its size and color support
*/
package tty

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/blacktop/go-asciimg"
	"golang.org/x/term"
)

// QueryTimeout is the default timeout for CSI queries
const QueryTimeout = 100 * time.Millisecond

// size sources, replaced in tests
var (
	windowSizeFunc = windowSize
	querySizeFunc  = querySize
)

// Size returns the usable terminal size in character cells.
//
// The size comes from the first source that answers: the window size of
// stdout, stderr or stdin, a CSI 18t query on /dev/tty, then the COLUMNS and
// LINES environment variables. One row is held back for the newline that
// follows the image.
func Size() (cols, rows int, err error) {
	cols, rows, ok := windowSizeFunc()
	if !ok {
		cols, rows, ok = querySizeFunc()
	}
	if !ok {
		cols, rows, ok = envSize()
	}
	if !ok || cols <= 0 || rows <= 1 {
		return 0, 0, asciimg.Errorf(asciimg.KindEnvironment, "terminal size",
			"invalid terminal size: %dx%d", cols, rows)
	}
	return cols, rows - 1, nil
}

func windowSize() (cols, rows int, ok bool) {
	for _, f := range []*os.File{os.Stdout, os.Stderr, os.Stdin} {
		fd := int(f.Fd())
		if !term.IsTerminal(fd) {
			continue
		}
		if w, h, err := term.GetSize(fd); err == nil && w > 0 && h > 0 {
			return w, h, true
		}
	}
	return 0, 0, false
}

func querySize() (cols, rows int, ok bool) {
	if !QuerySupported() {
		return 0, 0, false
	}
	return QueryWindowSizeChars()
}

func envSize() (cols, rows int, ok bool) {
	cols, err1 := strconv.Atoi(os.Getenv("COLUMNS"))
	rows, err2 := strconv.Atoi(os.Getenv("LINES"))
	if err1 != nil || err2 != nil || cols <= 0 || rows <= 0 {
		return 0, 0, false
	}
	return cols, rows, true
}

// QueryWindowSizeChars queries text area size in characters using CSI 18t
// returns: columns and rows, or 0,0,false if query fails
func QueryWindowSizeChars() (cols, rows int, ok bool) {
	query := wrapTmuxPassthrough("\x1b[18t")

	// Open controlling terminal
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return 0, 0, false
	}
	defer tty.Close()

	oldState, err := term.MakeRaw(int(tty.Fd()))
	if err != nil {
		return 0, 0, false
	}
	defer term.Restore(int(tty.Fd()), oldState)

	if _, err := tty.WriteString(query); err != nil {
		return 0, 0, false
	}

	responseChan := make(chan [3]int, 1)
	go func() {
		buf := make([]byte, 64)
		n, err := tty.Read(buf)
		if err == nil && n > 0 {
			if c, r, ok := parseWindowSizeChars(string(buf[:n])); ok {
				responseChan <- [3]int{c, r, 1}
				return
			}
		}
		responseChan <- [3]int{0, 0, 0}
	}()

	select {
	case result := <-responseChan:
		return result[0], result[1], result[2] == 1
	case <-time.After(QueryTimeout):
		return 0, 0, false
	}
}

// parseWindowSizeChars parses a CSI 8 ; rows ; cols t response
func parseWindowSizeChars(response string) (cols, rows int, ok bool) {
	start := strings.Index(response, "[8;")
	if start < 0 {
		return 0, 0, false
	}
	body := response[start+3:]
	end := strings.IndexByte(body, 't')
	if end < 0 {
		return 0, 0, false
	}
	parts := strings.Split(body[:end], ";")
	if len(parts) < 2 {
		return 0, 0, false
	}
	if _, err := fmt.Sscanf(parts[0], "%d", &rows); err != nil {
		return 0, 0, false
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &cols); err != nil {
		return 0, 0, false
	}
	if cols <= 0 || rows <= 0 {
		return 0, 0, false
	}
	return cols, rows, true
}

// QuerySupported checks if a terminal likely supports CSI queries
// This is a heuristic based on terminal type and environment
func QuerySupported() bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false
	}
	// Some terminals are known to not support or have disabled CSI queries
	switch os.Getenv("TERM_PROGRAM") {
	case "Apple_Terminal", "vscode":
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// TrueColorSupported reports whether the environment advertises 24-bit color
func TrueColorSupported() bool {
	termName := strings.ToLower(os.Getenv("TERM"))
	switch {
	case os.Getenv("COLORTERM") == "truecolor", os.Getenv("COLORTERM") == "24bit":
		return true
	case strings.Contains(termName, "truecolor"), strings.Contains(termName, "24bit"):
		return true
	case strings.Contains(termName, "kitty"), strings.Contains(termName, "direct"):
		return true
	}
	switch os.Getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm", "ghostty", "vscode", "rio":
		return true
	}
	return false
}

// inTmux checks if running inside tmux
func inTmux() bool {
	return os.Getenv("TMUX") != "" || os.Getenv("TERM_PROGRAM") == "tmux"
}

// wrapTmuxPassthrough wraps an escape sequence for tmux passthrough if needed
func wrapTmuxPassthrough(output string) string {
	if inTmux() {
		if !strings.HasPrefix(output, "\x1b") {
			return output
		}
		// tmux passthrough format: \ePtmux;\e{escaped_sequence}\e\\
		// All \e (ESC) characters in the sequence must be doubled
		return "\x1bPtmux;\x1b" + strings.ReplaceAll(output, "\x1b", "\x1b\x1b") + "\x1b\\"
	}
	return output
}
