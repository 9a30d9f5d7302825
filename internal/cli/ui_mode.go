package cli

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

const (
	uiAuto  = "auto"
	uiLive  = "live"
	uiPlain = "plain"
)

// uiDecision says which run observer prints progress.
type uiDecision struct {
	useLive bool
	warning string
}

// isTerminal is swapped in tests.
var isTerminal = writerIsTerminal

// resolveUIMode picks the live table or plain lines for `run --ui`.
// --verbose always selects plain lines.
func resolveUIMode(mode string, verbose bool, stdout io.Writer) (uiDecision, error) {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "" {
		mode = uiAuto
	}
	if mode != uiAuto && mode != uiLive && mode != uiPlain {
		return uiDecision{}, fmt.Errorf("invalid --ui value %q (expected %s, %s or %s)", mode, uiAuto, uiLive, uiPlain)
	}
	if verbose || mode == uiPlain {
		return uiDecision{}, nil
	}
	tty := isTerminal(stdout)
	if mode == uiLive && !tty {
		return uiDecision{warning: "--ui live needs a terminal on stdout; printing plain progress instead"}, nil
	}
	return uiDecision{useLive: tty}, nil
}

func writerIsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}
