package mdriver

import (
	"os"
	"strconv"
	"strings"
)

const (
	ansiReset = "\x1b[0m"
	osc8Start = "\x1b]8;;"
	osc8ST    = "\x1b\\"
	osc8End   = osc8Start + osc8ST
)

// DetectOSC8Support reports whether the terminal described by the
// environment likely renders OSC 8 hyperlinks. OSC8=0 forces it off and
// OSC8=1 forces it on.
func DetectOSC8Support() bool {
	switch os.Getenv("OSC8") {
	case "0":
		return false
	case "1":
		return true
	}
	if os.Getenv("DOMTERM") != "" {
		return true
	}
	if os.Getenv("WT_SESSION") != "" {
		return true
	}
	termProgram := os.Getenv("TERM_PROGRAM")
	switch termProgram {
	case "iTerm.app", "WezTerm", "vscode", "ghostty", "Hyper":
		return true
	}
	term := strings.ToLower(os.Getenv("TERM"))
	if strings.Contains(term, "kitty") || strings.Contains(term, "ghostty") {
		return true
	}
	if vte := os.Getenv("VTE_VERSION"); vte != "" {
		if n, err := strconv.Atoi(vte); err == nil && n >= 5000 {
			return true
		}
	}
	return false
}
