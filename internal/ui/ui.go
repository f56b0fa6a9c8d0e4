// Package ui decides whether argos should emit human-facing progress
// output. Run files and logs are never affected; only the courtesy
// summaries printed to stdout are gated on an interactive terminal.
package ui

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// IsTTY checks if output is a terminal.
func IsTTY(w io.Writer) bool {
	if w == nil {
		return false
	}

	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	return false
}

// DetectCI checks if running in a CI environment.
func DetectCI() bool {
	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "TRAVIS"}
	for _, v := range ciVars {
		if _, exists := os.LookupEnv(v); exists {
			return true
		}
	}
	return false
}

// Interactive reports whether w is a terminal outside CI, the condition
// for printing progress summaries.
func Interactive(w io.Writer) bool {
	return IsTTY(w) && !DetectCI()
}
