package main

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/sharpfind/sf/internal/ui"
	"github.com/spf13/cobra"
)

var (
	// Unindented "Flags:", "Index:", "Examples:" lines. "Usage:" stays plain.
	reHelpSection = regexp.MustCompile(`(?m)^([A-Z][A-Za-z ]*:)[ \t]*$`)

	// Subcommand rows in the "Available Commands" style listings.
	reHelpCommand = regexp.MustCompile(`(?m)^  ([a-z][\w-]*)(\s{2,})`)

	// Flag value types and cobra's default annotations.
	reHelpFlagType = regexp.MustCompile(`(--[\w-]+ )(stringArray|string|int|duration)\b`)
	reHelpDefault  = regexp.MustCompile(`\(default [^)]*\)`)

	// Example invocations start with the binary name.
	reHelpExample = regexp.MustCompile(`(?m)^(  )(sf .*)$`)
)

// colorizedHelpFunc renders cobra's usage text, adding ANSI colors when
// stdout is a color-capable terminal.
func colorizedHelpFunc() func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if cmd.Long != "" {
			fmt.Fprintln(out, strings.TrimSpace(cmd.Long))
			fmt.Fprintln(out)
		}

		var buf bytes.Buffer
		cmd.SetOut(&buf)
		_ = cmd.Usage()
		cmd.SetOut(out)

		text := buf.String()
		if ui.ShouldUseColor(os.Stdout) {
			text = colorizeHelp(text)
		}
		fmt.Fprint(out, text)
	}
}

func colorizeHelp(s string) string {
	s = reHelpSection.ReplaceAllStringFunc(s, func(m string) string {
		if strings.HasPrefix(m, "Usage:") {
			return m
		}
		return ui.RenderAccent(strings.TrimSpace(m))
	})
	s = reHelpCommand.ReplaceAllString(s, "  "+ui.RenderCommand("$1")+"$2")
	s = reHelpFlagType.ReplaceAllString(s, "$1"+ui.RenderMuted("$2"))
	s = reHelpDefault.ReplaceAllStringFunc(s, ui.RenderMuted)
	s = reHelpExample.ReplaceAllString(s, "$1"+ui.RenderCommand("$2"))
	return s
}
