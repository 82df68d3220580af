// Package ui provides terminal UI components using pterm.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/getthecodeoutofit/KumaoniTrans/internal/chat"
	"github.com/getthecodeoutofit/KumaoniTrans/internal/engine"
	"github.com/getthecodeoutofit/KumaoniTrans/internal/kb"
	"github.com/getthecodeoutofit/KumaoniTrans/internal/learn"
)

// Theme colors for consistent styling
var (
	ColorPrimary   = pterm.FgCyan
	ColorSecondary = pterm.FgLightBlue
	ColorSuccess   = pterm.FgGreen
	ColorWarning   = pterm.FgYellow
	ColorError     = pterm.FgRed
	ColorMuted     = pterm.FgGray
)

// UI wraps pterm components for the translator.
type UI struct {
	quiet   bool
	verbose bool
}

// New creates a new UI instance.
func New(quiet, verbose bool) *UI {
	if quiet {
		pterm.DisableOutput()
	}
	return &UI{quiet: quiet, verbose: verbose}
}

// Banner prints the application banner.
func (u *UI) Banner() {
	pterm.DefaultBigText.WithLetters(
		pterm.NewLettersFromStringWithStyle("kumaoni", pterm.NewStyle(pterm.FgCyan)),
		pterm.NewLettersFromStringWithStyle("trans", pterm.NewStyle(pterm.FgLightBlue)),
	).Render()

	pterm.DefaultCenter.Println(
		pterm.FgGray.Sprint("Hinglish-Kumaoni Rule-Based Translator"),
	)
	fmt.Println()
}

// Config prints the configuration summary.
func (u *UI) Config(dataDir string, direction kb.Direction, threshold float64) {
	pterm.DefaultSection.Println("Configuration")

	data := [][]string{
		{"Data", dataDir},
		{"Direction", string(direction)},
		{"Idiom Threshold", fmt.Sprintf("%.2f", threshold)},
	}

	pterm.DefaultTable.WithData(data).Render()
	fmt.Println()
}

// Spinner creates a spinner for long operations.
func (u *UI) Spinner(message string) *pterm.SpinnerPrinter {
	spinner, _ := pterm.DefaultSpinner.
		WithRemoveWhenDone(true).
		Start(message)
	return spinner
}

// Translation prints a translation result panel with provenance.
func (u *UI) Translation(input string, res *engine.Result) {
	panel := pterm.DefaultBox.WithTitle(string(res.Direction)).Sprint(
		fmt.Sprintf(
			"  Input:   %s\n"+
				"  Output:  %s\n"+
				"  Unknown: %s",
			pterm.FgGray.Sprint(input),
			pterm.FgGreen.Sprint(res.Output),
			pterm.FgYellow.Sprintf("%d", res.UnknownCount),
		),
	)
	fmt.Println(panel)

	if u.verbose {
		u.Spans(res.Spans)
	}
	u.Suggestions(res.Suggestions)
}

// Spans prints the provenance table for a translation.
func (u *UI) Spans(spans []engine.SpanResult) {
	if len(spans) == 0 {
		return
	}

	data := pterm.TableData{{"Span", "Stage", "Source", "Target"}}
	for _, s := range spans {
		stage := string(s.Kind)
		if s.Rule != "" {
			stage += " (" + s.Rule + ")"
		}
		data = append(data, []string{
			fmt.Sprintf("%d..%d", s.Start, s.End),
			stage,
			s.Source,
			s.Target,
		})
	}

	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	fmt.Println()
}

// Suggestions prints nearby known terms for unknown tokens.
func (u *UI) Suggestions(suggestions map[string][]string) {
	for token, terms := range suggestions {
		pterm.Info.Println(fmt.Sprintf("%s: did you mean %s?",
			pterm.FgYellow.Sprint(token),
			pterm.FgCyan.Sprint(strings.Join(terms, ", ")),
		))
	}
}

// Reply prints a chat reply with its counter-translation.
func (u *UI) Reply(reply *chat.Reply) {
	panel := pterm.DefaultBox.
		WithTitle(fmt.Sprintf("%s · %s", reply.Intent, reply.Language)).
		Sprint(fmt.Sprintf(
			"  %s\n  %s",
			pterm.FgGreen.Sprint(reply.Text),
			pterm.FgGray.Sprint(reply.Translation),
		))
	fmt.Println(panel)
}

// KBStats prints knowledge-base statistics in a table.
func (u *UI) KBStats(stats kb.Stats) {
	pterm.DefaultSection.WithLevel(2).Println("Knowledge Base")

	data := [][]string{
		{"Vocabulary", fmt.Sprintf("%d", stats.VocabCount)},
		{"Phrases", fmt.Sprintf("%d", stats.PhraseCount)},
		{"Grammar Rules", fmt.Sprintf("%d", stats.RuleCount)},
		{"Idioms", fmt.Sprintf("%d", stats.IdiomCount)},
	}
	if !stats.LastModified.IsZero() {
		data = append(data, []string{"Last Modified", stats.LastModified.Format(time.RFC3339)})
	}

	pterm.DefaultTable.WithData(data).Render()
	fmt.Println()
}

// ImportReport prints the outcome of a bulk import.
func (u *UI) ImportReport(report *learn.ImportReport) {
	pterm.Success.Println(fmt.Sprintf("Applied %d entries", report.Applied))
	for _, s := range report.Skipped {
		pterm.Warning.Println(fmt.Sprintf("skipped %s/%s: %s", s.Section, s.Key, s.Reason))
	}
}

// SearchHits prints search results in a table.
func (u *UI) SearchHits(hits []learn.Hit) {
	if len(hits) == 0 {
		pterm.Info.Println("No matches")
		return
	}

	data := pterm.TableData{{"Kind", "Key", "Value"}}
	for _, h := range hits {
		data = append(data, []string{string(h.Kind), h.Key, h.Value})
	}

	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	fmt.Println()
}

// Success prints a success message.
func (u *UI) Success(message string) {
	pterm.Success.Println(message)
}

// Error prints an error message.
func (u *UI) Error(message string) {
	pterm.Error.Println(message)
}

// Warning prints a warning message.
func (u *UI) Warning(message string) {
	pterm.Warning.Println(message)
}

// Info prints an info message.
func (u *UI) Info(message string) {
	pterm.Info.Println(message)
}

// Debug prints a debug message (only in verbose mode).
func (u *UI) Debug(message string) {
	if u.verbose {
		pterm.Debug.Println(message)
	}
}

// Separator prints a visual separator.
func (u *UI) Separator() {
	pterm.DefaultBasicText.Println(pterm.FgGray.Sprint("─────────────────────────────────────────────────────────────"))
}

// Done prints the completion message.
func (u *UI) Done() {
	fmt.Println()
	pterm.DefaultCenter.Println(
		pterm.FgGreen.Sprint("✓ Done!"),
	)
}
