package acceptor

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/mbasic-dev/compat-acceptor/registry"
	"github.com/mbasic-dev/compat-acceptor/types"
)

// ReportOptions controls what the results table prints beyond verdicts.
type ReportOptions struct {
	Verbose    bool // print diffs for failing scenarios
	ShowOutput bool // print normalized output for passing scenarios
}

// PrintResults renders the run results table followed by the aggregate
// tally and, depending on options, diffs and transcripts.
func (a *Acceptor) PrintResults(w io.Writer, result *types.RunResult, opts ReportOptions) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("Compatibility Results (%s)", formatDuration(result.Duration)))

	t.AppendHeader(table.Row{
		"Type", "ID", "Duration", "Scenarios", "Passed", "Failed", "Skipped", "Status",
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "ID", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Scenarios", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Skipped", Align: text.AlignRight},
	})

	for _, sub := range result.Subjects {
		t.AppendRow(table.Row{
			"Subject",
			sub.ID,
			formatDuration(sub.Duration),
			sub.Stats.Total,
			sub.Stats.Passed,
			sub.Stats.Failures(),
			sub.Stats.Skipped,
			verdictString(sub.Verdict()),
		})

		for i, sc := range sub.Scenarios {
			prefix := "├──"
			if i == len(sub.Scenarios)-1 {
				prefix = "└──"
			}
			t.AppendRow(table.Row{
				"Scenario",
				fmt.Sprintf("%s %s", prefix, sc.Scenario),
				formatDuration(sc.Duration),
				"1",
				boolToInt(sc.Verdict == types.VerdictPass),
				boolToInt(sc.Verdict.IsFailure()),
				boolToInt(sc.Verdict == types.VerdictSkip),
				verdictString(sc.Verdict),
			})
		}
		t.AppendSeparator()
	}

	switch result.Status() {
	case types.VerdictPass:
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	case types.VerdictSkip:
		t.SetStyle(table.StyleColoredBlackOnYellowWhite)
	default:
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	}

	t.AppendFooter(table.Row{
		"TOTAL",
		"",
		formatDuration(result.Duration),
		result.Stats.Total,
		result.Stats.Passed,
		result.Stats.Failures(),
		result.Stats.Skipped,
		verdictString(result.Status()),
	})
	t.Render()

	fmt.Fprintln(w, result.String())

	for _, sub := range result.Subjects {
		for _, sc := range sub.Scenarios {
			if opts.Verbose && sc.Diff != "" {
				fmt.Fprintf(w, "\n--- %s/%s ---\n%s\n", sub.ID, sc.Scenario, sc.Diff)
			}
			if opts.Verbose && sc.Err != nil {
				fmt.Fprintf(w, "\n--- %s/%s ---\nerror: %v\n", sub.ID, sc.Scenario, sc.Err)
			}
			if opts.ShowOutput && sc.Verdict == types.VerdictPass {
				fmt.Fprintf(w, "\n--- %s/%s output ---\n%s\n", sub.ID, sc.Scenario, sc.Normalized)
			}
		}
	}
}

// PrintList renders the registry as a table, optionally filtered by
// status.
func (a *Acceptor) PrintList(w io.Writer, statusFilter registry.Status) {
	entries := a.registry.Entries()
	stats := a.registry.Statistics()

	fmt.Fprintf(w, "Total: %d | Tested: %d | Pending: %d | Failed: %d\n",
		stats.Total, stats.Tested, stats.Pending, stats.Failed)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Subject", "Status", "Scenarios", "File", "Description"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Scenarios", Align: text.AlignRight},
		{Name: "Description", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
	})

	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		entry := entries[id]
		if statusFilter != "" && entry.Status != statusFilter {
			continue
		}
		t.AppendRow(table.Row{
			id,
			statusSymbol(entry.Status),
			entry.ScenariosCount,
			entry.File,
			entry.Description,
		})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

// PrintStatus renders the aggregate summary plus the failed and pending
// subject lists.
func (a *Acceptor) PrintStatus(w io.Writer) {
	stats := a.registry.Statistics()
	entries := a.registry.Entries()

	fmt.Fprintln(w, "TEST STATUS SUMMARY")
	fmt.Fprintf(w, "Total subjects: %d\n", stats.Total)
	fmt.Fprintf(w, "Tested:         %d\n", stats.Tested)
	fmt.Fprintf(w, "Pending:        %d\n", stats.Pending)
	fmt.Fprintf(w, "Failed:         %d\n", stats.Failed)
	if updated := a.registry.LastUpdated(); updated != "" {
		fmt.Fprintf(w, "Last updated:   %s\n", updated)
	}

	var failed, pending []string
	for id, entry := range entries {
		switch entry.Status {
		case registry.StatusFailed:
			failed = append(failed, id)
		case registry.StatusPending:
			pending = append(pending, id)
		}
	}
	sort.Strings(failed)
	sort.Strings(pending)

	if len(failed) > 0 {
		fmt.Fprintln(w, "\nFAILED SUBJECTS:")
		for _, id := range failed {
			fmt.Fprintf(w, "  - %s\n", id)
		}
	}
	if len(pending) > 0 {
		fmt.Fprintf(w, "\nPENDING SUBJECTS (%d):\n", len(pending))
		for _, id := range pending {
			fmt.Fprintf(w, "  - %s\n", id)
		}
	}
}

func statusSymbol(status registry.Status) string {
	switch status {
	case registry.StatusTested:
		return "[OK]"
	case registry.StatusFailed:
		return "[!!]"
	case registry.StatusPending:
		return "[  ]"
	}
	return "[??]"
}

func verdictString(v types.Verdict) string {
	switch v {
	case types.VerdictPass:
		return "✓ pass"
	case types.VerdictSkip:
		return "- skip"
	case types.VerdictTimeout:
		return "✗ timeout"
	case types.VerdictError:
		return "✗ error"
	default:
		return "✗ fail"
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// formatDuration formats a duration to seconds with 1 decimal place.
func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
