// Package reporting renders a completed run into a self-contained HTML
// page stored alongside the other run artifacts. The page links to the
// per-scenario transcript and diff files so an operator can inspect a
// failure without leaving the browser.
package reporting

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mbasic-dev/compat-acceptor/types"
)

// HTMLFilename is the report file name inside the run directory.
const HTMLFilename = "results.html"

// HTMLSink generates the HTML summary for one run.
type HTMLSink struct {
	tmpl *template.Template
}

// NewHTMLSink parses the report template.
func NewHTMLSink() (*HTMLSink, error) {
	tmpl, err := template.New("results").Funcs(templateFuncs()).Parse(resultsTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing report template: %w", err)
	}
	return &HTMLSink{tmpl: tmpl}, nil
}

// templateFuncs returns the functions available to the report template.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDuration": func(d time.Duration) string {
			if d < time.Second {
				return fmt.Sprintf("%dms", d.Milliseconds())
			}
			return d.Truncate(time.Millisecond).String()
		},
		"statusClass": func(v types.Verdict) string {
			if v.IsValid() {
				return string(v)
			}
			return "unknown"
		},
		"statusText": func(v types.Verdict) string {
			return strings.ToUpper(string(v))
		},
		"artifactPath": func(subject, scenario, suffix string) string {
			return filepath.Join(strings.ToLower(subject), scenario+suffix)
		},
	}
}

// Write renders the report for result into dir, which must be the run's
// artifact directory so that the relative artifact links resolve.
func (s *HTMLSink) Write(dir string, result *types.RunResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating report directory %s: %w", dir, err)
	}

	var b strings.Builder
	if err := s.tmpl.Execute(&b, result); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}

	path := filepath.Join(dir, HTMLFilename)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}

const resultsTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Compatibility Results {{.RunID}}</title>
<style>
body { font-family: monospace; margin: 2em; }
h1 { font-size: 1.2em; }
table { border-collapse: collapse; min-width: 40em; }
th, td { border: 1px solid #ccc; padding: 0.3em 0.8em; text-align: left; }
tr.pass td.status { color: #0a0; }
tr.fail td.status, tr.error td.status, tr.timeout td.status { color: #c00; font-weight: bold; }
tr.skip td.status { color: #888; }
td.num { text-align: right; }
.summary { margin: 1em 0; }
</style>
</head>
<body>
<h1>Compatibility Results &mdash; run {{.RunID}}</h1>
<p class="summary">{{.Stats.Total}} scenarios: {{.Stats.Passed}} passed,
{{.Stats.Failed}} failed, {{.Stats.Skipped}} skipped, {{.Stats.Errored}} errored,
{{.Stats.TimedOut}} timed out ({{formatDuration .Duration}})</p>
<table>
<tr><th>Subject</th><th>Scenario</th><th>Status</th><th>Duration</th><th>Artifacts</th></tr>
{{range .Subjects}}{{$subject := .ID}}
<tr class="{{statusClass .Verdict}}">
<td><b>{{.ID}}</b></td><td></td>
<td class="status">{{statusText .Verdict}}</td>
<td class="num">{{formatDuration .Duration}}</td><td></td>
</tr>
{{range .Scenarios}}
<tr class="{{statusClass .Verdict}}">
<td></td><td>{{.Scenario}}</td>
<td class="status">{{statusText .Verdict}}</td>
<td class="num">{{formatDuration .Duration}}</td>
<td>
{{if .RawOutput}}<a href="{{artifactPath $subject .Scenario ".output"}}">output</a>{{end}}
{{if .Diff}} <a href="{{artifactPath $subject .Scenario ".diff"}}">diff</a>{{end}}
{{if .Err}} <span title="{{.Err}}">error</span>{{end}}
</td>
</tr>
{{end}}
{{end}}
</table>
</body>
</html>
`
