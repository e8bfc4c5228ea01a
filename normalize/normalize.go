// Package normalize implements the transcript normalization pipeline that
// makes two independently-produced interpreter transcripts comparable.
//
// The transform is pure, deterministic and idempotent. It strips terminal
// control sequences, skips the interpreter's startup banner, and
// canonicalizes incidental whitespace, in that order: banner markers are
// matched as plain substrings, so control characters must already be gone
// by the time banner detection runs.
package normalize

import (
	"regexp"
	"strings"
)

// ansiPattern matches both two-character escape sequences (ESC followed by
// a single final byte in the 0x40-0x5F range) and full CSI sequences
// (ESC '[' parameters, intermediates, final byte).
var ansiPattern = regexp.MustCompile(`\x1b(?:[@-Z\\-_]|\[[0-?]*[ -/]*[@-~])`)

// Matcher decides whether a line belongs to the interpreter's preamble.
type Matcher func(line string) bool

// Contains matches lines containing the given substring, case-insensitively.
func Contains(sub string) Matcher {
	upper := strings.ToUpper(sub)
	return func(line string) bool {
		return strings.Contains(strings.ToUpper(line), upper)
	}
}

// ContainsAll matches lines containing every given substring, case-insensitively.
func ContainsAll(subs ...string) Matcher {
	uppers := make([]string, len(subs))
	for i, s := range subs {
		uppers[i] = strings.ToUpper(s)
	}
	return func(line string) bool {
		upper := strings.ToUpper(line)
		for _, s := range uppers {
			if !strings.Contains(upper, s) {
				return false
			}
		}
		return true
	}
}

// Prompt matches lines that consist solely of the given prompt text,
// ignoring surrounding whitespace.
func Prompt(text string) Matcher {
	return func(line string) bool {
		return strings.TrimSpace(line) == text
	}
}

// DefaultBannerMarkers recognizes the startup preamble printed by the
// Altair 8K BASIC front-ends before the program's actual output begins.
func DefaultBannerMarkers() []Matcher {
	return []Matcher{
		Contains("MICROSOFT BASIC"),
		ContainsAll("ALTAIR", "VERSION"),
		Contains("[8K VERSION]"),
		Contains("[4K VERSION]"),
		Contains("COPYRIGHT"),
		Contains("BYTES FREE"),
		Prompt("OK"),
	}
}

// bannerState is the state of the preamble scanner.
type bannerState int

const (
	// stateSkipping drops banner and blank lines from the top of the
	// transcript until the first line of real content appears.
	stateSkipping bannerState = iota
	// stateContent emits every remaining line verbatim.
	stateContent
)

// Normalizer applies the full normalization pipeline.
type Normalizer struct {
	banner []Matcher
}

// New creates a Normalizer with the given preamble markers.
func New(markers ...Matcher) *Normalizer {
	return &Normalizer{banner: markers}
}

// Default creates a Normalizer configured for the Altair BASIC banners.
func Default() *Normalizer {
	return New(DefaultBannerMarkers()...)
}

// Normalize canonicalizes a raw transcript. The steps run in a fixed
// order: bell removal, ANSI stripping, CR removal, banner skip, per-line
// trailing-whitespace trim, and finally blank-edge trim of the whole
// transcript. Leading whitespace within lines is preserved; column
// alignment is semantically meaningful interpreter output.
func (n *Normalizer) Normalize(raw string) string {
	text := strings.ReplaceAll(raw, "\x07", "")
	text = ansiPattern.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "\r", "")

	lines := n.skipBanner(strings.Split(text, "\n"))

	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}

	lines = trimBlankEdges(lines)

	return strings.Join(lines, "\n")
}

// skipBanner runs the two-state preamble scanner over the transcript.
func (n *Normalizer) skipBanner(lines []string) []string {
	state := stateSkipping
	out := make([]string, 0, len(lines))

	for _, line := range lines {
		if state == stateSkipping {
			if strings.TrimSpace(line) == "" || n.isBanner(line) {
				continue
			}
			state = stateContent
		}
		out = append(out, line)
	}

	return out
}

func (n *Normalizer) isBanner(line string) bool {
	for _, match := range n.banner {
		if match(line) {
			return true
		}
	}
	return false
}

func trimBlankEdges(lines []string) []string {
	start := 0
	end := len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}

var defaultNormalizer = Default()

// Normalize canonicalizes a transcript using the default banner markers.
func Normalize(raw string) string {
	return defaultNormalizer.Normalize(raw)
}
