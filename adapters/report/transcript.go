// Package report turns tournament ledgers into human-readable artifacts:
// Markdown transcripts, score summaries, and spreadsheet exports. The
// engine defines content; everything here is formatting.
package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"gauntlet/domain/scoring"
	"gauntlet/domain/tournament"
)

// Transcript renders the full round history of a tournament as Markdown,
// in submission order: critique, defense, verdict, decision, running
// scores.
func Transcript(t *tournament.Tournament) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Tournament Transcript\n\n")
	fmt.Fprintf(&b, "**Hypothesis:** %s\n\n", t.Hypothesis.Claim)
	fmt.Fprintf(&b, "**State:** %s", t.State)
	if t.StateReason != "" {
		fmt.Fprintf(&b, " (%s)", t.StateReason)
	}
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "**Final Scores:**\n\n")
	fmt.Fprintf(&b, "- Challenger: %d\n", t.Scores[scoring.RoleChallenger])
	fmt.Fprintf(&b, "- Defender: %d\n\n", t.Scores[scoring.RoleDefender])
	b.WriteString("---\n\n")

	for _, r := range t.Rounds {
		fmt.Fprintf(&b, "## Round %d (stage %d)\n\n", r.Number, r.Stage)
		fmt.Fprintf(&b, "### Challenger\n\n%s\n\n", r.Critique.Description)
		if len(r.Critique.CitedEquations) > 0 {
			fmt.Fprintf(&b, "Cited equations: `%s`\n\n", strings.Join(r.Critique.CitedEquations, "`, `"))
		}
		fmt.Fprintf(&b, "### Defender (%s)\n\n%s\n\n", r.Defense.Kind, r.Defense.Evidence)
		if r.Defense.Calculation != nil {
			fmt.Fprintf(&b, "Calculation: `%s`\n\n", r.Defense.Calculation.Equation)
		}
		fmt.Fprintf(&b, "### Verdict\n\n")
		fmt.Fprintf(&b, "- Outcome: %s\n", r.Outcome.Category())
		if r.Outcome.Rationale != "" {
			fmt.Fprintf(&b, "- Rationale: %s\n", r.Outcome.Rationale)
		}
		fmt.Fprintf(&b, "- Decision: %s\n", r.Decision)
		for _, ev := range r.Events {
			fmt.Fprintf(&b, "- %s: %+d (%s)\n", ev.Role, ev.Delta, ev.Reason)
		}
		b.WriteString("\n---\n\n")
	}

	return b.String()
}

// TranscriptHTML renders the transcript through the markdown pipeline for
// the ops endpoint.
func TranscriptHTML(t *tournament.Tournament) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(Transcript(t)), p, renderer)
}
