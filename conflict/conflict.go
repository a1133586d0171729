// Package conflict detects divergence between structural outline edits and
// free-text draft edits made independently. When an outline section is removed
// or retitled while the draft still contains a heading written against the old
// title, the conflict is surfaced to the model rather than auto-resolved;
// silent reconciliation could be wrong in either direction.
package conflict

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/draftloop/draftloop/core"
)

// Detail describes a single detected conflict.
type Detail struct {
	// Heading is the draft heading text still tied to the removed section.
	Heading string
	// OldTitle is the removed or renamed section's previous title.
	OldTitle string
}

// Report is the outcome of a conflict scan.
type Report struct {
	HasConflicts bool
	Summary      string
	Details      []Detail
}

// Detect scans draftContent for headings plausibly tied to outline sections
// that were removed or retitled between previousOutline and currentOutline.
// Absence of a previous outline or of draft content means no conflicts by
// definition: there is nothing to conflict with.
func Detect(previousOutline, currentOutline []core.OutlineSection, draftContent string) Report {
	if len(previousOutline) == 0 || strings.TrimSpace(draftContent) == "" {
		return Report{}
	}

	stale := staleTitles(previousOutline, currentOutline)
	if len(stale) == 0 {
		return Report{}
	}

	headings := extractHeadings(draftContent)
	if len(headings) == 0 {
		return Report{}
	}

	var details []Detail
	for _, heading := range headings {
		for _, oldTitle := range stale {
			if titlesMatch(heading, oldTitle) {
				details = append(details, Detail{Heading: heading, OldTitle: oldTitle})
			}
		}
	}

	if len(details) == 0 {
		return Report{}
	}

	var sb strings.Builder
	sb.WriteString("draft contains content for a section that no longer exists in the outline: ")
	for i, d := range details {
		if i > 0 {
			sb.WriteString("; ")
		}
		fmt.Fprintf(&sb, "heading %q matches removed section %q", d.Heading, d.OldTitle)
	}

	return Report{HasConflicts: true, Summary: sb.String(), Details: details}
}

// staleTitles returns titles of sections present in previous but absent or
// retitled in current, compared by section id.
func staleTitles(previous, current []core.OutlineSection) []string {
	currByID := make(map[string]core.OutlineSection, len(current))
	for _, s := range current {
		currByID[s.ID] = s
	}
	var titles []string
	for _, s := range previous {
		curr, ok := currByID[s.ID]
		if !ok || curr.Title != s.Title {
			titles = append(titles, s.Title)
		}
	}
	return titles
}

// extractHeadings parses the draft as markdown and collects heading text from
// the AST in document order.
func extractHeadings(draft string) []string {
	source := []byte(draft)
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	var headings []string
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok {
			if t := strings.TrimSpace(string(h.Text(source))); t != "" {
				headings = append(headings, t)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return headings
}

// titlesMatch compares a draft heading with an old section title,
// case-insensitive, tolerating a small edit distance so minor punctuation or
// typo drift still counts as the same section.
func titlesMatch(heading, oldTitle string) bool {
	a := strings.ToLower(strings.TrimSpace(heading))
	b := strings.ToLower(strings.TrimSpace(oldTitle))
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	return editDistance(a, b) <= tolerance(b)
}

// tolerance scales with title length: very short titles must match exactly,
// longer ones absorb a couple of edits.
func tolerance(title string) int {
	if len(title) < 5 {
		return 0
	}
	t := len(title) / 8
	if t < 2 {
		return 2
	}
	return t
}

func editDistance(a, b string) int {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	return dmp.DiffLevenshtein(diffs)
}
