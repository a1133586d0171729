// Package diff computes human-readable differences between two snapshots of
// document content or outline. Both entry points are pure functions: no side
// effects, deterministic for given inputs. Callers must omit the result from
// downstream output when HasChanges is false so prompts carry no empty noise.
package diff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/draftloop/draftloop/core"
)

// ContentDiff describes line-granularity changes between two content strings.
type ContentDiff struct {
	HasChanges bool
	// Summary is a short natural-language count, e.g. "added 2 lines, removed 1 line".
	Summary string
	// DiffText is a unified-diff-style rendering suitable for a prompt.
	DiffText string
}

// OutlineDiff describes structural changes between two outlines.
type OutlineDiff struct {
	HasChanges bool
	Summary    string
}

// Content compares two content strings at line granularity.
func Content(previous, current string) ContentDiff {
	if previous == current {
		return ContentDiff{}
	}

	dmp := diffmatchpatch.New()
	prevChars, currChars, lineArray := dmp.DiffLinesToChars(previous, current)
	diffs := dmp.DiffMain(prevChars, currChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var added, removed int
	var sb strings.Builder
	for _, d := range diffs {
		for _, line := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				added++
				sb.WriteString("+ " + line + "\n")
			case diffmatchpatch.DiffDelete:
				removed++
				sb.WriteString("- " + line + "\n")
			case diffmatchpatch.DiffEqual:
				sb.WriteString("  " + line + "\n")
			}
		}
	}

	if added == 0 && removed == 0 {
		// Differs only in a trailing newline or similar sub-line detail.
		return ContentDiff{
			HasChanges: true,
			Summary:    "content changed",
			DiffText:   sb.String(),
		}
	}

	return ContentDiff{
		HasChanges: true,
		Summary:    countSummary(added, removed),
		DiffText:   strings.TrimRight(sb.String(), "\n"),
	}
}

// Outline compares two outlines by section id set, per-id field changes and
// order. Nil slices are treated as empty outlines.
func Outline(previous, current []core.OutlineSection) OutlineDiff {
	prevByID := indexByID(previous)
	currByID := indexByID(current)

	var added, removed, retitled, edited []string
	for _, s := range current {
		if _, ok := prevByID[s.ID]; !ok {
			added = append(added, s.Title)
		}
	}
	for _, s := range previous {
		curr, ok := currByID[s.ID]
		if !ok {
			removed = append(removed, s.Title)
			continue
		}
		if curr.Title != s.Title {
			retitled = append(retitled, fmt.Sprintf("%q renamed to %q", s.Title, curr.Title))
		} else if curr.Description != s.Description || curr.EstimatedWords != s.EstimatedWords {
			edited = append(edited, s.Title)
		}
	}
	reordered := orderChanged(previous, current)

	var parts []string
	if len(added) > 0 {
		parts = append(parts, "added sections: "+quoteJoin(added))
	}
	if len(removed) > 0 {
		parts = append(parts, "removed sections: "+quoteJoin(removed))
	}
	if len(retitled) > 0 {
		parts = append(parts, strings.Join(retitled, ", "))
	}
	if len(edited) > 0 {
		parts = append(parts, "updated sections: "+quoteJoin(edited))
	}
	if reordered {
		parts = append(parts, "sections reordered")
	}

	if len(parts) == 0 {
		return OutlineDiff{}
	}
	return OutlineDiff{HasChanges: true, Summary: strings.Join(parts, "; ")}
}

func countSummary(added, removed int) string {
	var parts []string
	if added > 0 {
		parts = append(parts, fmt.Sprintf("added %d %s", added, plural(added, "line")))
	}
	if removed > 0 {
		parts = append(parts, fmt.Sprintf("removed %d %s", removed, plural(removed, "line")))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// splitLines splits a diff chunk into lines, dropping the empty trailing
// element produced by a terminal newline.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func indexByID(sections []core.OutlineSection) map[string]core.OutlineSection {
	m := make(map[string]core.OutlineSection, len(sections))
	for _, s := range sections {
		m[s.ID] = s
	}
	return m
}

// orderChanged reports whether the ids common to both outlines appear in a
// different relative order.
func orderChanged(previous, current []core.OutlineSection) bool {
	currByID := indexByID(current)
	var prevShared []string
	for _, s := range previous {
		if _, ok := currByID[s.ID]; ok {
			prevShared = append(prevShared, s.ID)
		}
	}
	prevByID := indexByID(previous)
	var currShared []string
	for _, s := range current {
		if _, ok := prevByID[s.ID]; ok {
			currShared = append(currShared, s.ID)
		}
	}
	if len(prevShared) != len(currShared) {
		return false
	}
	for i := range prevShared {
		if prevShared[i] != currShared[i] {
			return true
		}
	}
	return false
}

func quoteJoin(titles []string) string {
	quoted := make([]string, len(titles))
	for i, t := range titles {
		quoted[i] = fmt.Sprintf("%q", t)
	}
	return strings.Join(quoted, ", ")
}
