package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draftloop/draftloop/core"
)

func replaceAt(id string, start, end int, text string) core.EditSuggestion {
	return core.EditSuggestion{
		ID:            id,
		Type:          core.EditReplace,
		Range:         core.Range{Start: start, End: end},
		SuggestedText: text,
	}
}

func TestApplyReplace(t *testing.T) {
	got, err := Apply("Hello world", replaceAt("s1", 0, 5, "Hi"))
	require.NoError(t, err)
	assert.Equal(t, "Hi world", got)
}

func TestApplyInsert(t *testing.T) {
	s := core.EditSuggestion{
		ID:            "s1",
		Type:          core.EditInsert,
		Range:         core.Range{Start: 5, End: 5},
		SuggestedText: ",",
	}
	got, err := Apply("Hello world", s)
	require.NoError(t, err)
	assert.Equal(t, "Hello, world", got)
}

func TestApplyInsertRequiresPointRange(t *testing.T) {
	s := core.EditSuggestion{
		ID:    "s1",
		Type:  core.EditInsert,
		Range: core.Range{Start: 2, End: 5},
	}
	_, err := Apply("Hello world", s)
	assert.Error(t, err)
}

func TestApplyDelete(t *testing.T) {
	s := core.EditSuggestion{
		ID:            "s1",
		Type:          core.EditDelete,
		Range:         core.Range{Start: 5, End: 11},
		SuggestedText: "ignored",
	}
	got, err := Apply("Hello world", s)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got)
}

func TestApplyOutOfBounds(t *testing.T) {
	_, err := Apply("short", replaceAt("s1", 3, 99, "x"))
	assert.Error(t, err)

	_, err = Apply("short", replaceAt("s1", -1, 2, "x"))
	assert.Error(t, err)
}

func TestApplyReplaceIsInvertible(t *testing.T) {
	original := "The quick brown fox"
	s := replaceAt("s1", 4, 9, "sluggish")
	s.OriginalText = "quick"

	patched, err := Apply(original, s)
	require.NoError(t, err)

	inverse := core.EditSuggestion{
		ID:            "s1-inverse",
		Type:          core.EditReplace,
		Range:         core.Range{Start: 4, End: 4 + len("sluggish")},
		SuggestedText: s.OriginalText,
	}
	restored, err := Apply(patched, inverse)
	require.NoError(t, err)
	assert.Equal(t, original, restored)
}

func TestApplyAllShiftsOffsets(t *testing.T) {
	s1 := replaceAt("s1", 0, 1, "AA")
	s2 := replaceAt("s2", 3, 4, "D")

	got, err := ApplyAll("abcdef", []core.EditSuggestion{s1, s2}, map[string]bool{"s1": true, "s2": true})
	require.NoError(t, err)
	assert.Equal(t, "AAbcDef", got)
}

func TestApplyAllOrderInsensitive(t *testing.T) {
	// Proposal order deliberately reversed relative to range order.
	s2 := replaceAt("s2", 3, 4, "D")
	s1 := replaceAt("s1", 0, 1, "AA")
	suggestions := []core.EditSuggestion{s2, s1}

	a, err := ApplyAll("abcdef", suggestions, map[string]bool{"s1": true, "s2": true})
	require.NoError(t, err)
	b, err := ApplyAll("abcdef", suggestions, map[string]bool{"s2": true, "s1": true})
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, "AAbcDef", a)
}

func TestApplyAllSkipsRejected(t *testing.T) {
	s1 := replaceAt("s1", 0, 1, "AA")
	s2 := replaceAt("s2", 3, 4, "D")

	got, err := ApplyAll("abcdef", []core.EditSuggestion{s1, s2}, map[string]bool{"s2": true})
	require.NoError(t, err)
	assert.Equal(t, "abcDef", got)
}

func TestApplyAllNoneAccepted(t *testing.T) {
	got, err := ApplyAll("abcdef", []core.EditSuggestion{replaceAt("s1", 0, 1, "x")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "abcdef", got)
}

func TestApplyAllOverlapFailsAtomically(t *testing.T) {
	s1 := replaceAt("s1", 0, 4, "WXYZ")
	s2 := replaceAt("s2", 2, 6, "!")

	got, err := ApplyAll("abcdef", []core.EditSuggestion{s1, s2}, map[string]bool{"s1": true, "s2": true})
	require.Error(t, err)
	assert.Empty(t, got)

	var overlapErr *OverlapError
	require.ErrorAs(t, err, &overlapErr)
	assert.Equal(t, "s1", overlapErr.FirstID)
	assert.Equal(t, "s2", overlapErr.SecondID)
}

func TestApplyAllAdjacentRangesDoNotOverlap(t *testing.T) {
	s1 := replaceAt("s1", 0, 3, "X")
	s2 := replaceAt("s2", 3, 6, "Y")

	got, err := ApplyAll("abcdef", []core.EditSuggestion{s1, s2}, map[string]bool{"s1": true, "s2": true})
	require.NoError(t, err)
	assert.Equal(t, "XY", got)
}

func TestApplyAllInsertionsAtSamePoint(t *testing.T) {
	s1 := core.EditSuggestion{ID: "s1", Type: core.EditInsert, Range: core.Range{Start: 3, End: 3}, SuggestedText: "1"}
	s2 := core.EditSuggestion{ID: "s2", Type: core.EditInsert, Range: core.Range{Start: 3, End: 3}, SuggestedText: "2"}

	// Point ranges never intersect; proposal order breaks the tie.
	got, err := ApplyAll("abcdef", []core.EditSuggestion{s1, s2}, map[string]bool{"s1": true, "s2": true})
	require.NoError(t, err)
	assert.Equal(t, "abc12def", got)
}

func TestApplyAllMultibyteContent(t *testing.T) {
	// Offsets are rune-based, so multibyte characters count as one.
	got, err := ApplyAll("héllo", []core.EditSuggestion{replaceAt("s1", 1, 2, "e")}, map[string]bool{"s1": true})
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}
