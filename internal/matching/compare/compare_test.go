// internal/matching/compare/compare_test.go
package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"people-matcher/internal/matching/nickname"
	"people-matcher/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func testIndex() *nickname.Index {
	return nickname.NewIndex([]nickname.Row{
		{NameA: "robert", Relationship: nickname.RelationshipNickname, NameB: "bob"},
		{NameA: "william", Relationship: nickname.RelationshipNickname, NameB: "bill"},
	})
}

// ==========================
// Similarity Tests
// ==========================

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("smith", "smith"))
	assert.Equal(t, 1.0, Similarity("", ""))
	assert.Equal(t, 0.0, Similarity("abc", "xyz"))
	assert.InDelta(t, 0.8, Similarity("smith", "smyth"), 1e-9)
}

func TestSimilarity_Symmetric(t *testing.T) {
	cases := [][2]string{
		{"smith", "smyth"},
		{"jon", "jonathan"},
		{"", "abc"},
		{"bob smith", "robert smith"},
	}
	for _, c := range cases {
		assert.Equal(t, Similarity(c[0], c[1]), Similarity(c[1], c[0]),
			"similarity(%q,%q) should be symmetric", c[0], c[1])
	}
}

// ==========================
// Name Comparator Tests
// ==========================

func TestNames_IdenticalIsPerfect(t *testing.T) {
	idx := nickname.NewEmptyIndex()
	for _, name := range []string{"Bob Smith", "bob", "Mary-Jane O'Brien"} {
		assert.Equal(t, models.VerdictPerfect, Names(name, name, idx),
			"compare(%q,%q) should be Perfect", name, name)
	}
}

func TestNames_EmptyIsNoMatch(t *testing.T) {
	idx := nickname.NewEmptyIndex()
	assert.Equal(t, models.VerdictNoMatch, Names("", "Bob Smith", idx))
	assert.Equal(t, models.VerdictNoMatch, Names("Bob Smith", "", idx))
	assert.Equal(t, models.VerdictNoMatch, Names("", "", idx))
}

func TestNames_NicknameUpgradeIsClose(t *testing.T) {
	idx := testIndex()
	assert.Equal(t, models.VerdictClose, Names("Bob Smith", "Robert Smith", idx))
	assert.Equal(t, models.VerdictClose, Names("Robert Smith", "Bob Smith", idx))
}

func TestNames_FamilyGatePassedGivenBelowThresholds(t *testing.T) {
	// "Jon"/"Jonathan" are not in the index and given similarity is ~0.375;
	// the family gate alone still guarantees Close.
	idx := nickname.NewEmptyIndex()
	assert.Equal(t, models.VerdictClose, Names("Jon Smith", "Jonathan Smith", idx))
}

func TestNames_NearIdenticalGivenIsPerfect(t *testing.T) {
	idx := nickname.NewEmptyIndex()
	// "katherine"/"katherines" family identical, given similarity 0.9 -> Close.
	assert.Equal(t, models.VerdictClose, Names("Katherine Jones", "Katherines Jones", idx))
	// Family close, givens identical -> Perfect.
	assert.Equal(t, models.VerdictPerfect, Names("Mary Smith Jones", "Mary Jones", idx))
}

func TestNames_IdenticalGivenNotDowngradedByIndex(t *testing.T) {
	// A loaded index must not demote identical givens to Close; the
	// nickname downgrade applies to distinct linked names only.
	idx := testIndex()
	assert.Equal(t, models.VerdictPerfect, Names("Robert Smith Jones", "Robert Jones", idx))
	assert.Equal(t, models.VerdictClose, Names("Robert Jones", "Bob Jones", idx))
}

func TestNames_FamilyMismatchFallsBackToFullString(t *testing.T) {
	idx := nickname.NewEmptyIndex()
	assert.Equal(t, models.VerdictNoMatch, Names("Bob Smith", "Bob Jones", idx))
}

func TestNames_SingleTokenFallback(t *testing.T) {
	idx := nickname.NewEmptyIndex()
	// Single tokens skip the family gate entirely.
	assert.Equal(t, models.VerdictNoMatch, Names("Bob", "Robert", idx))
	assert.Equal(t, models.VerdictClose, Names("Johnson", "Jonson", idx)) // sim 6/7 ~ 0.857
}

func TestNames_NilIndexStillCompares(t *testing.T) {
	assert.Equal(t, models.VerdictPerfect, Names("Bob Smith", "Bob Smith", nil))
	assert.Equal(t, models.VerdictClose, Names("Jon Smith", "Jonathan Smith", nil))
}

// ==========================
// Email Comparator Tests
// ==========================

func TestEmails(t *testing.T) {
	tests := []struct {
		name       string
		local      string
		candidates []string
		expected   models.Verdict
	}{
		{"empty local", "", []string{"a@x.com"}, models.VerdictNoMatch},
		{"empty candidates", "a@x.com", nil, models.VerdictNoMatch},
		{"exact match", "bob@x.com", []string{"other@y.com", "bob@x.com"}, models.VerdictPerfect},
		{"exact match case-insensitive", "Bob@X.com", []string{"bob@x.com"}, models.VerdictPerfect},
		{"same user similar domain", "bob@gmail.com", []string{"bob@gmaill.com"}, models.VerdictClose},
		{"same user same provider", "bob@gmail.com", []string{"bob@gmail.co.uk"}, models.VerdictClose},
		{"different user same domain", "bob@acme.org", []string{"alice@acme.org"}, models.VerdictClose},
		{"nothing in common", "bob@x.com", []string{"alice@unrelated.net"}, models.VerdictNoMatch},
		{"malformed candidate skipped", "bob@x.com", []string{"not-an-email", "alice@x.com"}, models.VerdictClose},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Emails(tt.local, tt.candidates))
		})
	}
}

// ==========================
// Phone Comparator Tests
// ==========================

func TestPhones(t *testing.T) {
	tests := []struct {
		name       string
		local      string
		candidates []string
		expected   models.Verdict
	}{
		{"empty local", "", []string{"5551234567"}, models.VerdictNoMatch},
		{"empty candidates", "5551234567", nil, models.VerdictNoMatch},
		{"exact after normalization", "5551234567", []string{"+1 (555) 123-4567"}, models.VerdictPerfect},
		{"last seven digits", "5551234567", []string{"9995551234567"}, models.VerdictClose},
		{"different area code same line", "212 123 4567", []string{"5551234567"}, models.VerdictClose},
		{"no overlap", "5551234567", []string{"5559876543"}, models.VerdictNoMatch},
		{"candidate with no digits", "5551234567", []string{"n/a"}, models.VerdictNoMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Phones(tt.local, tt.candidates))
		})
	}
}
