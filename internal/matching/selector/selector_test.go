// internal/matching/selector/selector_test.go
package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"people-matcher/internal/common/logger"
	"people-matcher/internal/matching/nickname"
	"people-matcher/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func testSelector(t *testing.T) *Selector {
	idx := nickname.NewIndex([]nickname.Row{
		{NameA: "robert", Relationship: nickname.RelationshipNickname, NameB: "bob"},
	})
	return New(idx, 2, logger.NewTestLogger(t))
}

func localBob() models.LocalRecord {
	return models.LocalRecord{
		ID:        "local-1",
		FirstName: "Bob",
		LastName:  "Smith",
		Email:     "bob@x.com",
		Phone:     "5551234567",
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestSelect_PicksBestCandidate(t *testing.T) {
	sel := testSelector(t)

	candidates := []models.CandidateRecord{
		{ID: "ext-1", Name: "Alice Jones"},
		{ID: "ext-2", Name: "Bob Smith", Emails: []string{"bob@x.com"}, Phones: []string{"5551234567"}},
		{ID: "ext-3", Name: "Bob Smith", Emails: []string{"bob@x.com"}},
	}

	results := sel.Select([]models.LocalRecord{localBob()}, candidates)
	require.Len(t, results, 1)

	mc := results[0]
	require.NotNil(t, mc.Candidate)
	assert.Equal(t, "ext-2", mc.Candidate.ID, "rank sum breaks the tie between the two Bob Smiths")
	assert.Equal(t, models.TierMatch, mc.Tier)
	assert.True(t, mc.IsPerfectMatch())
}

func TestSelect_NoCandidateClearsTheBar(t *testing.T) {
	sel := testSelector(t)

	candidates := []models.CandidateRecord{
		{ID: "ext-1", Name: "Alice Jones"},
		{ID: "ext-2", Name: "Carol White"},
	}

	results := sel.Select([]models.LocalRecord{localBob()}, candidates)
	require.Len(t, results, 1)

	mc := results[0]
	assert.Nil(t, mc.Candidate, "an all-NoMatch scan yields no chosen candidate")
	assert.Equal(t, models.TierNoMatch, mc.Tier)
	assert.False(t, mc.IsPerfectMatch())
}

func TestSelect_EmptyDirectory(t *testing.T) {
	sel := testSelector(t)

	locals := []models.LocalRecord{
		localBob(),
		{ID: "local-2", FirstName: "Alice", LastName: "Jones"},
	}

	results := sel.Select(locals, nil)
	require.Len(t, results, 2)
	for _, mc := range results {
		assert.Nil(t, mc.Candidate)
		assert.Equal(t, models.TierNoMatch, mc.Tier)
	}
}

func TestSelect_NeverChoosesNoMatchCandidate(t *testing.T) {
	sel := testSelector(t)

	locals := []models.LocalRecord{
		localBob(),
		{ID: "local-2", FirstName: "Peggy", LastName: "Olson", Email: "peggy@sc.com"},
		{ID: "local-3", FirstName: "Don", LastName: "Draper"},
	}
	candidates := []models.CandidateRecord{
		{ID: "ext-1", Name: "Robert Smith", Emails: []string{"bob@x.com"}},
		{ID: "ext-2", Name: "Margaret Olson", Emails: []string{"peggy@sc.com"}},
		{ID: "ext-3", Name: "Completely Different"},
	}

	for _, mc := range sel.Select(locals, candidates) {
		if mc.Candidate != nil {
			assert.NotEqual(t, models.TierNoMatch, mc.Tier,
				"a chosen candidate must never carry a NoMatch tier")
		}
	}
}

func TestSelect_PreservesInputOrder(t *testing.T) {
	sel := testSelector(t)

	locals := []models.LocalRecord{
		{ID: "local-1", FirstName: "Alice", LastName: "Jones"},
		{ID: "local-2", FirstName: "Bob", LastName: "Smith"},
		{ID: "local-3", FirstName: "Carol", LastName: "White"},
	}

	results := sel.Select(locals, nil)
	require.Len(t, results, 3)
	for i, mc := range results {
		assert.Equal(t, locals[i].ID, mc.Local.ID)
	}
}

// ==========================
// Input Filtering Tests
// ==========================

func TestSelect_SkipsMalformedAndLinkedRecords(t *testing.T) {
	sel := testSelector(t)

	locals := []models.LocalRecord{
		{FirstName: "No", LastName: "ID"},
		{ID: "local-1", FirstName: "Already", LastName: "Linked", ExternalRef: "ext-9"},
		{ID: "local-2", FirstName: "Bob", LastName: "Smith"},
	}

	results := sel.Select(locals, nil)
	require.Len(t, results, 1)
	assert.Equal(t, "local-2", results[0].Local.ID)
}

// ==========================
// Scenario Tests
// ==========================

func TestSelect_NicknamePairingLandsInReview(t *testing.T) {
	// Bob Smith vs Robert Smith with matching email and phone: name Close,
	// email Perfect, phone Perfect -> Review, not Match.
	sel := testSelector(t)

	candidates := []models.CandidateRecord{
		{ID: "ext-1", Name: "Robert Smith", Emails: []string{"bob@x.com"}, Phones: []string{"+15551234567"}},
	}

	results := sel.Select([]models.LocalRecord{localBob()}, candidates)
	require.Len(t, results, 1)

	mc := results[0]
	require.NotNil(t, mc.Candidate)
	assert.Equal(t, models.VerdictClose, mc.NameVerdict)
	assert.Equal(t, models.VerdictPerfect, mc.EmailVerdict)
	assert.Equal(t, models.VerdictPerfect, mc.PhoneVerdict)
	assert.Equal(t, models.TierReview, mc.Tier)
	assert.False(t, mc.IsPerfectMatch())
}
