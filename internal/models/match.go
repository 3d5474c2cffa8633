// internal/models/match.go
package models

// Verdict is the three-valued outcome of comparing one field between a local
// and a candidate record. Ordering by confidence: Perfect > Close > NoMatch.
type Verdict int

const (
	VerdictNoMatch Verdict = iota
	VerdictClose
	VerdictPerfect
)

func (v Verdict) String() string {
	switch v {
	case VerdictPerfect:
		return "perfect"
	case VerdictClose:
		return "close"
	default:
		return "no_match"
	}
}

// Rank returns the verdict's contribution to tie-break scoring.
func (v Verdict) Rank() int {
	return int(v)
}

// Tier is the fused recommendation for a whole candidate pairing.
type Tier int

const (
	TierNoMatch Tier = iota
	TierReview
	TierMatch
)

func (t Tier) String() string {
	switch t {
	case TierMatch:
		return "match"
	case TierReview:
		return "review"
	default:
		return "no_match"
	}
}

// MatchCandidate pairs one local record with at most one chosen directory
// candidate, along with the per-field verdicts and the fused tier. It is
// created fresh on every matching run and never persisted.
type MatchCandidate struct {
	Local     LocalRecord      `json:"local"`
	Candidate *CandidateRecord `json:"candidate,omitempty"`

	NameVerdict  Verdict `json:"nameVerdict"`
	EmailVerdict Verdict `json:"emailVerdict"`
	PhoneVerdict Verdict `json:"phoneVerdict"`

	Tier Tier `json:"tier"`
}

// HasEmail reports whether the email field participates in the verdicts.
func (m *MatchCandidate) HasEmail() bool {
	return m.Local.Email != ""
}

// HasPhone reports whether the phone field participates in the verdicts.
func (m *MatchCandidate) HasPhone() bool {
	return m.Local.Phone != ""
}

// IsPerfectMatch reports whether every populated field's verdict is Perfect.
// Only candidates with a chosen directory entry can be perfect.
func (m *MatchCandidate) IsPerfectMatch() bool {
	if m.Candidate == nil {
		return false
	}
	if m.NameVerdict != VerdictPerfect {
		return false
	}
	if m.HasEmail() && m.EmailVerdict != VerdictPerfect {
		return false
	}
	if m.HasPhone() && m.PhoneVerdict != VerdictPerfect {
		return false
	}
	return true
}

// RankSum is the tie-break score across the three verdicts.
func (m *MatchCandidate) RankSum() int {
	return m.NameVerdict.Rank() + m.EmailVerdict.Rank() + m.PhoneVerdict.Rank()
}
