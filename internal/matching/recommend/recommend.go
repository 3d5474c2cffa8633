// internal/matching/recommend/recommend.go

// Package recommend fuses per-field verdicts into a recommendation tier.
package recommend

import "people-matcher/internal/models"

// Input carries the three field verdicts. The name verdict is always
// computed; email and phone participate only when the local record has the
// field populated (their verdicts are NoMatch by convention otherwise).
type Input struct {
	Name     models.Verdict
	Email    models.Verdict
	HasEmail bool
	Phone    models.Verdict
	HasPhone bool
}

// Tier evaluates the confidence ladder, first rule wins. The function is
// pure and total over the full verdict/presence space.
//
//  1. name NoMatch: NoMatch. Name is a hard gate; no other field compensates.
//  2. name Perfect and no populated field NoMatch: Match.
//  3. name Perfect and another populated field Perfect: Match.
//  4. name Perfect and another populated field at least Close: Review.
//  5. name Close and another populated field Perfect: Review.
//  6. name Close and another populated field Close: Review.
//  7. otherwise NoMatch.
func Tier(in Input) models.Tier {
	if in.Name == models.VerdictNoMatch {
		return models.TierNoMatch
	}

	anyOtherPerfect := (in.HasEmail && in.Email == models.VerdictPerfect) ||
		(in.HasPhone && in.Phone == models.VerdictPerfect)
	anyOtherClose := (in.HasEmail && in.Email == models.VerdictClose) ||
		(in.HasPhone && in.Phone == models.VerdictClose)
	anyOtherNoMatch := (in.HasEmail && in.Email == models.VerdictNoMatch) ||
		(in.HasPhone && in.Phone == models.VerdictNoMatch)

	if in.Name == models.VerdictPerfect {
		if !anyOtherNoMatch {
			return models.TierMatch
		}
		if anyOtherPerfect {
			return models.TierMatch
		}
		if anyOtherClose {
			return models.TierReview
		}
		return models.TierNoMatch
	}

	// Name is Close.
	if anyOtherPerfect || anyOtherClose {
		return models.TierReview
	}
	return models.TierNoMatch
}
