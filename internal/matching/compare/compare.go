// internal/matching/compare/compare.go

// Package compare implements the three independent field comparators. Each
// produces a Verdict on its own; only the recommendation ladder fuses them.
package compare

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"people-matcher/internal/matching/nickname"
	"people-matcher/internal/matching/normalize"
	"people-matcher/internal/models"
)

const (
	familySimilarityGate  = 0.90
	givenPerfectThreshold = 0.95
	fullPerfectThreshold  = 0.95
	fullCloseThreshold    = 0.85
	domainCloseThreshold  = 0.80
	phoneSuffixLength     = 7
)

// Similarity is the normalized edit-distance similarity:
// (maxLen - distance) / maxLen over runes. 1.0 for identical strings,
// 0.0 for completely dissimilar. Symmetric.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	la := len([]rune(a))
	lb := len([]rune(b))
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return float64(maxLen-dist) / float64(maxLen)
}

// Names compares a local full name against a candidate full name.
//
// Identical normalized strings are Perfect. When both sides have at least
// two tokens, the last token is treated as the family name: a family
// similarity of 0.90 or better guarantees at least Close, with the given
// name (nickname equivalence, then similarity) deciding between Perfect and
// Close. Anything else falls back to whole-string similarity.
func Names(localFull, candidateFull string, idx *nickname.Index) models.Verdict {
	a := normalize.Name(localFull)
	b := normalize.Name(candidateFull)
	if a == "" || b == "" {
		return models.VerdictNoMatch
	}
	if a == b {
		return models.VerdictPerfect
	}

	tokensA := strings.Fields(a)
	tokensB := strings.Fields(b)
	if len(tokensA) >= 2 && len(tokensB) >= 2 {
		givenA, familyA := tokensA[0], tokensA[len(tokensA)-1]
		givenB, familyB := tokensB[0], tokensB[len(tokensB)-1]

		if Similarity(familyA, familyB) >= familySimilarityGate {
			// Identical givens are not a nickname downgrade; let the
			// similarity check below promote them to Perfect.
			if idx != nil && givenA != givenB && idx.AreLinked(givenA, givenB) {
				return models.VerdictClose
			}
			if Similarity(givenA, givenB) >= givenPerfectThreshold {
				return models.VerdictPerfect
			}
			return models.VerdictClose
		}
	}

	// Fallback: whole-string similarity.
	switch sim := Similarity(a, b); {
	case sim >= fullPerfectThreshold:
		return models.VerdictPerfect
	case sim >= fullCloseThreshold:
		return models.VerdictClose
	default:
		return models.VerdictNoMatch
	}
}

// Emails compares a local email against the candidate's email set.
func Emails(localEmail string, candidateEmails []string) models.Verdict {
	local := strings.ToLower(strings.TrimSpace(localEmail))
	if local == "" || len(candidateEmails) == 0 {
		return models.VerdictNoMatch
	}

	for _, candidate := range candidateEmails {
		if strings.ToLower(strings.TrimSpace(candidate)) == local {
			return models.VerdictPerfect
		}
	}

	localUser, localDomain, ok := splitEmail(local)
	if !ok {
		return models.VerdictNoMatch
	}

	for _, raw := range candidateEmails {
		candUser, candDomain, ok := splitEmail(strings.ToLower(strings.TrimSpace(raw)))
		if !ok {
			continue
		}
		if localUser == candUser {
			if Similarity(localDomain, candDomain) >= domainCloseThreshold {
				return models.VerdictClose
			}
			if provider(localDomain) == provider(candDomain) {
				return models.VerdictClose
			}
		} else if localDomain == candDomain {
			return models.VerdictClose
		}
	}
	return models.VerdictNoMatch
}

// Phones compares a local phone against the candidate's phone set.
func Phones(localPhone string, candidatePhones []string) models.Verdict {
	local := normalize.Phone(localPhone)
	if local == "" || len(candidatePhones) == 0 {
		return models.VerdictNoMatch
	}

	normalized := make([]string, 0, len(candidatePhones))
	for _, raw := range candidatePhones {
		if p := normalize.Phone(raw); p != "" {
			normalized = append(normalized, p)
		}
	}
	if len(normalized) == 0 {
		return models.VerdictNoMatch
	}

	for _, p := range normalized {
		if p == local {
			return models.VerdictPerfect
		}
	}

	localSuffix := normalize.LastDigits(local, phoneSuffixLength)
	for _, p := range normalized {
		if normalize.LastDigits(p, phoneSuffixLength) == localSuffix {
			return models.VerdictClose
		}
	}
	return models.VerdictNoMatch
}

func splitEmail(addr string) (user, domain string, ok bool) {
	at := strings.LastIndex(addr, "@")
	if at <= 0 || at == len(addr)-1 {
		return "", "", false
	}
	return addr[:at], addr[at+1:], true
}

// provider returns the mail provider, the first label of the domain:
// "gmail" from "gmail.com".
func provider(domain string) string {
	if i := strings.Index(domain, "."); i > 0 {
		return domain[:i]
	}
	return domain
}
