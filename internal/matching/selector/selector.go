// internal/matching/selector/selector.go

// Package selector scans the fetched directory for each unlinked local
// record and picks the best-scoring candidate, or none.
package selector

import (
	"sync"

	"people-matcher/internal/common/logger"
	"people-matcher/internal/matching/compare"
	"people-matcher/internal/matching/nickname"
	"people-matcher/internal/matching/recommend"
	"people-matcher/internal/models"
)

type Selector struct {
	nicknames   *nickname.Index
	maxParallel int
	logger      logger.Logger
}

func New(nicknames *nickname.Index, maxParallel int, log logger.Logger) *Selector {
	if maxParallel < 1 {
		maxParallel = 1
	}
	return &Selector{
		nicknames:   nicknames,
		maxParallel: maxParallel,
		logger:      log,
	}
}

// Select evaluates every local record against every candidate and returns
// one MatchCandidate per valid local record, in input order. Records with a
// missing id are rejected individually and the batch continues. Comparisons
// are pure, so the scan fans out across local records behind a bounded pool.
func (s *Selector) Select(locals []models.LocalRecord, candidates []models.CandidateRecord) []models.MatchCandidate {
	valid := make([]models.LocalRecord, 0, len(locals))
	for _, local := range locals {
		if local.ID == "" {
			s.logger.Warn("skipping malformed local record", map[string]interface{}{
				"name":   local.FullName(),
				"reason": "missing id",
			})
			continue
		}
		if local.IsLinked() {
			// Already linked records never re-enter the queue.
			continue
		}
		valid = append(valid, local)
	}

	results := make([]models.MatchCandidate, len(valid))

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.maxParallel)
	for i := range valid {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = s.selectOne(valid[i], candidates)
		}(i)
	}
	wg.Wait()

	return results
}

// selectOne picks the candidate yielding the highest tier for one local
// record; ties break on the sum of individual verdict ranks. When every
// candidate yields NoMatch the result carries no chosen candidate.
func (s *Selector) selectOne(local models.LocalRecord, candidates []models.CandidateRecord) models.MatchCandidate {
	best := models.MatchCandidate{
		Local: local,
		Tier:  models.TierNoMatch,
	}

	for i := range candidates {
		candidate := &candidates[i]
		if candidate.ID == "" {
			continue
		}

		scored := models.MatchCandidate{
			Local:       local,
			Candidate:   candidate,
			NameVerdict: compare.Names(local.FullName(), candidate.Name, s.nicknames),
		}
		if local.Email != "" {
			scored.EmailVerdict = compare.Emails(local.Email, candidate.Emails)
		}
		if local.Phone != "" {
			scored.PhoneVerdict = compare.Phones(local.Phone, candidate.Phones)
		}
		scored.Tier = recommend.Tier(recommend.Input{
			Name:     scored.NameVerdict,
			Email:    scored.EmailVerdict,
			HasEmail: local.Email != "",
			Phone:    scored.PhoneVerdict,
			HasPhone: local.Phone != "",
		})

		if scored.Tier == models.TierNoMatch {
			continue
		}
		if best.Candidate == nil ||
			scored.Tier > best.Tier ||
			(scored.Tier == best.Tier && scored.RankSum() > best.RankSum()) {
			best = scored
		}
	}

	return best
}
