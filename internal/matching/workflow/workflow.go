// internal/matching/workflow/workflow.go

// Package workflow drives the operator review process over a matching run:
// fetch the directory, match, bucket into perfect vs. review, then
// bulk-approve or step through one item at a time.
package workflow

import (
	"context"

	"github.com/google/uuid"

	apperrors "people-matcher/internal/common/errors"
	"people-matcher/internal/common/logger"
	"people-matcher/internal/common/metrics"
	"people-matcher/internal/matching/selector"
	"people-matcher/internal/models"
)

// RecordStore supplies local records and persists approved links.
type RecordStore interface {
	ListUnlinked(ctx context.Context, scopeID string) ([]models.LocalRecord, error)
	CountUnlinked(ctx context.Context, scopeID string) (int, error)
	PersistLink(ctx context.Context, localID, externalID string) error
}

// DirectoryProvider supplies the full candidate directory, internally
// paginated. A page failure yields an error, never a partial list.
type DirectoryProvider interface {
	FetchAll(ctx context.Context, scopeID string, forceRefresh bool) ([]models.CandidateRecord, error)
}

// State names the workflow position between operator actions.
type State string

const (
	StateIdle           State = "idle"
	StateFetching       State = "fetching"
	StateMatching       State = "matching"
	StatePerfectSummary State = "perfect_summary"
	StateReviewQueue    State = "review_queue"
)

// Workflow is a single-operator review session. It is not safe for
// concurrent use; one session owns one queue.
type Workflow struct {
	store    RecordStore
	provider DirectoryProvider
	selector *selector.Selector
	logger   logger.Logger

	state   State
	scopeID string
	runID   string
	perfect []models.MatchCandidate
	review  []models.MatchCandidate
	cursor  int
}

func New(store RecordStore, provider DirectoryProvider, sel *selector.Selector, log logger.Logger) *Workflow {
	return &Workflow{
		store:    store,
		provider: provider,
		selector: sel,
		logger:   log,
		state:    StateIdle,
	}
}

func (w *Workflow) State() State { return w.state }

// UnlinkedCount reports how many local records await linkage, shown at the
// Idle entry point.
func (w *Workflow) UnlinkedCount(ctx context.Context, scopeID string) (int, error) {
	n, err := w.store.CountUnlinked(ctx, scopeID)
	if err != nil {
		return 0, apperrors.NewStoreQueryFailedError(err)
	}
	return n, nil
}

// Start runs a full matching pass. On a provider failure the workflow
// returns to Idle with no partial results; the error is retryable.
func (w *Workflow) Start(ctx context.Context, scopeID string) error {
	return w.run(ctx, scopeID, false)
}

// Refresh re-runs the matching pass forcing the provider to bypass its
// cache, discarding the current queue.
func (w *Workflow) Refresh(ctx context.Context, scopeID string) error {
	return w.run(ctx, scopeID, true)
}

func (w *Workflow) run(ctx context.Context, scopeID string, forceRefresh bool) error {
	w.scopeID = scopeID
	w.runID = uuid.NewString()
	log := w.logger.WithFields(map[string]interface{}{
		"runId":   w.runID,
		"scopeId": scopeID,
	})

	w.state = StateFetching
	candidates, err := w.provider.FetchAll(ctx, scopeID, forceRefresh)
	if err != nil {
		w.reset()
		metrics.MatchingRuns.WithLabelValues("fetch_failed").Inc()
		log.WithError(err).Error("directory fetch failed, run aborted", nil)
		if apperrors.IsProviderError(err) {
			return err
		}
		return apperrors.NewDirectoryFetchFailedError(err)
	}

	locals, err := w.store.ListUnlinked(ctx, scopeID)
	if err != nil {
		w.reset()
		metrics.MatchingRuns.WithLabelValues("store_failed").Inc()
		log.WithError(err).Error("unlinked record listing failed, run aborted", nil)
		return apperrors.NewStoreQueryFailedError(err)
	}

	w.state = StateMatching
	results := w.selector.Select(locals, candidates)

	w.perfect = w.perfect[:0]
	w.review = w.review[:0]
	for _, mc := range results {
		metrics.MatchCandidates.WithLabelValues(mc.Tier.String()).Inc()
		if mc.IsPerfectMatch() {
			w.perfect = append(w.perfect, mc)
		} else {
			w.review = append(w.review, mc)
		}
	}
	w.cursor = 0

	metrics.MatchingRuns.WithLabelValues("completed").Inc()
	log.Info("matching run completed", map[string]interface{}{
		"directorySize": len(candidates),
		"localRecords":  len(locals),
		"perfect":       len(w.perfect),
		"review":        len(w.review),
	})

	switch {
	case len(w.perfect) > 0:
		w.state = StatePerfectSummary
	case len(w.review) > 0:
		w.state = StateReviewQueue
	default:
		w.state = StateIdle
	}
	return nil
}

// PerfectMatches returns the bulk-approval bucket.
func (w *Workflow) PerfectMatches() []models.MatchCandidate { return w.perfect }

// ReviewQueue returns the step-through bucket.
func (w *Workflow) ReviewQueue() []models.MatchCandidate { return w.review }

// ApproveAllPerfect persists every perfect candidate's external id in one
// pass. Items whose write fails stay in the bucket; the first failure is
// returned after the pass finishes. Only valid in the perfect summary.
func (w *Workflow) ApproveAllPerfect(ctx context.Context) error {
	if w.state != StatePerfectSummary {
		return apperrors.NewWorkflowStateError("approve_all_perfect", string(w.state))
	}

	var firstErr error
	remaining := w.perfect[:0]
	for _, mc := range w.perfect {
		if err := w.persist(ctx, mc, "bulk"); err != nil {
			remaining = append(remaining, mc)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
	}
	w.perfect = remaining

	w.advanceAfterPerfect()
	return firstErr
}

// ReviewManually merges the perfect bucket into the front of the review
// queue and enters step-through mode.
func (w *Workflow) ReviewManually() {
	if len(w.perfect) > 0 {
		w.review = append(append([]models.MatchCandidate{}, w.perfect...), w.review...)
		w.perfect = nil
	}
	w.cursor = 0
	w.advanceAfterPerfect()
}

func (w *Workflow) advanceAfterPerfect() {
	switch {
	case len(w.perfect) > 0:
		w.state = StatePerfectSummary
	case len(w.review) > 0:
		w.state = StateReviewQueue
	default:
		w.state = StateIdle
	}
}

// Current returns the review item under the cursor, or nil when the queue
// is empty.
func (w *Workflow) Current() *models.MatchCandidate {
	if len(w.review) == 0 {
		return nil
	}
	return &w.review[w.cursor]
}

// Next moves the cursor forward without mutating the queue.
func (w *Workflow) Next() {
	if w.cursor < len(w.review)-1 {
		w.cursor++
	}
}

// Previous moves the cursor back without mutating the queue.
func (w *Workflow) Previous() {
	if w.cursor > 0 {
		w.cursor--
	}
}

// Skip steps past the current item without acting on it.
func (w *Workflow) Skip() { w.Next() }

// Approve persists the current item's chosen external id and removes it
// from the queue. A persistence failure leaves the item and the cursor
// untouched. Only valid while the review queue is open.
func (w *Workflow) Approve(ctx context.Context) error {
	if w.state != StateReviewQueue {
		return apperrors.NewWorkflowStateError("approve", string(w.state))
	}

	current := w.Current()
	if current == nil {
		return nil
	}
	if current.Candidate == nil {
		return apperrors.NewInvalidLocalRecordError("no chosen candidate to approve")
	}

	if err := w.persist(ctx, *current, "manual"); err != nil {
		return err
	}

	w.review = append(w.review[:w.cursor], w.review[w.cursor+1:]...)
	if w.cursor >= len(w.review) && w.cursor > 0 {
		w.cursor = len(w.review) - 1
	}
	if len(w.review) == 0 && len(w.perfect) == 0 {
		w.state = StateIdle
	}
	return nil
}

func (w *Workflow) persist(ctx context.Context, mc models.MatchCandidate, mode string) error {
	if mc.Candidate == nil {
		return apperrors.NewInvalidLocalRecordError("no chosen candidate to approve")
	}
	if err := w.store.PersistLink(ctx, mc.Local.ID, mc.Candidate.ID); err != nil {
		w.logger.WithError(err).Error("link persistence failed", map[string]interface{}{
			"runId":      w.runID,
			"localId":    mc.Local.ID,
			"externalId": mc.Candidate.ID,
		})
		if apperrors.IsPersistenceError(err) {
			return err
		}
		return apperrors.NewLinkPersistFailedError(mc.Local.ID, err)
	}

	metrics.LinksApproved.WithLabelValues(mode).Inc()
	w.logger.Info("link approved", map[string]interface{}{
		"runId":      w.runID,
		"localId":    mc.Local.ID,
		"externalId": mc.Candidate.ID,
		"mode":       mode,
	})
	return nil
}

func (w *Workflow) reset() {
	w.state = StateIdle
	w.perfect = nil
	w.review = nil
	w.cursor = 0
}
