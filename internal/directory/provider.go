// internal/directory/provider.go

// Package directory implements the directory-provider collaborator: a
// paginated HTTP people API fronted by a Redis snapshot cache.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xeipuuv/gojsonschema"

	"people-matcher/internal/common/config"
	apperrors "people-matcher/internal/common/errors"
	httpclient "people-matcher/internal/common/http"
	"people-matcher/internal/common/logger"
	"people-matcher/internal/common/metrics"
	"people-matcher/internal/models"
)

// personSchema validates each directory entry before it joins the snapshot.
// Entries that fail validation are skipped; the page continues.
const personSchema = `{
	"type": "object",
	"properties": {
		"id": {"type": "string", "minLength": 1},
		"name": {"type": "string"},
		"emails": {"type": "array", "items": {"type": "string"}},
		"phones": {"type": "array", "items": {"type": "string"}},
		"status": {"type": "string"}
	},
	"required": ["id", "name"]
}`

type pageResponse struct {
	People     []json.RawMessage `json:"people"`
	TotalPages int               `json:"totalPages"`
}

type Provider struct {
	cfg    config.DirectoryConfig
	client *httpclient.Client
	cache  *redis.Client
	schema *gojsonschema.Schema
	logger logger.Logger
}

func NewProvider(cfg config.DirectoryConfig, cache *redis.Client, log logger.Logger) (*Provider, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(personSchema))
	if err != nil {
		return nil, fmt.Errorf("compile person schema: %w", err)
	}
	return &Provider{
		cfg:    cfg,
		client: httpclient.NewClient(cfg.RequestTimeout).WithBearerToken(cfg.APIToken),
		cache:  cache,
		schema: schema,
		logger: log,
	}, nil
}

func cacheKey(scopeID string) string {
	return "directory:people:" + scopeID
}

// FetchAll returns the full candidate directory for a scope. The cached
// snapshot is served unless forceRefresh is set or the cache misses; cache
// failures degrade to a live fetch. Any page failure aborts with a provider
// error and no partial list.
func (p *Provider) FetchAll(ctx context.Context, scopeID string, forceRefresh bool) ([]models.CandidateRecord, error) {
	start := time.Now()

	if !forceRefresh && p.cache != nil {
		if cached, err := p.cache.Get(ctx, cacheKey(scopeID)).Result(); err == nil {
			var people []models.CandidateRecord
			if err := json.Unmarshal([]byte(cached), &people); err == nil {
				metrics.DirectoryFetchDuration.WithLabelValues("hit").Observe(time.Since(start).Seconds())
				p.logger.Debug("directory served from cache", map[string]interface{}{
					"scopeId": scopeID,
					"count":   len(people),
				})
				return people, nil
			}
			// Unreadable snapshot falls through to a live fetch.
			p.cache.Del(ctx, cacheKey(scopeID))
		}
	}

	people, err := p.fetchPages(ctx, scopeID)
	if err != nil {
		return nil, err
	}
	metrics.DirectoryFetchDuration.WithLabelValues("miss").Observe(time.Since(start).Seconds())

	if p.cache != nil {
		if data, err := json.Marshal(people); err == nil {
			if err := p.cache.Set(ctx, cacheKey(scopeID), data, p.cfg.CacheTTL).Err(); err != nil {
				p.logger.Warn("directory cache write failed", map[string]interface{}{
					"scopeId": scopeID,
					"error":   err.Error(),
				})
			}
		}
	}

	return people, nil
}

func (p *Provider) fetchPages(ctx context.Context, scopeID string) ([]models.CandidateRecord, error) {
	var people []models.CandidateRecord

	totalPages := 1
	for page := 1; page <= totalPages; page++ {
		if page > p.cfg.MaxPages {
			return nil, apperrors.NewDirectoryFetchFailedError(
				fmt.Errorf("directory exceeds %d pages", p.cfg.MaxPages))
		}

		url := fmt.Sprintf("%s/scopes/%s/people?page=%d&per_page=%d",
			p.cfg.BaseURL, scopeID, page, p.cfg.PageSize)

		var resp pageResponse
		if _, err := p.client.GetJSON(ctx, url, &resp); err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, apperrors.NewDirectoryTimeoutError(err)
			}
			return nil, apperrors.NewDirectoryPageFailedError(page, err)
		}

		if resp.TotalPages > totalPages {
			totalPages = resp.TotalPages
		}

		for _, raw := range resp.People {
			candidate, err := p.decodePerson(raw)
			if err != nil {
				p.logger.Warn("skipping invalid directory entry", map[string]interface{}{
					"scopeId": scopeID,
					"page":    page,
					"error":   err.Error(),
				})
				continue
			}
			people = append(people, candidate)
		}
	}

	p.logger.Info("directory fetched", map[string]interface{}{
		"scopeId": scopeID,
		"pages":   totalPages,
		"count":   len(people),
	})
	return people, nil
}

func (p *Provider) decodePerson(raw json.RawMessage) (models.CandidateRecord, error) {
	result, err := p.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return models.CandidateRecord{}, apperrors.NewInvalidCandidateRecordError(err.Error())
	}
	if !result.Valid() {
		details := ""
		for _, desc := range result.Errors() {
			if details != "" {
				details += "; "
			}
			details += desc.String()
		}
		return models.CandidateRecord{}, apperrors.NewInvalidCandidateRecordError(details)
	}

	var candidate models.CandidateRecord
	if err := json.Unmarshal(raw, &candidate); err != nil {
		return models.CandidateRecord{}, apperrors.NewInvalidCandidateRecordError(err.Error())
	}
	return candidate, nil
}
