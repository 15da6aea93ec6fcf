// Package search queries the program and job catalogue indexed in
// Elasticsearch.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"careerguide-workers/internal/common/config"
	"careerguide-workers/internal/common/errors"
	"careerguide-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
)

var (
	ErrUnknownIndex  = stderrors.New("unknown catalogue index")
	ErrIndexNotFound = stderrors.New("index not found")
	ErrSearchFailed  = stderrors.New("search failed")
	ErrTransport     = stderrors.New("elasticsearch unreachable")
)

type Hit struct {
	ID     string                 `json:"id"`
	Score  float64                `json:"score"`
	Source map[string]interface{} `json:"source"`
}

type Result struct {
	Hits     []Hit   `json:"hits"`
	Total    int64   `json:"total"`
	MaxScore float64 `json:"maxScore"`
	Took     int64   `json:"took"`
}

type Catalog struct {
	es      *elasticsearch.Client
	indices map[string]string
}

func NewCatalog(es *elasticsearch.Client, cfg config.ElasticsearchConfig) *Catalog {
	return &Catalog{
		es: es,
		indices: map[string]string{
			IndexPrograms: orDefault(cfg.ProgramIndex, "programs"),
			IndexJobs:     orDefault(cfg.JobIndex, "jobs"),
		},
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

type searchResponse struct {
	Took int64 `json:"took"`
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		MaxScore *float64 `json:"max_score"`
		Hits     []struct {
			ID     string          `json:"_id"`
			Score  *float64        `json:"_score"`
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (c *Catalog) search(ctx context.Context, req Request) (*searchResponse, error) {
	index, ok := c.indices[req.Index]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownIndex, req.Index)
	}

	body, err := json.Marshal(BuildQuery(req))
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}
	from, size := req.page()

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(index),
		c.es.Search.WithBody(bytes.NewReader(body)),
		c.es.Search.WithFrom(from),
		c.es.Search.WithSize(size),
		c.es.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, index)
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrSearchFailed, res.String())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrSearchFailed, err)
	}
	return &parsed, nil
}

// Search runs req and returns raw document sources.
func (c *Catalog) Search(ctx context.Context, req Request) (*Result, error) {
	parsed, err := c.search(ctx, req)
	if err != nil {
		return nil, err
	}

	out := &Result{
		Hits:  make([]Hit, 0, len(parsed.Hits.Hits)),
		Total: parsed.Hits.Total.Value,
		Took:  parsed.Took,
	}
	if parsed.Hits.MaxScore != nil {
		out.MaxScore = *parsed.Hits.MaxScore
	}
	for _, h := range parsed.Hits.Hits {
		hit := Hit{ID: h.ID}
		if h.Score != nil {
			hit.Score = *h.Score
		}
		if err := json.Unmarshal(h.Source, &hit.Source); err != nil {
			return nil, fmt.Errorf("%w: decode hit %s: %v", ErrSearchFailed, h.ID, err)
		}
		out.Hits = append(out.Hits, hit)
	}
	return out, nil
}

// OpenJobs returns open postings decoded as jobs. A document without an id
// field takes the Elasticsearch _id.
func (c *Catalog) OpenJobs(ctx context.Context, query string, size int) ([]models.Job, error) {
	parsed, err := c.search(ctx, Request{Index: IndexJobs, Query: query, Size: size})
	if err != nil {
		return nil, err
	}

	jobs := make([]models.Job, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		var j models.Job
		if err := json.Unmarshal(h.Source, &j); err != nil {
			return nil, fmt.Errorf("%w: decode job %s: %v", ErrSearchFailed, h.ID, err)
		}
		if j.ID == "" {
			j.ID = h.ID
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

// Classify turns a catalogue error into the StandardError a worker reports.
func Classify(err error) *errors.StandardError {
	if se, ok := errors.AsStandardError(err); ok {
		return se
	}
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.ErrCodeSearchTimeout, "catalogue search timed out", err)
	case stderrors.Is(err, ErrUnknownIndex):
		return errors.Wrap(errors.ErrCodeInvalidInput, "unknown catalogue index", err)
	case stderrors.Is(err, ErrIndexNotFound):
		return errors.Wrap(errors.ErrCodeIndexNotFound, "catalogue index missing", err)
	case stderrors.Is(err, ErrTransport):
		return errors.Wrap(errors.ErrCodeElasticsearchConnectionFailed, "elasticsearch unreachable", err)
	}
	return errors.Wrap(errors.ErrCodeSearchQueryFailed, "catalogue search failed", err)
}
