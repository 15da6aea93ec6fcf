package searchcatalog

import "careerguide-workers/internal/search"

type Input struct {
	Index   string                 `json:"index"`
	Query   string                 `json:"query"`
	Filters map[string]interface{} `json:"filters"`
	From    int                    `json:"from"`
	Size    int                    `json:"size"`
}

type Output struct {
	Hits     []search.Hit `json:"hits"`
	Total    int64        `json:"total"`
	MaxScore float64      `json:"maxScore"`
	Took     int64        `json:"took"` // milliseconds, as reported by Elasticsearch
}
