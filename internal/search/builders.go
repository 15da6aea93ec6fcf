package search

import (
	"sort"
	"strings"
)

const (
	IndexPrograms = "programs"
	IndexJobs     = "jobs"

	defaultSize = 20
	maxSize     = 100
)

// Request is a catalogue search. Index is the logical name, not the
// physical Elasticsearch index.
type Request struct {
	Index   string
	Query   string
	Filters map[string]interface{}
	From    int
	Size    int
}

func (r Request) page() (int, int) {
	from, size := r.From, r.Size
	if from < 0 {
		from = 0
	}
	if size < 1 {
		size = defaultSize
	}
	if size > maxSize {
		size = maxSize
	}
	return from, size
}

// filterFields maps accepted filter keys to document fields per index.
var filterFields = map[string]map[string]string{
	IndexPrograms: {
		"institutionId":   "institutionId",
		"faculty":         "faculty",
		"requiredSubject": "requirements.requiredSubjects",
	},
	IndexJobs: {
		"companyId": "companyId",
		"degree":    "requirements.degree",
		"skill":     "requirements.skills",
		"location":  "requirements.location",
		"status":    "status",
	},
}

var searchFields = map[string][]string{
	IndexPrograms: {"name^3", "faculty^2", "requirements.requiredSubjects"},
	IndexJobs:     {"title^3", "requirements.skills^2", "requirements.degree"},
}

// BuildQuery renders the bool query for req. Unknown filter keys are ignored.
func BuildQuery(req Request) map[string]interface{} {
	must := []interface{}{}
	filter := []interface{}{}

	if q := strings.TrimSpace(req.Query); q != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  q,
				"fields": searchFields[req.Index],
				"type":   "best_fields",
			},
		})
	} else {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	fields := filterFields[req.Index]
	for _, key := range sortedKeys(req.Filters) {
		field, ok := fields[key]
		if !ok {
			continue
		}
		switch v := req.Filters[key].(type) {
		case string:
			if v == "" {
				continue
			}
			filter = append(filter, map[string]interface{}{
				"term": map[string]interface{}{field: v},
			})
		case []interface{}:
			if len(v) == 0 {
				continue
			}
			filter = append(filter, map[string]interface{}{
				"terms": map[string]interface{}{field: v},
			})
		}
	}

	if req.Index == IndexJobs {
		if _, ok := req.Filters["status"]; !ok {
			filter = append(filter, map[string]interface{}{
				"term": map[string]interface{}{"status": "open"},
			})
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   must,
				"filter": filter,
			},
		},
	}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
