package history

import (
	"context"
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"

	"reckon/internal/engine"
)

// SearchResult is one full-text hit over recorded calculations.
type SearchResult struct {
	ID         string
	Score      float64
	Expression string
}

// SearchIndex provides full-text search over the expressions and
// reasoning of recorded calculations. Implements engine.Recorder so it
// can sit next to the sqlite store as a second sink.
type SearchIndex struct {
	index bleve.Index
}

// NewSearchIndex creates or opens a persistent index at path.
func NewSearchIndex(path string) (*SearchIndex, error) {
	index, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		index, err = bleve.New(path, buildIndexMapping())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open search index: %w", err)
	}
	return &SearchIndex{index: index}, nil
}

// NewMemSearchIndex creates an in-memory index. Used in tests and when
// no data directory is configured.
func NewMemSearchIndex() (*SearchIndex, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory search index: %w", err)
	}
	return &SearchIndex{index: index}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()

	calcMapping := bleve.NewDocumentMapping()

	idField := bleve.NewTextFieldMapping()
	idField.Analyzer = keyword.Name
	idField.Store = true
	idField.Index = true
	calcMapping.AddFieldMappingsAt("id", idField)

	expressionField := bleve.NewTextFieldMapping()
	expressionField.Analyzer = standard.Name
	expressionField.Store = true
	expressionField.Index = true
	calcMapping.AddFieldMappingsAt("expression", expressionField)

	reasoningField := bleve.NewTextFieldMapping()
	reasoningField.Analyzer = standard.Name
	reasoningField.Store = false
	reasoningField.Index = true
	calcMapping.AddFieldMappingsAt("reasoning", reasoningField)

	indexMapping.DefaultMapping = calcMapping

	return indexMapping
}

// Record implements engine.Recorder by indexing the calculation.
func (s *SearchIndex) Record(_ context.Context, result engine.CalculationResult) error {
	doc := map[string]interface{}{
		"id":         result.ID,
		"expression": result.Expression,
		"reasoning":  result.Reasoning,
	}
	if err := s.index.Index(result.ID, doc); err != nil {
		return fmt.Errorf("failed to index calculation: %w", err)
	}
	return nil
}

// Search returns the top k matches for a free-text query over
// expressions and reasoning.
func (s *SearchIndex) Search(query string, k int) ([]SearchResult, error) {
	q := bleve.NewMatchQuery(query)

	searchRequest := bleve.NewSearchRequest(q)
	searchRequest.Size = k
	searchRequest.Fields = []string{"expression"}

	searchResult, err := s.index.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]SearchResult, 0, len(searchResult.Hits))
	for _, hit := range searchResult.Hits {
		result := SearchResult{
			ID:    hit.ID,
			Score: hit.Score,
		}
		if expression, ok := hit.Fields["expression"].(string); ok {
			result.Expression = expression
		}
		results = append(results, result)
	}

	return results, nil
}

// Close closes the index.
func (s *SearchIndex) Close() error {
	return s.index.Close()
}
