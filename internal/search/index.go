// Package search provides an in-memory fuzzy company index used when the
// market provider's search endpoint is unavailable or returns nothing.
package search

import (
	"strconv"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/rotisserie/eris"

	"github.com/sells-group/riskpilot/internal/directory"
)

// Hit is one matching company.
type Hit struct {
	Name   string
	Symbol string
	Score  float64
}

type doc struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Index is a read-only bleve index over the directory's companies. Bleve
// indexes are safe for concurrent searches.
type Index struct {
	index     bleve.Index
	companies []directory.Company
}

// NewIndex builds an in-memory index of companies.
func NewIndex(companies []directory.Company) (*Index, error) {
	idx, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, eris.Wrap(err, "search: create index")
	}

	batch := idx.NewBatch()
	for i, c := range companies {
		if err := batch.Index(strconv.Itoa(i), doc{Name: c.Name, Symbol: c.Symbol}); err != nil {
			return nil, eris.Wrapf(err, "search: index %s", c.Name)
		}
	}
	if err := idx.Batch(batch); err != nil {
		return nil, eris.Wrap(err, "search: commit batch")
	}

	return &Index{index: idx, companies: companies}, nil
}

func buildMapping() mapping.IndexMapping {
	m := bleve.NewIndexMapping()
	dm := bleve.NewDocumentMapping()

	name := bleve.NewTextFieldMapping()
	name.Store = true
	dm.AddFieldMappingsAt("name", name)

	symbol := bleve.NewTextFieldMapping()
	symbol.Store = true
	dm.AddFieldMappingsAt("symbol", symbol)

	m.DefaultMapping = dm
	return m
}

// Search returns companies whose name fuzzily matches every term of q, or
// whose symbol equals q, best first.
func (x *Index) Search(q string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = 5
	}

	nameQ := bleve.NewMatchQuery(q)
	nameQ.SetField("name")
	nameQ.SetFuzziness(1)
	nameQ.SetOperator(query.MatchQueryOperatorAnd)

	symbolQ := bleve.NewMatchQuery(q)
	symbolQ.SetField("symbol")
	symbolQ.SetBoost(2.0)

	req := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(nameQ, symbolQ))
	req.Size = limit

	res, err := x.index.Search(req)
	if err != nil {
		return nil, eris.Wrap(err, "search: query")
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		i, err := strconv.Atoi(h.ID)
		if err != nil || i < 0 || i >= len(x.companies) {
			continue
		}
		c := x.companies[i]
		hits = append(hits, Hit{Name: c.Name, Symbol: c.Symbol, Score: h.Score})
	}
	return hits, nil
}

// Close releases the index.
func (x *Index) Close() error {
	return x.index.Close()
}
