package search

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/riskpilot/internal/model"
	"github.com/sells-group/riskpilot/pkg/yahoo"
)

// Provider is a remote company search.
type Provider interface {
	Search(ctx context.Context, query string) ([]yahoo.SearchQuote, error)
}

// Classifier assigns tiers to company names.
type Classifier interface {
	Classify(name string) model.Tier
}

// Finder resolves investor-entered company names: the remote provider
// first, then the local index when the provider fails or finds nothing.
type Finder struct {
	provider Provider
	index    *Index
	tiers    Classifier
	suffix   string
}

// NewFinder creates a Finder. Symbols found in the local index get suffix
// appended so they name the same listing the provider would.
func NewFinder(provider Provider, index *Index, tiers Classifier, suffix string) *Finder {
	return &Finder{provider: provider, index: index, tiers: tiers, suffix: suffix}
}

// Find returns the identity of the best match for name, or
// model.ErrCompanyNotFound.
func (f *Finder) Find(ctx context.Context, name string) (model.CompanyIdentity, error) {
	id := model.CompanyIdentity{RawName: name, Tier: model.TierUnknown, Match: model.MatchNone}
	q := strings.TrimSpace(name)
	if q == "" {
		return id, eris.Wrap(model.ErrCompanyNotFound, "search: blank company name")
	}
	if f.tiers != nil {
		id.Tier = f.tiers.Classify(q)
	}

	symbol, matched, ok := f.remote(ctx, q)
	if !ok {
		symbol, matched, ok = f.local(q)
	}
	if !ok {
		return id, eris.Wrapf(model.ErrCompanyNotFound, "search: %q", name)
	}

	id.Symbol = symbol
	id.MatchedName = matched
	id.Match = model.MatchSearch
	if id.Tier == model.TierUnknown && f.tiers != nil && matched != "" {
		id.Tier = f.tiers.Classify(matched)
	}
	return id, nil
}

func (f *Finder) remote(ctx context.Context, q string) (string, string, bool) {
	if f.provider == nil {
		return "", "", false
	}
	hits, err := f.provider.Search(ctx, q)
	if err != nil {
		zap.L().Warn("search: provider search failed, using local index",
			zap.String("query", q),
			zap.Error(err),
		)
		return "", "", false
	}
	for _, h := range hits {
		if h.Symbol != "" {
			return h.Symbol, h.Name(), true
		}
	}
	return "", "", false
}

func (f *Finder) local(q string) (string, string, bool) {
	if f.index == nil {
		return "", "", false
	}
	hits, err := f.index.Search(q, 1)
	if err != nil {
		zap.L().Warn("search: local index failed", zap.String("query", q), zap.Error(err))
		return "", "", false
	}
	if len(hits) == 0 {
		return "", "", false
	}
	symbol := hits[0].Symbol
	if f.suffix != "" && !strings.Contains(symbol, ".") {
		symbol += f.suffix
	}
	return symbol, hits[0].Name, true
}
