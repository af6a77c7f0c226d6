package directory

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/riskpilot/internal/model"
)

// Resolution is the outcome of a successful symbol lookup.
type Resolution struct {
	Symbol      string
	MatchedName string
	Match       model.MatchKind
}

// Resolve maps a free-text company name to a ticker. Exact case-insensitive
// matches win; otherwise the first table entry that contains the name, or
// is contained by it, is used and tagged as a substring match. Blank input
// never matches.
func (d *Directory) Resolve(name string) (Resolution, error) {
	q := fold(name)
	if q == "" {
		return Resolution{Match: model.MatchNone}, eris.Wrap(model.ErrCompanyNotFound, "directory: resolve blank name")
	}

	for i, key := range d.folded {
		if key == q {
			c := d.companies[i]
			return Resolution{Symbol: c.Symbol, MatchedName: c.Name, Match: model.MatchExact}, nil
		}
	}

	for i, key := range d.folded {
		if strings.Contains(key, q) || strings.Contains(q, key) {
			c := d.companies[i]
			return Resolution{Symbol: c.Symbol, MatchedName: c.Name, Match: model.MatchSubstring}, nil
		}
	}

	return Resolution{Match: model.MatchNone}, eris.Wrapf(model.ErrCompanyNotFound, "directory: resolve %q", name)
}

// Classify returns the tier whose membership list holds name exactly
// (case-insensitive), or TierUnknown.
func (d *Directory) Classify(name string) model.Tier {
	if tier, ok := d.tierOf[fold(name)]; ok {
		return tier
	}
	return model.TierUnknown
}

// Identify resolves and classifies name in one step.
func (d *Directory) Identify(name string) (model.CompanyIdentity, error) {
	id := model.CompanyIdentity{
		RawName: name,
		Tier:    d.Classify(name),
		Match:   model.MatchNone,
	}
	res, err := d.Resolve(name)
	if err != nil {
		return id, err
	}
	id.Symbol = res.Symbol
	id.MatchedName = res.MatchedName
	id.Match = res.Match
	if id.Tier == model.TierUnknown {
		id.Tier = d.Classify(res.MatchedName)
	}
	return id, nil
}
