package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/riskpilot/internal/directory"
	"github.com/sells-group/riskpilot/internal/model"
	"github.com/sells-group/riskpilot/pkg/yahoo"
)

type mockProvider struct{ mock.Mock }

func (m *mockProvider) Search(ctx context.Context, query string) ([]yahoo.SearchQuote, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]yahoo.SearchQuote), args.Error(1)
}

func newTestFinder(t *testing.T, p Provider) *Finder {
	t.Helper()
	dir, err := directory.Load("")
	require.NoError(t, err)
	return NewFinder(p, newTestIndex(t), dir, ".NS")
}

func TestFind_ProviderHit(t *testing.T) {
	p := new(mockProvider)
	p.On("Search", mock.Anything, "Infosys").Return([]yahoo.SearchQuote{
		{ShortName: "no symbol"},
		{Symbol: "INFY.NS", LongName: "Infosys Limited"},
	}, nil)

	id, err := newTestFinder(t, p).Find(context.Background(), " Infosys ")
	require.NoError(t, err)
	assert.Equal(t, "INFY.NS", id.Symbol)
	assert.Equal(t, "Infosys Limited", id.MatchedName)
	assert.Equal(t, model.MatchSearch, id.Match)
	assert.Equal(t, model.TierOne, id.Tier)
	assert.Equal(t, " Infosys ", id.RawName)
}

func TestFind_TierFromMatchedName(t *testing.T) {
	p := new(mockProvider)
	p.On("Search", mock.Anything, "persistent").Return([]yahoo.SearchQuote{
		{Symbol: "PERSISTENT.NS", LongName: "Persistent Systems"},
	}, nil)

	id, err := newTestFinder(t, p).Find(context.Background(), "persistent")
	require.NoError(t, err)
	assert.Equal(t, model.TierTwo, id.Tier)
}

func TestFind_FallsBackToLocalIndex(t *testing.T) {
	tests := []struct {
		name  string
		hits  []yahoo.SearchQuote
		err   error
		query string
		want  string
	}{
		{"provider error", nil, errors.New("yahoo: unexpected status 429"), "Mphasys", "MPHASIS.NS"},
		{"no provider hits", []yahoo.SearchQuote{}, nil, "tech mahindra", "TECHM.NS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := new(mockProvider)
			p.On("Search", mock.Anything, tt.query).Return(tt.hits, tt.err)

			id, err := newTestFinder(t, p).Find(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, id.Symbol)
			assert.Equal(t, model.MatchSearch, id.Match)
			assert.Equal(t, model.TierTwo, id.Tier)
		})
	}
}

func TestFind_NotFound(t *testing.T) {
	p := new(mockProvider)
	p.On("Search", mock.Anything, "Zzyxx Corp").Return([]yahoo.SearchQuote{}, nil)

	id, err := newTestFinder(t, p).Find(context.Background(), "Zzyxx Corp")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrCompanyNotFound)
	assert.Empty(t, id.Symbol)
	assert.Equal(t, model.MatchNone, id.Match)
}

func TestFind_Blank(t *testing.T) {
	p := new(mockProvider)
	_, err := newTestFinder(t, p).Find(context.Background(), "   ")
	assert.ErrorIs(t, err, model.ErrCompanyNotFound)
	p.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestFind_NoProviderNoIndex(t *testing.T) {
	_, err := NewFinder(nil, nil, nil, "").Find(context.Background(), "Infosys")
	assert.ErrorIs(t, err, model.ErrCompanyNotFound)
}
