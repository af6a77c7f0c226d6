package model

import "github.com/rotisserie/eris"

var (
	// ErrCompanyNotFound means no symbol could be resolved for a name.
	ErrCompanyNotFound = eris.New("Company not found in our database")

	// ErrUpstreamUnavailable marks a market or generator failure. Fetchers
	// and estimators absorb it into their fallback results.
	ErrUpstreamUnavailable = eris.New("upstream unavailable")

	// ErrInvalidSuggestionFormat means generated suggestions failed schema
	// validation.
	ErrInvalidSuggestionFormat = eris.New("Invalid response format")

	// ErrInvalidScoreFormat means generated student scores failed
	// validation.
	ErrInvalidScoreFormat = eris.New("Invalid score format")

	// ErrOracleUnavailable means the risk model could not produce a
	// verdict.
	ErrOracleUnavailable = eris.New("risk model unavailable")
)
