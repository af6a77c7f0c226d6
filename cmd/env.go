package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/riskpilot/internal/assemble"
	"github.com/sells-group/riskpilot/internal/config"
	"github.com/sells-group/riskpilot/internal/cost"
	"github.com/sells-group/riskpilot/internal/directory"
	"github.com/sells-group/riskpilot/internal/estimate"
	"github.com/sells-group/riskpilot/internal/llm"
	"github.com/sells-group/riskpilot/internal/market"
	"github.com/sells-group/riskpilot/internal/oracle"
	"github.com/sells-group/riskpilot/internal/pipeline"
	"github.com/sells-group/riskpilot/internal/resilience"
	"github.com/sells-group/riskpilot/internal/search"
	"github.com/sells-group/riskpilot/internal/suggest"
	"github.com/sells-group/riskpilot/pkg/yahoo"
)

// pipelineEnv holds the clients and tables the serve and assess commands
// share.
type pipelineEnv struct {
	Directory *directory.Directory
	Finder    *search.Finder
	Templates *suggest.TemplateEngine
	Pipeline  *pipeline.Pipeline
}

func secs(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// initPipeline builds every client from cfg and wires the pipeline.
func initPipeline(ctx context.Context, mode string) (*pipelineEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	dir, err := directory.Load(cfg.Directory.Path)
	if err != nil {
		return nil, eris.Wrap(err, "load directory")
	}
	templates, err := suggest.NewTemplateEngine()
	if err != nil {
		return nil, eris.Wrap(err, "load suggestion templates")
	}

	marketLimiter := llm.NewLimiter(cfg.Market.RequestsPerSecond)
	yahooClient := yahoo.NewClient(
		yahoo.WithBaseURL(cfg.Market.BaseURL),
		yahoo.WithSearchBaseURL(cfg.Market.SearchBaseURL),
		yahoo.WithLimiter(marketLimiter),
		yahoo.WithPolicy(resilience.PolicyFromConfig("yahoo", secs(cfg.Market.TimeoutSecs), cfg.Retry, cfg.Circuit)),
	)
	fetcher := market.NewFetcher(yahooClient, market.NewFinanceSource(marketLimiter),
		market.WithExchangeSuffix(cfg.Market.ExchangeSuffix),
		market.WithTimeout(secs(cfg.Market.TimeoutSecs)),
		market.WithHistoryDays(cfg.Market.HistoryDays),
	)

	index, err := search.NewIndex(dir.Companies())
	if err != nil {
		return nil, eris.Wrap(err, "build company index")
	}
	finder := search.NewFinder(yahooClient, index, dir, cfg.Market.ExchangeSuffix)

	costs := cost.NewCalculator(cost.DefaultRates().Overlay(ratesFromConfig(cfg.Pricing)))
	llmLimiter := llm.NewLimiter(cfg.LLM.RequestsPerSecond)
	estimateGen, err := llm.New(ctx, cfg.LLM.EstimateProvider, cfg, llmLimiter, costs)
	if err != nil {
		return nil, eris.Wrap(err, "build estimate generator")
	}
	suggestGen := estimateGen
	if cfg.LLM.SuggestProvider != cfg.LLM.EstimateProvider {
		suggestGen, err = llm.New(ctx, cfg.LLM.SuggestProvider, cfg, llmLimiter, costs)
		if err != nil {
			return nil, eris.Wrap(err, "build suggest generator")
		}
	}

	oracleClient := oracle.NewClient(cfg.Oracle.BaseURL,
		oracle.WithPath(oracle.Employee, cfg.Oracle.EmployeePath),
		oracle.WithPath(oracle.Investor, cfg.Oracle.InvestorPath),
		oracle.WithPath(oracle.Student, cfg.Oracle.StudentPath),
		oracle.WithPolicy(resilience.PolicyFromConfig("oracle", secs(cfg.Oracle.TimeoutSecs), cfg.Retry, cfg.Circuit)),
	)

	p := pipeline.New(pipeline.Deps{
		Resolver:    dir,
		Finder:      finder,
		Market:      fetcher,
		Estimator:   estimate.NewEstimator(estimateGen),
		Scorer:      estimate.NewStudentScorer(suggestGen),
		Assembler:   assemble.New(dir),
		Oracle:      oracleClient,
		Suggester:   suggest.New(suggestGen, cfg.Suggest.MaxAttempts),
		Templates:   templates,
		SuggestMode: cfg.Suggest.Mode,
	})

	zap.L().Info("pipeline ready",
		zap.String("estimate_provider", cfg.LLM.EstimateProvider),
		zap.String("suggest_provider", cfg.LLM.SuggestProvider),
		zap.String("suggest_mode", cfg.Suggest.Mode),
		zap.Int("companies", len(dir.Companies())),
	)

	return &pipelineEnv{Directory: dir, Finder: finder, Templates: templates, Pipeline: p}, nil
}

func ratesFromConfig(p config.PricingConfig) cost.Rates {
	conv := func(in map[string]config.ModelPricing) map[string]cost.ModelRate {
		out := make(map[string]cost.ModelRate, len(in))
		for k, v := range in {
			out[k] = cost.ModelRate{Input: v.Input, Output: v.Output}
		}
		return out
	}
	return cost.Rates{
		Anthropic:  conv(p.Anthropic),
		Gemini:     conv(p.Gemini),
		Perplexity: cost.PerplexityRate{PerQuery: p.Perplexity.PerQuery},
	}
}
