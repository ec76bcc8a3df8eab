package calculation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"github.com/rpgo/networth-projector/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// MonteCarloMode selects how each trial's market path is drawn
type MonteCarloMode string

const (
	// ModeScalar draws one portfolio-wide average return per trial and holds
	// it for every year
	ModeScalar MonteCarloMode = "scalar"
	// ModeScalarYearly draws a fresh portfolio-wide average return each year
	ModeScalarYearly MonteCarloMode = "scalar_yearly"
	// ModeAssetClass draws separate stock and bond returns per year
	ModeAssetClass MonteCarloMode = "asset_class"
	// ModeHistorical bootstraps stock and bond returns from historical years
	ModeHistorical MonteCarloMode = "historical"
)

// ErrInvalidMonteCarloConfig is returned for unusable Monte Carlo settings
var ErrInvalidMonteCarloConfig = errors.New("invalid monte carlo configuration")

// ProgressFunc receives the number of finished trials out of total
type ProgressFunc func(completed, total int)

// MonteCarloConfig holds configuration for one Monte Carlo batch
type MonteCarloConfig struct {
	NumSimulations int
	// VolatilityPct is the scalar modes' standard deviation in percent. Zero
	// selects the 15% default; negative values are rejected.
	VolatilityPct  float64
	Mode           MonteCarloMode
	Seed           int64 // 0 picks a fresh seed
	Workers        int   // 0 uses GOMAXPROCS
	Progress       ProgressFunc
}

const defaultVolatilityPct = 15

// MonteCarloOrchestrator runs the projection engine over many sampled market paths
type MonteCarloOrchestrator struct {
	Engine     *ProjectionEngine
	Historical *HistoricalDataManager
	Logger     Logger
}

// NewMonteCarloOrchestrator creates an orchestrator around engine
func NewMonteCarloOrchestrator(engine *ProjectionEngine, historical *HistoricalDataManager) *MonteCarloOrchestrator {
	if engine == nil {
		engine = NewProjectionEngine()
	}
	return &MonteCarloOrchestrator{Engine: engine, Historical: historical, Logger: engine.Logger}
}

// SetLogger sets the logger. If nil is provided, a no-op logger is used.
func (mc *MonteCarloOrchestrator) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	mc.Logger = l
}

// trialResult is the raw outcome of one trial, kept until aggregation
type trialResult struct {
	done     bool
	failed   bool
	terminal decimal.Decimal
	path     []decimal.Decimal
}

// pathGenerator draws one full market path for a trial
type pathGenerator func(rng *rand.Rand, years int) (MarketPath, error)

func (mc *MonteCarloOrchestrator) generator(plan *domain.Plan, cfg MonteCarloConfig) (pathGenerator, error) {
	sampler := SamplerFor(plan)
	mean := pct(plan.AverageReturnPct).InexactFloat64()
	sd := cfg.scalarStdDev()
	switch cfg.Mode {
	case ModeScalar, "":
		return func(rng *rand.Rand, _ int) (MarketPath, error) {
			return ConstantReturn{Rate: decimal.NewFromFloat(sampler.Sample(rng, mean, sd)).Round(6)}, nil
		}, nil

	case ModeScalarYearly:
		return func(rng *rand.Rand, years int) (MarketPath, error) {
			path := make(SampledPath, years)
			for y := range path {
				path[y] = YearReturns{Average: decimal.NewFromFloat(sampler.Sample(rng, mean, sd)).Round(6)}
			}
			return path, nil
		}, nil

	case ModeAssetClass:
		ac := RecenteredMeans(plan)
		sm, ss := ac.StockMean.InexactFloat64(), ac.StockStdDev.InexactFloat64()
		bm, bs := ac.BondMean.InexactFloat64(), ac.BondStdDev.InexactFloat64()
		return func(rng *rand.Rand, years int) (MarketPath, error) {
			path := make(SampledPath, years)
			for y := range path {
				stocks := decimal.NewFromFloat(sampler.Sample(rng, sm, ss)).Round(6)
				bonds := decimal.NewFromFloat(sampler.Sample(rng, bm, bs)).Round(6)
				path[y] = classYear(stocks, bonds)
			}
			return path, nil
		}, nil

	case ModeHistorical:
		if mc.Historical == nil || !mc.Historical.IsLoaded {
			return nil, fmt.Errorf("%w: historical mode needs loaded data: %w", ErrInvalidMonteCarloConfig, ErrHistoricalNotLoaded)
		}
		return func(rng *rand.Rand, years int) (MarketPath, error) {
			path := make(SampledPath, years)
			for y := range path {
				hy, err := mc.Historical.RandomYear(rng)
				if err != nil {
					return nil, err
				}
				path[y] = classYear(hy.Stocks, hy.Bonds)
			}
			return path, nil
		}, nil
	}
	return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidMonteCarloConfig, cfg.Mode)
}

func (cfg MonteCarloConfig) scalarStdDev() float64 {
	if cfg.VolatilityPct == 0 {
		return defaultVolatilityPct / 100.0
	}
	return cfg.VolatilityPct / 100
}

func classYear(stocks, bonds decimal.Decimal) YearReturns {
	return YearReturns{
		Average: baseStockWeight.Mul(stocks).Add(baseBondWeight.Mul(bonds)),
		Stocks:  stocks,
		Bonds:   bonds,
		ByClass: true,
	}
}

// RunMonteCarlo runs NumSimulations independent projections of plan. Each
// trial draws its whole market path up front from its own seeded source, so
// results do not depend on scheduling. Cancelling ctx stops dispatch; the
// summary then covers only trials that finished and reports Cancelled.
func (mc *MonteCarloOrchestrator) RunMonteCarlo(ctx context.Context, plan *domain.Plan, cfg MonteCarloConfig) (*domain.MonteCarloSummary, error) {
	if plan == nil {
		return nil, ErrNilPlan
	}
	if cfg.NumSimulations <= 0 {
		return nil, fmt.Errorf("%w: num simulations must be positive, got %d", ErrInvalidMonteCarloConfig, cfg.NumSimulations)
	}
	if cfg.VolatilityPct < 0 || math.IsNaN(cfg.VolatilityPct) {
		return nil, fmt.Errorf("%w: volatility must not be negative, got %v", ErrInvalidMonteCarloConfig, cfg.VolatilityPct)
	}
	if cfg.Seed == 0 {
		cfg.Seed = seedFunc()
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeScalar
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	base := plan.Clone()
	gen, err := mc.generator(base, cfg)
	if err != nil {
		return nil, err
	}
	years := base.HorizonYears() + 1
	n := cfg.NumSimulations
	results := make([]trialResult, n)

	var mu sync.Mutex
	completed := 0
	step := n / 10
	if step < 1 {
		step = 1
	}
	report := func() {
		mu.Lock()
		defer mu.Unlock()
		completed++
		if cfg.Progress != nil && (completed%step == 0 || completed == n) {
			cfg.Progress(completed, n)
		}
	}

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		trial := i
		g.Go(func() error {
			results[trial] = mc.runTrial(ctx, base, gen, cfg.Seed+int64(trial), years, trial)
			if results[trial].done || results[trial].failed {
				report()
			}
			return nil
		})
	}
	_ = g.Wait()

	summary := aggregate(results, base.LegacyAmount, years)
	summary.RunID = uuid.NewString()
	summary.NumSimulations = n
	summary.Mode = string(cfg.Mode)
	summary.Cancelled = ctx.Err() != nil && summary.Completed+summary.FailedTrials < n
	mc.Logger.Infof("monte carlo %s: %d/%d trials, %d failed, success %s%%",
		summary.RunID, summary.Completed, n, summary.FailedTrials, summary.SuccessRate.StringFixed(2))
	return summary, nil
}

// runTrial runs one isolated trial; panics and errors mark it failed
func (mc *MonteCarloOrchestrator) runTrial(ctx context.Context, plan *domain.Plan, gen pathGenerator, seed int64, years, index int) (res trialResult) {
	defer func() {
		if r := recover(); r != nil {
			mc.Logger.Errorf("trial %d panicked: %v", index, r)
			res = trialResult{failed: true}
		}
	}()
	if ctx.Err() != nil {
		return trialResult{}
	}

	rng := rand.New(rand.NewSource(seed))
	path, err := gen(rng, years)
	if err != nil {
		mc.Logger.Errorf("trial %d: %v", index, err)
		return trialResult{failed: true}
	}
	result, err := mc.Engine.RunProjection(ctx, plan, path)
	if err != nil {
		if ctx.Err() != nil {
			return trialResult{}
		}
		mc.Logger.Errorf("trial %d: %v", index, err)
		return trialResult{failed: true}
	}

	nw := result.NetWorthPath()
	if len(nw) > 0 {
		nw[len(nw)-1] = result.TerminalEstate
	}
	return trialResult{done: true, terminal: result.TerminalEstate, path: nw}
}

// aggregate computes every summary statistic from the collected trials
func aggregate(results []trialResult, legacy decimal.Decimal, years int) *domain.MonteCarloSummary {
	target := nonNegative(legacy)
	summary := &domain.MonteCarloSummary{
		SuccessRate:  decimal.Zero,
		Outcomes:     []decimal.Decimal{},
		Percentiles:  make([]domain.PercentileBand, 0, years),
		RunoutByYear: make([]decimal.Decimal, 0, years),
	}

	var done []trialResult
	for _, r := range results {
		switch {
		case r.done:
			done = append(done, r)
		case r.failed:
			summary.FailedTrials++
		}
	}
	summary.Completed = len(done)
	if len(done) == 0 {
		return summary
	}

	successes := 0
	for _, r := range done {
		summary.Outcomes = append(summary.Outcomes, r.terminal)
		if r.terminal.GreaterThanOrEqual(target) {
			successes++
		}
	}
	total := decimal.NewFromInt(int64(len(done)))
	summary.SuccessRate = decimal.NewFromInt(int64(successes)).Mul(hundred).Div(total).Round(2)

	column := make([]decimal.Decimal, 0, len(done))
	for y := 0; y < years; y++ {
		column = column[:0]
		ruined := 0
		for _, r := range done {
			v := decimal.Zero
			if y < len(r.path) {
				v = r.path[y]
			}
			column = append(column, v)
			if v.LessThanOrEqual(decimal.Zero) {
				ruined++
			}
		}
		sortDecimals(column)
		summary.Percentiles = append(summary.Percentiles, domain.PercentileBand{
			Year: y,
			P10:  Percentile(column, 10),
			P50:  Percentile(column, 50),
			P90:  Percentile(column, 90),
		})
		summary.RunoutByYear = append(summary.RunoutByYear, decimal.NewFromInt(int64(ruined)).Div(total).Round(4))
	}
	return summary
}
