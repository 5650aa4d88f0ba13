// Package process implements TableProcessor (C5): the three pluggable
// scheduling strategies that turn a list of tables into profiled
// TableProfile results, bounded by a connection-count semaphore rather
// than by worker count alone.
package process

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"profiler/core"
	"profiler/dialect"
)

// Strategy selects how tables are scheduled.
type Strategy string

const (
	StrategySequential Strategy = "sequential"
	StrategyParallel   Strategy = "parallel"
	StrategyAdaptive   Strategy = "adaptive"
)

// TableProfiler is the subset of profile.Profiler TableProcessor depends
// on, kept as an interface so tests can stub it without a live database.
type TableProfiler interface {
	ProfileTable(ctx context.Context, table dialect.TableRow, schemaName *string) *core.TableProfile
}

// Config carries the subset of ProfilerConfig TableProcessor reads.
type Config struct {
	Strategy          Strategy
	MaxWorkers        int
	MaxConnections    int
	ParallelThreshold int
	QueryTimeout      time.Duration
}

// Processor is the C5 TableProcessor.
type Processor struct {
	profiler   TableProfiler
	schemaName *string
	logger     *zap.Logger
}

// New returns a Processor bound to one TableProfiler.
func New(profiler TableProfiler, schemaName *string, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{profiler: profiler, schemaName: schemaName, logger: logger}
}

// ProcessTables profiles every table per cfg.Strategy (resolving
// adaptive to parallel or sequential first) and always returns results
// sorted by table name, regardless of which strategy ran.
func (p *Processor) ProcessTables(ctx context.Context, tables []dialect.TableRow, cfg Config) []*core.TableProfile {
	strategy := cfg.Strategy
	if strategy == StrategyAdaptive {
		if len(tables) >= cfg.ParallelThreshold && cfg.MaxWorkers > 1 {
			strategy = StrategyParallel
		} else {
			strategy = StrategySequential
		}
	}

	var results []*core.TableProfile
	switch strategy {
	case StrategyParallel:
		results = p.processParallel(ctx, tables, cfg)
	default:
		results = p.processSequential(ctx, tables, cfg)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results
}

func (p *Processor) processSequential(ctx context.Context, tables []dialect.TableRow, cfg Config) []*core.TableProfile {
	out := make([]*core.TableProfile, 0, len(tables))
	for _, table := range tables {
		if ctx.Err() != nil {
			break
		}
		tp, ok := p.profileWithTimeout(ctx, table, cfg.QueryTimeout)
		if !ok {
			continue
		}
		out = append(out, tp)
	}
	return out
}

func (p *Processor) processParallel(ctx context.Context, tables []dialect.TableRow, cfg Config) []*core.TableProfile {
	workers := cfg.MaxWorkers
	if workers <= 0 || workers > len(tables) {
		workers = len(tables)
	}
	if workers <= 0 {
		return nil
	}
	connLimit := int64(cfg.MaxConnections)
	if connLimit <= 0 {
		connLimit = int64(workers)
	}
	sem := semaphore.NewWeighted(connLimit)

	var (
		mu  sync.Mutex
		out []*core.TableProfile
		wg  sync.WaitGroup
	)
	taskCh := make(chan dialect.TableRow)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for table := range taskCh {
				if ctx.Err() != nil {
					continue
				}
				if err := sem.Acquire(ctx, 1); err != nil {
					continue
				}
				tp, ok := p.profileWithTimeout(ctx, table, cfg.QueryTimeout)
				sem.Release(1)
				if !ok {
					continue
				}
				mu.Lock()
				out = append(out, tp)
				mu.Unlock()
			}
		}()
	}

	for _, table := range tables {
		if ctx.Err() != nil {
			break
		}
		taskCh <- table
	}
	close(taskCh)
	wg.Wait()

	return out
}

func (p *Processor) profileWithTimeout(ctx context.Context, table dialect.TableRow, timeout time.Duration) (*core.TableProfile, bool) {
	callCtx := ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	done := make(chan *core.TableProfile, 1)
	go func() {
		done <- p.profiler.ProfileTable(callCtx, table, p.schemaName)
	}()

	select {
	case tp := <-done:
		if tp == nil {
			return nil, false
		}
		return tp, true
	case <-callCtx.Done():
		p.logger.Error("table profiling timed out or was cancelled", zap.String("table", table.TableName), zap.Error(callCtx.Err()))
		return nil, false
	}
}
