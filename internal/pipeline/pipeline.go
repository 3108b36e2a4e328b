// Package pipeline drives the full ingestion flow: detect and parse
// source documents, resolve identities, cache records, then fold the
// games into cumulative totals and fire milestones. Parsing may fan out
// across workers; aggregation is strictly sequential in date order.
package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/pable/go-boxstats/internal/aggregate"
	"github.com/pable/go-boxstats/internal/boxscore"
	"github.com/pable/go-boxstats/internal/format"
	"github.com/pable/go-boxstats/internal/milestone"
	"github.com/pable/go-boxstats/internal/model"
	"github.com/pable/go-boxstats/internal/resolve"
	"github.com/pable/go-boxstats/internal/storage"
)

// Mode selects how much of the flow runs.
type Mode int

const (
	// ModeFull parses, caches, aggregates, and fires milestones.
	ModeFull Mode = iota
	// ModeParseOnly parses and caches but leaves totals untouched.
	ModeParseOnly
	// ModeReplay rebuilds all derived state from the cache without
	// touching source documents.
	ModeReplay
)

// Failure records one document the batch could not process. One bad
// document never aborts the batch.
type Failure struct {
	Path   string
	GameID string
	Err    error
}

// Summary is the outcome of one batch run.
type Summary struct {
	Scanned    int
	Parsed     int
	Reused     int
	Applied    int
	Duplicates int
	Milestones []model.MilestoneEvent
	Unresolved []resolve.Unresolved
	Failures   []Failure
}

// Pipeline wires the stages together around one open store.
type Pipeline struct {
	DB       *storage.DB
	Detector *format.Detector
	Resolver *resolve.Resolver
	Log      zerolog.Logger
	Workers  int
}

// sourceExtensions are the document types the directory walk picks up.
var sourceExtensions = map[string]bool{".html": true, ".htm": true, ".txt": true}

// Run processes every source document under dir per the mode. With
// ModeReplay dir is ignored and cached games drive the run.
func (p *Pipeline) Run(dir string, mode Mode) (*Summary, error) {
	sum := &Summary{}

	var records []*model.GameRecord
	if mode == ModeReplay {
		if err := p.DB.ClearDerived(); err != nil {
			return nil, fmt.Errorf("clear derived state: %w", err)
		}
		cached, err := p.loadCached(sum)
		if err != nil {
			return nil, err
		}
		records = cached
	} else {
		paths, err := collectSources(dir)
		if err != nil {
			return nil, err
		}
		sum.Scanned = len(paths)
		records = p.parseAll(paths, sum)
	}

	// Deterministic order regardless of worker scheduling.
	sort.Slice(records, func(i, j int) bool {
		if records[i].Meta.Date != records[j].Meta.Date {
			return records[i].Meta.Date < records[j].Meta.Date
		}
		return records[i].Meta.GameID < records[j].Meta.GameID
	})

	records = p.checkCollisions(records, sum)

	if mode != ModeReplay {
		records = p.cacheRecords(records, sum)
	}
	if mode == ModeParseOnly {
		return sum, nil
	}

	if err := p.aggregate(records, sum); err != nil {
		return nil, err
	}
	return sum, nil
}

// ProcessOne runs a single already-built record (an API fetch) through
// cache and aggregation.
func (p *Pipeline) ProcessOne(rec *model.GameRecord) (*Summary, error) {
	sum := &Summary{Scanned: 1, Parsed: 1}
	sum.Unresolved = append(sum.Unresolved, p.Resolver.ResolveGame(rec)...)
	if err := p.DB.SaveGame(rec); err != nil {
		return nil, fmt.Errorf("cache game %s: %w", rec.Meta.GameID, err)
	}
	if err := p.aggregate([]*model.GameRecord{rec}, sum); err != nil {
		return nil, err
	}
	return sum, nil
}

// Reparse drops the listed games from the cache, re-parses their source
// documents, and replays everything so totals stay consistent.
func (p *Pipeline) Reparse(gameIDs []string, dir string) (*Summary, error) {
	for _, id := range gameIDs {
		if err := p.DB.DeleteGame(id); err != nil {
			return nil, fmt.Errorf("drop game %s: %w", id, err)
		}
	}
	if _, err := p.Run(dir, ModeParseOnly); err != nil {
		return nil, err
	}
	return p.Run("", ModeReplay)
}

// ---- Parse stage ----

func collectSources(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && sourceExtensions[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

type parseResult struct {
	rec        *model.GameRecord
	unresolved []resolve.Unresolved
	failure    *Failure
}

// parseAll fans document parsing out across workers. Results are
// collected per input index so output order never depends on
// scheduling.
func (p *Pipeline) parseAll(paths []string, sum *Summary) []*model.GameRecord {
	workers := p.Workers
	if workers < 1 {
		workers = 1
	}
	results := make([]parseResult, len(paths))

	var wg sync.WaitGroup
	jobs := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = p.parseOne(paths[i])
			}
		}()
	}
	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var records []*model.GameRecord
	for _, r := range results {
		switch {
		case r.failure != nil:
			p.Log.Warn().Str("path", r.failure.Path).Err(r.failure.Err).Msg("document failed")
			sum.Failures = append(sum.Failures, *r.failure)
		case r.rec != nil:
			sum.Parsed++
			sum.Unresolved = append(sum.Unresolved, r.unresolved...)
			records = append(records, r.rec)
		}
	}
	return records
}

func (p *Pipeline) parseOne(path string) parseResult {
	raw, err := os.ReadFile(path)
	if err != nil {
		return parseResult{failure: &Failure{Path: path, Err: err}}
	}
	doc := boxscore.RawDocument{Path: path, Text: string(raw)}

	f, err := p.Detector.Detect(doc.Text)
	if err != nil {
		return parseResult{failure: &Failure{Path: path, Err: err}}
	}
	parser, err := boxscore.ForFormat(f)
	if err != nil {
		return parseResult{failure: &Failure{Path: path, Err: err}}
	}
	rec, err := parser.Parse(doc)
	if err != nil {
		return parseResult{failure: &Failure{Path: path, Err: err}}
	}
	rec.Meta.SourcePath = path

	unresolved := p.Resolver.ResolveGame(rec)
	p.Log.Debug().Str("game", rec.Meta.GameID).Str("format", string(f)).Msg("parsed")
	return parseResult{rec: rec, unresolved: unresolved}
}

// cacheRecords persists parsed records and drops the ones that fail to
// cache. An aggregated-but-uncached game would make a later cache-only
// replay diverge from this run.
func (p *Pipeline) cacheRecords(records []*model.GameRecord, sum *Summary) []*model.GameRecord {
	kept := records[:0]
	for _, rec := range records {
		if err := p.DB.SaveGame(rec); err != nil {
			sum.Failures = append(sum.Failures, Failure{Path: rec.Meta.SourcePath, GameID: rec.Meta.GameID, Err: err})
			continue
		}
		kept = append(kept, rec)
	}
	return kept
}

func (p *Pipeline) loadCached(sum *Summary) ([]*model.GameRecord, error) {
	metas, err := p.DB.ListGames()
	if err != nil {
		return nil, fmt.Errorf("list cached games: %w", err)
	}
	var records []*model.GameRecord
	for _, m := range metas {
		rec, err := p.DB.LoadGame(m.GameID)
		if err != nil {
			// A corrupt cache entry is a miss. Fall back to the
			// source document while it is still on disk.
			if errors.Is(err, storage.ErrCacheCorrupt) {
				if rec := p.recoverCorrupt(m, sum); rec != nil {
					records = append(records, rec)
					continue
				}
			}
			p.Log.Warn().Str("game", m.GameID).Err(err).Msg("cache entry unusable")
			sum.Failures = append(sum.Failures, Failure{Path: m.SourcePath, GameID: m.GameID, Err: err})
			continue
		}
		sum.Reused++
		records = append(records, rec)
	}
	return records, nil
}

// recoverCorrupt re-parses the source document behind a corrupt cache
// entry and rewrites the cache row. Returns nil when the source is gone
// or no longer parses; the caller then records the failure.
func (p *Pipeline) recoverCorrupt(m model.GameMeta, sum *Summary) *model.GameRecord {
	if m.SourcePath == "" {
		return nil
	}
	res := p.parseOne(m.SourcePath)
	if res.failure != nil {
		return nil
	}
	if err := p.DB.SaveGame(res.rec); err != nil {
		p.Log.Warn().Str("game", m.GameID).Err(err).Msg("recache after corrupt entry")
		return nil
	}
	p.Log.Warn().Str("game", m.GameID).Str("path", m.SourcePath).Msg("corrupt cache entry reparsed from source")
	sum.Parsed++
	sum.Unresolved = append(sum.Unresolved, res.unresolved...)
	return res.rec
}

// checkCollisions enforces unique game ids within a batch. Two distinct
// documents mapping to the same id without game numbers is a
// doubleheader missing its labels, a data quality error.
func (p *Pipeline) checkCollisions(records []*model.GameRecord, sum *Summary) []*model.GameRecord {
	seen := make(map[string]string)
	var out []*model.GameRecord
	for _, rec := range records {
		id := rec.Meta.GameID
		prev, dup := seen[id]
		if dup && prev != rec.Meta.SourcePath {
			sum.Failures = append(sum.Failures, Failure{
				Path:   rec.Meta.SourcePath,
				GameID: id,
				Err:    fmt.Errorf("game id collides with %s; doubleheader halves need game numbers", prev),
			})
			continue
		}
		if dup {
			continue
		}
		seen[id] = rec.Meta.SourcePath
		out = append(out, rec)
	}
	return out
}

// ---- Aggregate stage ----

// aggregate folds records into totals strictly in order, evaluating
// milestones after each game, then persists the derived state.
func (p *Pipeline) aggregate(records []*model.GameRecord, sum *Summary) error {
	store := aggregate.New()
	engine := milestone.NewEngine(milestone.Catalog())

	seasonStats, careerStats, err := p.DB.LoadTotals()
	if err != nil {
		return fmt.Errorf("load totals: %w", err)
	}
	applied, err := p.DB.AppliedGames()
	if err != nil {
		return fmt.Errorf("load applied ledger: %w", err)
	}
	store.Seed(seasonStats, careerStats, applied)

	fired, err := p.DB.ListMilestones()
	if err != nil {
		return fmt.Errorf("load milestones: %w", err)
	}
	engine.SeedFired(fired)

	seasons := make(map[int]bool)
	for _, rec := range records {
		deltas, err := store.Apply(rec)
		if err != nil {
			var dup *aggregate.DuplicateGameError
			if errors.As(err, &dup) {
				sum.Duplicates++
				continue
			}
			sum.Failures = append(sum.Failures, Failure{Path: rec.Meta.SourcePath, GameID: rec.Meta.GameID, Err: err})
			continue
		}
		season := seasonOf(rec.Meta.Date)
		seasons[season] = true
		events := engine.Evaluate(store, deltas, season)
		sum.Milestones = append(sum.Milestones, events...)
		sum.Applied++

		if err := p.DB.MarkApplied(rec.Meta.GameID); err != nil {
			return fmt.Errorf("mark applied %s: %w", rec.Meta.GameID, err)
		}
		if err := p.DB.InsertMilestones(events); err != nil {
			return fmt.Errorf("save milestones for %s: %w", rec.Meta.GameID, err)
		}
	}

	for season := range seasons {
		if err := p.DB.SaveTotals(store.SeasonAll(season), season); err != nil {
			return fmt.Errorf("save season totals: %w", err)
		}
	}
	if len(seasons) > 0 {
		if err := p.DB.SaveTotals(store.CareerAll(), 0); err != nil {
			return fmt.Errorf("save career totals: %w", err)
		}
	}
	return nil
}

func seasonOf(date string) int {
	var y int
	if len(date) >= 4 {
		fmt.Sscanf(date[:4], "%d", &y)
	}
	return y
}
