// internal/togadir/run.go

// Package togadir orchestrates one end-to-end run over a predictor results
// directory: load sources, reconcile, resolve fragments, filter, write
// outputs, convert. Each stage is a whole-table function from the core
// module; this package only wires files to stages.
package togadir

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"postoga/internal/cli"
	"postoga/internal/converter"
	"postoga/internal/logging"
	"postoga/internal/store"
	"postoga/internal/writers"
	"postoga-core/bed"
	"postoga-core/filter"
	"postoga-core/fragment"
	"postoga-core/reconcile"
	"postoga-core/sources"
)

// CompletenessFunc is the external completeness-statistics collaborator:
// given the unified table it returns (database name, percentage) pairs.
// Nil means the stage is skipped.
type CompletenessFunc func(projections []reconcile.Projection) ([]struct {
	Database string
	Percent  float64
}, error)

// Run is one configured invocation over a single results directory.
type Run struct {
	Opts    cli.Options
	OutDir  string
	BedPath string

	Completeness CompletenessFunc

	log   zerolog.Logger
	stats filter.Stats
}

// hash5 derives a short run tag from the input path and start time so two
// runs over the same directory get distinct output directories.
func hash5(seed string) string {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	h := fnv.New32a()
	h.Write([]byte(seed))
	v := h.Sum32()
	tag := make([]byte, 5)
	for i := range tag {
		tag[i] = alphabet[v%uint32(len(alphabet))]
		v /= uint32(len(alphabet))
	}
	return string(tag)
}

// New validates the results directory and plans the run. All required input
// files must exist before any output is written.
func New(opts cli.Options, console zerolog.Logger) (*Run, error) {
	bedName := UTRBedFile
	if opts.Target == "bed" {
		bedName = BedFile
	}

	required := []string{OrthologyFile, LossFile, ScoresFile, bedName}
	for _, name := range required {
		path := filepath.Join(opts.TogaDir, name)
		if _, err := os.Stat(path); err != nil {
			return nil, &sources.MissingInputError{Path: path}
		}
	}

	parent := opts.OutDir
	if parent == "" {
		parent = opts.TogaDir
	}
	now := time.Now()
	dirName := fmt.Sprintf("%s_%s_%s", OutDirPrefix,
		hash5(opts.TogaDir+now.String()), now.Format("20060102_150405"))

	return &Run{
		Opts:    opts,
		OutDir:  filepath.Join(parent, dirName),
		BedPath: filepath.Join(opts.TogaDir, bedName),
		log:     console,
	}, nil
}

// Execute runs the pipeline. The console logger passed to New is upgraded
// to a console+file logger once the output directory exists.
func (r *Run) Execute(ctx context.Context) (retErr error) {
	if r.Opts.Depure {
		parent := filepath.Dir(r.OutDir)
		if err := Depure(parent, r.log); err != nil {
			return fmt.Errorf("depure: %w", err)
		}
	}
	if err := os.MkdirAll(r.OutDir, 0o755); err != nil {
		return err
	}

	log, closer, err := logging.NewRunLogger(r.Opts.LogLevel, os.Stderr,
		filepath.Join(r.OutDir, LogFile))
	if err != nil {
		return err
	}
	defer func() {
		if err := closer.Close(); err != nil && retErr == nil {
			retErr = err
		}
	}()
	r.log = log
	log.Info().Str("togadir", r.Opts.TogaDir).Str("outdir", r.OutDir).
		Msg("run started")

	projections, recs, err := r.buildTable(log)
	if err != nil {
		return err
	}

	bedPath := r.BedPath
	recs, projections, bedPath, err = r.resolveFragments(recs, projections, bedPath, log)
	if err != nil {
		return err
	}

	isoformsPath, err := r.writeIsoforms(recs, projections)
	if err != nil {
		return err
	}

	if r.Opts.FilterActive() {
		projections, recs, bedPath, err = r.applyFilters(projections, recs, log)
		if err != nil {
			return err
		}
	}

	if !r.Opts.OnlyConvert {
		tablePath := filepath.Join(r.OutDir, TableFile)
		if err := writers.WriteTableGz(tablePath, projections); err != nil {
			return fmt.Errorf("write unified table: %w", err)
		}
		log.Info().Int("rows", len(projections)).Str("path", tablePath).
			Msg("unified table written")

		if !r.Opts.NoDB {
			dbPath := filepath.Join(r.OutDir, DBFile)
			if err := store.Write(dbPath, projections, r.stats); err != nil {
				return fmt.Errorf("sqlite snapshot: %w", err)
			}
			log.Info().Str("path", dbPath).Msg("sqlite snapshot written")
		}
	}

	if !r.Opts.OnlyTable && r.Opts.To != "bed" {
		outPath := filepath.Join(r.OutDir, "query_annotation."+r.Opts.To)
		if err := converter.Convert(ctx, r.Opts.To, bedPath, isoformsPath, outPath, log); err != nil {
			return err
		}
	}

	if r.Completeness != nil {
		pairs, err := r.Completeness(projections)
		if err != nil {
			log.Warn().Err(err).Msg("completeness statistics failed")
		} else {
			for _, p := range pairs {
				log.Info().Str("database", p.Database).
					Float64("percent", p.Percent).Msg("completeness")
			}
		}
	}

	log.Info().Msg("run finished")
	return nil
}

func (r *Run) buildTable(log zerolog.Logger) ([]reconcile.Projection, []bed.Record, error) {
	orthology, err := sources.LoadOrthology(filepath.Join(r.Opts.TogaDir, OrthologyFile))
	if err != nil {
		return nil, nil, err
	}
	loss, err := sources.LoadLossSummary(filepath.Join(r.Opts.TogaDir, LossFile))
	if err != nil {
		return nil, nil, err
	}
	scores, err := sources.LoadScores(filepath.Join(r.Opts.TogaDir, ScoresFile), log)
	if err != nil {
		return nil, nil, err
	}

	// Gene overrides only exist in newer predictor versions; absence is
	// an empty map, not an error.
	overrides, err := sources.LoadGeneOverrides(filepath.Join(r.Opts.TogaDir, OverridesFile))
	if err != nil {
		var missing *sources.MissingInputError
		if !errors.As(err, &missing) {
			return nil, nil, err
		}
		log.Debug().Str("path", missing.Path).Msg("no gene override table")
		overrides = map[string]string{}
	}

	projections := reconcile.Reconcile(orthology, loss, scores, overrides, log)

	recs, err := bed.Read(r.BedPath)
	if err != nil {
		return nil, nil, err
	}
	log.Info().Int("projections", len(projections)).Int("bed_records", len(recs)).
		Msg("unified table built")
	return projections, recs, nil
}

func (r *Run) resolveFragments(
	recs []bed.Record, projections []reconcile.Projection, bedPath string, log zerolog.Logger,
) ([]bed.Record, []reconcile.Projection, string, error) {
	recs, projections, changed := fragment.Resolve(recs, projections, log)
	if !changed {
		return recs, projections, bedPath, nil
	}
	out := filepath.Join(r.OutDir, bedBase(bedPath)+FragmentedSuffix)
	if err := writers.WriteBedFile(out, recs); err != nil {
		return nil, nil, "", fmt.Errorf("write fragmented bed: %w", err)
	}
	log.Info().Str("path", out).Msg("fragmented annotation written")
	return recs, projections, out, nil
}

func (r *Run) writeIsoforms(recs []bed.Record, projections []reconcile.Projection) (string, error) {
	if r.Opts.WithIsoforms != "" {
		return r.Opts.WithIsoforms, nil
	}
	path := filepath.Join(r.OutDir, IsoformsFile)
	pairs := reconcile.IsoformPairs(recs, projections)
	if err := writers.WriteIsoformsFile(path, pairs); err != nil {
		return "", fmt.Errorf("write isoform map: %w", err)
	}
	r.log.Info().Int("pairs", len(pairs)).Str("path", path).Msg("isoform map written")
	return path, nil
}

func (r *Run) applyFilters(
	projections []reconcile.Projection, recs []bed.Record, log zerolog.Logger,
) ([]reconcile.Projection, []bed.Record, string, error) {
	opts := filter.Options{
		OrthologyClasses: splitList(r.Opts.ByOrthologyClass),
		LossStatuses:     splitList(r.Opts.ByLossStatus),
	}
	if r.Opts.ByScore != cli.Unset {
		opts.MinScore.Set(r.Opts.ByScore)
	}
	if r.Opts.ByParalogScore != cli.Unset {
		opts.ParalogScore.Set(r.Opts.ByParalogScore)
	}

	var stats filter.Stats
	projections, recs, stats = filter.New(opts, log).Apply(projections, recs)
	r.stats = stats

	out := filepath.Join(r.OutDir, bedBase(r.BedPath)+FilteredSuffix)
	if err := writers.WriteBedFile(out, recs); err != nil {
		return nil, nil, "", fmt.Errorf("write filtered bed: %w", err)
	}
	log.Info().Int("kept", stats.Kept).Int("discarded", stats.Discarded).
		Str("path", out).Msg("filtered annotation written")
	return projections, recs, out, nil
}

// bedBase strips the directory and the .bed extension: the fragmented and
// filtered outputs reuse the source name with their own suffix.
func bedBase(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".bed")
}

func splitList(csv string) []string {
	if csv == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(csv, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
