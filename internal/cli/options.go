// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"

	"postoga/internal/version"
)

// Unset is the sentinel for score flags the user did not pass; valid
// thresholds live in [0, 1].
const Unset = -1

// Options holds all CLI flags for the base branch.
type Options struct {
	TogaDir string
	OutDir  string
	Profile string

	// Filters
	ByOrthologyClass string  // comma-separated orthology class allow-set
	ByLossStatus     string  // comma-separated loss status allow-set
	ByScore          float64 // Unset when not supplied
	ByParalogScore   float64 // Unset when not supplied

	// Modes
	To           string // gtf | gff | bed
	Target       string // utr | bed
	WithIsoforms string // user-supplied isoform map; computed when empty
	OnlyTable    bool
	OnlyConvert  bool
	Depure       bool
	NoDB         bool

	LogLevel string
	Version  bool
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: post-processing for genome-to-genome orthology annotation

Version: %s

Usage of %s:
`, name, version.Version, name)
		fs.PrintDefaults()
	}
	return fs
}

// ParseArgs registers and parses all flags, returns an Options struct.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool

	fs.StringVar(&opt.TogaDir, "togadir", "", "path to the predictor results directory [*]")
	fs.StringVar(&opt.OutDir, "outdir", "", "parent directory for the run output (default: --togadir)")
	fs.StringVar(&opt.Profile, "profile", "", "TOML run profile with default settings")

	fs.StringVar(&opt.ByOrthologyClass, "by-orthology-class", "", "keep only these orthology classes (comma-separated, e.g. one2one,one2many)")
	fs.StringVar(&opt.ByLossStatus, "by-loss-status", "", "keep only these loss statuses (comma-separated, e.g. I,PI,UL)")
	fs.Float64Var(&opt.ByScore, "by-orthology-score", Unset, "keep orthology scores >= threshold (0.0 - 1.0)")
	fs.Float64Var(&opt.ByParalogScore, "by-paralog-score", Unset, "drop transcripts with more than one projection scoring above threshold")

	fs.StringVar(&opt.To, "to", "gtf", "gene-model conversion target: gtf | gff | bed [gtf]")
	fs.StringVar(&opt.Target, "target", "utr", "coordinate file to process: utr | bed [utr]")
	fs.StringVar(&opt.WithIsoforms, "with-isoforms", "", "path to a user-supplied isoform map (default: computed)")
	fs.BoolVar(&opt.OnlyTable, "only-table", false, "only produce the unified table [false]")
	fs.BoolVar(&opt.OnlyConvert, "only-convert", false, "only run the gene-model conversion [false]")
	fs.BoolVar(&opt.Depure, "depure", false, "remove artifacts of previous runs first [false]")
	fs.BoolVar(&opt.NoDB, "no-db", false, "skip the sqlite snapshot of the unified table [false]")

	fs.StringVar(&opt.LogLevel, "level", "info", "logging verbosity: debug | info | warn | off [info]")
	fs.BoolVar(&opt.Version, "v", false, "print version and exit (shorthand) [false]")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&help, "h", false, "show this help message (shorthand) [false]")

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if help {
		fs.Usage()
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}

	// Validation
	if opt.TogaDir == "" {
		return opt, errors.New("--togadir is required")
	}
	if opt.To != "gtf" && opt.To != "gff" && opt.To != "bed" {
		return opt, fmt.Errorf("invalid --to %q", opt.To)
	}
	if opt.Target != "utr" && opt.Target != "bed" {
		return opt, fmt.Errorf("invalid --target %q", opt.Target)
	}
	if opt.ByScore != Unset && (opt.ByScore < 0 || opt.ByScore > 1) {
		return opt, errors.New("--by-orthology-score must be in [0, 1]")
	}
	if opt.ByParalogScore != Unset && (opt.ByParalogScore < 0 || opt.ByParalogScore > 1) {
		return opt, errors.New("--by-paralog-score must be in [0, 1]")
	}
	if opt.OnlyTable && opt.OnlyConvert {
		return opt, errors.New("--only-table conflicts with --only-convert")
	}
	return opt, nil
}

// FilterActive reports whether any filter flag was supplied.
func (o Options) FilterActive() bool {
	return o.ByOrthologyClass != "" || o.ByLossStatus != "" ||
		o.ByScore != Unset || o.ByParalogScore != Unset
}
