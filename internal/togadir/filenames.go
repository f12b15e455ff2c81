// internal/togadir/filenames.go
package togadir

// Input files the predictor leaves in its results directory.
const (
	OrthologyFile = "orthology_classification.tsv"
	LossFile      = "loss_summary.tsv"
	ScoresFile    = "orthology_scores.tsv"
	OverridesFile = "query_genes.tsv"
	BedFile       = "query_annotation.bed"
	UTRBedFile    = "query_annotation.with_utrs.bed"
)

// Output artifacts produced inside the run directory.
const (
	LogFile       = "postoga.log"
	TableFile     = "toga.table.gz"
	IsoformsFile  = "isoforms.tsv"
	DBFile        = "toga.db"
	ConsensusFile = "haplotype_classes.tsv"

	FragmentedSuffix = ".fragmented.bed"
	FilteredSuffix   = ".filtered.bed"

	// OutDirPrefix starts every run directory name; depure keys on it.
	OutDirPrefix = "postoga"
)
