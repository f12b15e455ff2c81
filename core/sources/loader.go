// core/sources/loader.go
package sources

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// LoadTSV reads a tab-separated file and enforces a fixed column count.
// Values are carried through untyped; downstream stages coerce where they
// specifically need to. Empty lines are skipped.
func LoadTSV(path string, columns int, skipHeader bool) ([][]string, error) {
	fh, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingInputError{Path: path}
		}
		return nil, err
	}
	defer func() { _ = fh.Close() }()

	var rows [][]string
	sc := bufio.NewScanner(fh)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		if skipHeader && ln == 1 {
			continue
		}
		f := strings.Split(line, "\t")
		if len(f) != columns {
			return nil, &SchemaMismatchError{Path: path, Line: ln, Want: columns, Got: len(f)}
		}
		rows = append(rows, f)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

// LoadOrthology loads the orthology classification table (header present).
func LoadOrthology(path string) ([]OrthologyRecord, error) {
	rows, err := LoadTSV(path, 5, true)
	if err != nil {
		return nil, err
	}
	recs := make([]OrthologyRecord, 0, len(rows))
	for _, f := range rows {
		recs = append(recs, OrthologyRecord{
			ReferenceGene:       f[0],
			ReferenceTranscript: f[1],
			QueryGene:           f[2],
			QueryTranscript:     f[3],
			OrthologyClass:      f[4],
		})
	}
	return recs, nil
}

// LoadLossSummary loads the loss summary table keeping only rows at the
// finest granularity level and derives the secondary join key for each.
func LoadLossSummary(path string) ([]LossRecord, error) {
	all, err := LoadLossRaw(path)
	if err != nil {
		return nil, err
	}
	recs := all[:0]
	for _, r := range all {
		if r.Level == ProjectionLevel {
			recs = append(recs, r)
		}
	}
	return recs, nil
}

// LoadLossRaw loads every loss summary row regardless of level. The
// haplotype branch consumes all three roll-up levels.
func LoadLossRaw(path string) ([]LossRecord, error) {
	rows, err := LoadTSV(path, 3, true)
	if err != nil {
		return nil, err
	}
	recs := make([]LossRecord, 0, len(rows))
	for _, f := range rows {
		recs = append(recs, LossRecord{
			Level:           f[0],
			QueryTranscript: f[1],
			LossStatus:      f[2],
			ReferenceKey:    DropChainSuffix(f[1]),
		})
	}
	return recs, nil
}

// LoadScores loads the orthology scores table, deriving query transcript
// identifiers and coercing malformed scores to 0 instead of rejecting them.
func LoadScores(path string, log zerolog.Logger) ([]ScoreRecord, error) {
	rows, err := LoadTSV(path, 3, true)
	if err != nil {
		return nil, err
	}
	recs := make([]ScoreRecord, 0, len(rows))
	coerced := 0
	for _, f := range rows {
		score, perr := strconv.ParseFloat(f[2], 64)
		if perr != nil {
			score = 0
			coerced++
		}
		recs = append(recs, ScoreRecord{
			Transcript:      f[0],
			Chain:           f[1],
			QueryTranscript: f[0] + "#" + f[1],
			OrthologyScore:  score,
		})
	}
	if coerced > 0 {
		log.Warn().Int("rows", coerced).Str("file", path).
			Msg("malformed orthology scores coerced to 0")
	}
	return recs, nil
}

// LoadGeneOverrides loads the projection → query gene override map. The
// file is header-addressed: the projection and query_gene columns are found
// by name, not position.
func LoadGeneOverrides(path string) (map[string]string, error) {
	fh, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingInputError{Path: path}
		}
		return nil, err
	}
	defer func() { _ = fh.Close() }()

	sc := bufio.NewScanner(fh)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, &SchemaMismatchError{Path: path, Line: 1, Want: 2, Got: 0}
	}
	header := strings.Split(strings.TrimRight(sc.Text(), "\r"), "\t")
	keyIdx, valIdx := -1, -1
	for i, name := range header {
		switch name {
		case "projection":
			keyIdx = i
		case "query_gene":
			valIdx = i
		}
	}
	if keyIdx < 0 || valIdx < 0 {
		return nil, &SchemaMismatchError{Path: path, Line: 1, Want: 2, Got: len(header)}
	}

	overrides := make(map[string]string)
	ln := 1
	for sc.Scan() {
		ln++
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		f := strings.Split(line, "\t")
		if len(f) != len(header) {
			return nil, &SchemaMismatchError{Path: path, Line: ln, Want: len(header), Got: len(f)}
		}
		overrides[f[keyIdx]] = f[valIdx]
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return overrides, nil
}

// DropChainSuffix strips the trailing chain-index segment from a projection
// identifier: the last '#'-separated segment when one exists, otherwise the
// last '.'-separated segment. Identifiers without either separator are
// returned unchanged.
func DropChainSuffix(id string) string {
	if i := strings.LastIndexByte(id, '#'); i > 0 {
		return id[:i]
	}
	if i := strings.LastIndexByte(id, '.'); i > 0 {
		return id[:i]
	}
	return id
}
