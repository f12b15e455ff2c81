// internal/writers/table.go
package writers

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"strconv"
	"strings"

	"postoga-core/reconcile"
)

// projectionRow renders one unified-table line. Optional columns that never
// received a value print as empty fields.
func projectionRow(p reconcile.Projection) string {
	fields := []string{
		p.ReferenceGene.Or(""),
		p.ReferenceTranscript.Or(""),
		p.QueryGene.Or(""),
		p.QueryTranscript,
		p.OrthologyClass.Or(""),
		p.LossStatus.Or(""),
		strconv.FormatFloat(p.OrthologyScore, 'g', -1, 64),
		strconv.Itoa(p.FragmentCount),
	}
	return strings.Join(fields, "\t")
}

// WriteTable streams the unified table as TSV, header first.
func WriteTable(w io.Writer, projections []reconcile.Projection) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(reconcile.Columns, "\t") + "\n"); err != nil {
		return err
	}
	for _, p := range projections {
		if _, err := bw.WriteString(projectionRow(p) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteTableGz writes the unified table gzip-compressed to path.
func WriteTableGz(path string, projections []reconcile.Projection) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	gz := gzip.NewWriter(f)
	if err := WriteTable(gz, projections); err != nil {
		f.Close()
		return err
	}
	if err := gz.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
