// internal/writers/isoforms.go
package writers

import (
	"bufio"
	"io"
	"os"

	"postoga-core/reconcile"
)

// WriteIsoforms streams the isoform map as two-column TSV, no header.
func WriteIsoforms(w io.Writer, pairs []reconcile.IsoformPair) error {
	bw := bufio.NewWriter(w)
	for _, p := range pairs {
		if _, err := bw.WriteString(p.QueryGene + "\t" + p.ID + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteIsoformsFile writes the isoform map to path.
func WriteIsoformsFile(path string, pairs []reconcile.IsoformPair) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteIsoforms(f, pairs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
