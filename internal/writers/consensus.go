// internal/writers/consensus.go
package writers

import (
	"bufio"
	"io"
	"os"
	"strings"

	"postoga-core/consensus"
)

// WriteConsensus streams the haplotype consensus table as TSV, header first.
// Column layout depends on the source mode the tables came from.
func WriteConsensus(w io.Writer, list []consensus.Consensus, source consensus.Source) error {
	bw := bufio.NewWriter(w)

	var header []string
	if source == consensus.SourceQuery {
		header = []string{"reference_gene", "reference_transcript", "transcript", "relation", "consensus"}
	} else {
		// The projection column carries the roll-up level of the first
		// source that had a row for the identifier.
		header = []string{"projection", "transcript", "consensus"}
	}
	if _, err := bw.WriteString(strings.Join(header, "\t") + "\n"); err != nil {
		return err
	}

	for _, c := range list {
		var fields []string
		if source == consensus.SourceQuery {
			fields = []string{c.Gene.Or(""), c.Helper.Or(""), c.Transcript, c.Relation.Or(""), c.Class}
		} else {
			fields = []string{c.Level.Or(""), c.Transcript, c.Class}
		}
		if _, err := bw.WriteString(strings.Join(fields, "\t") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteConsensusFile writes the consensus table to path.
func WriteConsensusFile(path string, list []consensus.Consensus, source consensus.Source) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteConsensus(f, list, source); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
