// internal/writers/writers_test.go
package writers

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"postoga-core/consensus"
	"postoga-core/opt"
	"postoga-core/reconcile"
)

func TestWriteTable(t *testing.T) {
	projs := []reconcile.Projection{
		{
			ReferenceGene:       opt.Of("G1"),
			ReferenceTranscript: opt.Of("T1.1"),
			QueryGene:           opt.Of("qG1"),
			QueryTranscript:     "T1.1#223",
			OrthologyClass:      opt.Of("one2one"),
			LossStatus:          opt.Of("I"),
			OrthologyScore:      0.95,
			FragmentCount:       3,
		},
		{QueryTranscript: "T2.1#9"}, // everything else unset
	}

	var buf bytes.Buffer
	if err := WriteTable(&buf, projs); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("want header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != strings.Join(reconcile.Columns, "\t") {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "G1\tT1.1\tqG1\tT1.1#223\tone2one\tI\t0.95\t3" {
		t.Errorf("row = %q", lines[1])
	}
	if lines[2] != "\t\t\tT2.1#9\t\t\t0\t0" {
		t.Errorf("unset row = %q", lines[2])
	}
}

func TestWriteTableGzRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toga.table.gz")
	projs := []reconcile.Projection{{QueryTranscript: "T1.1#5"}}
	if err := WriteTableGz(path, projs); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("not gzip: %v", err)
	}
	data, err := io.ReadAll(gz)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "T1.1#5") {
		t.Errorf("decompressed table missing row: %q", data)
	}
}

func TestWriteConsensusQueryMode(t *testing.T) {
	list := []consensus.Consensus{{
		Transcript: "T1.1",
		Class:      "I",
		Gene:       opt.Of("G1"),
		Helper:     opt.Of("T1.1"),
		Relation:   opt.Of("one2one"),
	}}
	var buf bytes.Buffer
	if err := WriteConsensus(&buf, list, consensus.SourceQuery); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "reference_gene\treference_transcript\ttranscript\trelation\tconsensus\n" +
		"G1\tT1.1\tT1.1\tone2one\tI\n"
	if buf.String() != want {
		t.Errorf("got:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestWriteConsensusLossMode(t *testing.T) {
	list := []consensus.Consensus{
		{Transcript: "T1.1#223", Class: "UL", Level: opt.Of("PROJECTION")},
		{Transcript: "G1", Class: "I", Level: opt.Of("GENE")},
	}
	var buf bytes.Buffer
	if err := WriteConsensus(&buf, list, consensus.SourceLoss); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "projection\ttranscript\tconsensus\n" +
		"PROJECTION\tT1.1#223\tUL\n" +
		"GENE\tG1\tI\n"
	if buf.String() != want {
		t.Errorf("got %q want %q", buf.String(), want)
	}
}

func TestIsBrokenPipe(t *testing.T) {
	if !IsBrokenPipe(syscall.EPIPE) {
		t.Error("EPIPE not recognized")
	}
	if !IsBrokenPipe(fmt.Errorf("flush: %w", io.ErrClosedPipe)) {
		t.Error("wrapped ErrClosedPipe not recognized")
	}
	if IsBrokenPipe(nil) || IsBrokenPipe(io.EOF) {
		t.Error("unrelated errors misclassified as broken pipe")
	}
}

func TestWriteIsoforms(t *testing.T) {
	pairs := []reconcile.IsoformPair{
		{QueryGene: "qG1", ID: "T1.1#223$1"},
		{QueryGene: "qG2", ID: "T2.1#9"},
	}
	var buf bytes.Buffer
	if err := WriteIsoforms(&buf, pairs); err != nil {
		t.Fatalf("write: %v", err)
	}
	if buf.String() != "qG1\tT1.1#223$1\nqG2\tT2.1#9\n" {
		t.Errorf("got %q", buf.String())
	}
}
