// internal/converter/converter_test.go
package converter

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
)

func TestUnsupportedTarget(t *testing.T) {
	err := Convert(context.Background(), "vcf", "in.bed", "iso.tsv", "out.vcf", zerolog.Nop())
	if err == nil {
		t.Fatal("expected error for unsupported target")
	}
}

func TestMissingBinary(t *testing.T) {
	t.Setenv("PATH", t.TempDir()) // nothing on PATH
	err := Convert(context.Background(), "gtf", "in.bed", "iso.tsv", "out.gtf", zerolog.Nop())
	if err == nil {
		t.Fatal("expected error when bed2gtf is not installed")
	}
}
