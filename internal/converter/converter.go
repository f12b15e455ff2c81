// internal/converter/converter.go

// Package converter shells out to the external gene-model converters
// (bed2gtf, bed2gff). The tools are black boxes: postoga hands them the
// annotation, the isoform map and an output path, and trusts their output.
package converter

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/rs/zerolog"
)

// tool returns the converter binary for a target format.
func tool(format string) (string, error) {
	switch format {
	case "gtf":
		return "bed2gtf", nil
	case "gff":
		return "bed2gff", nil
	default:
		return "", fmt.Errorf("unsupported conversion target %q", format)
	}
}

// Convert runs the external converter for format on bedPath, writing the
// gene model to outPath. The isoform map ties transcripts to genes.
func Convert(ctx context.Context, format, bedPath, isoformsPath, outPath string, log zerolog.Logger) error {
	name, err := tool(format)
	if err != nil {
		return err
	}
	bin, err := exec.LookPath(name)
	if err != nil {
		return fmt.Errorf("converter %s not found in PATH: %w", name, err)
	}

	cmd := exec.CommandContext(ctx, bin,
		"--bed", bedPath,
		"--isoforms", isoformsPath,
		"--output", outPath,
	)
	log.Info().Str("tool", name).Str("bed", bedPath).Str("out", outPath).
		Msg("converting annotation")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %w: %s", name, err, out)
	}
	return nil
}
