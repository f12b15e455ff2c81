// core/bed/bed.go
package bed

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// FieldCount is the fixed column count of the coordinate annotation format.
const FieldCount = 12

// Record is one 12-column coordinate annotation line.
// Score, RGB and the block columns are carried verbatim so a rewrite
// round-trips byte-for-byte.
type Record struct {
	Chrom       string
	Start       int
	End         int
	ID          string
	Score       string
	Strand      string
	ThickStart  int
	ThickEnd    int
	RGB         string
	BlockCount  int
	BlockSizes  string
	BlockStarts string
}

// Helper returns the key the unified table joins on: the record ID up to
// the '$' fragment marker, with any '#FG<n>' disambiguation suffix dropped.
// Fragment resolution rewrites IDs after the table is built, so the join
// key must look through both markers.
func (r Record) Helper() string {
	id := r.ID
	if i := strings.IndexByte(id, '$'); i >= 0 {
		id = id[:i]
	}
	if i := strings.LastIndex(id, "#FG"); i >= 0 && allDigits(id[i+3:]) {
		id = id[:i]
	}
	return id
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Parse parses one tab-separated 12-column line.
func Parse(line string) (Record, error) {
	f := strings.Split(line, "\t")
	if len(f) != FieldCount {
		return Record{}, fmt.Errorf("expected %d fields, got %d", FieldCount, len(f))
	}
	var (
		r   Record
		err error
	)
	r.Chrom, r.ID, r.Score, r.Strand, r.RGB = f[0], f[3], f[4], f[5], f[8]
	r.BlockSizes, r.BlockStarts = f[10], f[11]
	if r.Start, err = strconv.Atoi(f[1]); err != nil {
		return Record{}, fmt.Errorf("bad start %q: %w", f[1], err)
	}
	if r.End, err = strconv.Atoi(f[2]); err != nil {
		return Record{}, fmt.Errorf("bad end %q: %w", f[2], err)
	}
	if r.ThickStart, err = strconv.Atoi(f[6]); err != nil {
		return Record{}, fmt.Errorf("bad thickStart %q: %w", f[6], err)
	}
	if r.ThickEnd, err = strconv.Atoi(f[7]); err != nil {
		return Record{}, fmt.Errorf("bad thickEnd %q: %w", f[7], err)
	}
	if r.BlockCount, err = strconv.Atoi(f[9]); err != nil {
		return Record{}, fmt.Errorf("bad blockCount %q: %w", f[9], err)
	}
	return r, nil
}

// String renders the record back to its tab-separated wire form.
func (r Record) String() string {
	return strings.Join([]string{
		r.Chrom,
		strconv.Itoa(r.Start),
		strconv.Itoa(r.End),
		r.ID,
		r.Score,
		r.Strand,
		strconv.Itoa(r.ThickStart),
		strconv.Itoa(r.ThickEnd),
		r.RGB,
		strconv.Itoa(r.BlockCount),
		r.BlockSizes,
		r.BlockStarts,
	}, "\t")
}

// Read loads every record from a headerless coordinate file.
func Read(path string) ([]Record, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()

	var recs []Record
	sc := bufio.NewScanner(fh)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		r, err := Parse(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, ln, err)
		}
		recs = append(recs, r)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

// Write streams records in wire form, one per line, no header.
func Write(w io.Writer, recs []Record) error {
	bw := bufio.NewWriter(w)
	for _, r := range recs {
		if _, err := bw.WriteString(r.String()); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
