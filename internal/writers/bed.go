// internal/writers/bed.go
package writers

import (
	"os"

	"postoga-core/bed"
)

// WriteBedFile writes records to path in 12-column layout, no header.
func WriteBedFile(path string, recs []bed.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := bed.Write(f, recs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
