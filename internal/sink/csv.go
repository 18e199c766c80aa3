package sink

import (
	"context"
	"encoding/csv"
	"os"

	"github.com/dgallion1/docoutline/internal/outline"
)

// CSV writes rows as comma-separated values with a header line.
type CSV struct {
	Path string
}

func (c *CSV) Write(ctx context.Context, rows []outline.Row) error {
	return replaceFile(c.Path, func(f *os.File) error {
		w := csv.NewWriter(f)
		if err := w.Write(outline.Columns); err != nil {
			return err
		}
		for _, row := range rows {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := w.Write(row.Values()); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	})
}
