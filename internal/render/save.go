package render

import (
	"fmt"
	"os"
)

// Save writes the figure to path. The file is closed on every path and a
// failed close is reported when nothing else failed first.
func Save(path string, f *Figure) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	if _, err := out.Write(f.Data); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
