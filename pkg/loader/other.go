package loader

import (
	"fmt"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
)

// loadOther uses the explicitly selected intensity columns, each named after its sample.
func loadOther(o *Option, t *core.Table, sel Selection) (*core.Source, error) {
	if sel.Index == "" {
		return nil, &core.ValidationError{Field: o.Name, Message: "an index column has to be selected"}
	}
	for _, c := range sel.Intensity {
		if t.ColumnIndex(c) < 0 {
			return nil, fmt.Errorf("intensity column: %w: %s", core.ErrUnknownColumn, c)
		}
	}
	columns := append([]string(nil), sel.Intensity...)
	return newSource(o.Name, t, sel.Index, columns, append([]string(nil), columns...))
}
