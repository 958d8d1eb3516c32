// Package reason holds the static reason schema table: each reason key maps
// to a display label and the extra fields a submission of that kind carries.
//
// The table is written in CUE and embedded in the binary. CUE constraints
// reject malformed entries (unknown field types, empty labels) when the
// table is loaded.
package reason

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed reasons.cue
var defaultSchema []byte

// FieldType is the input kind of an extra field.
type FieldType string

const (
	FieldText   FieldType = "text"
	FieldNumber FieldType = "number"
	FieldDate   FieldType = "date"
	FieldSelect FieldType = "select"
)

// Field describes one extra field of a reason.
type Field struct {
	Name        string    `json:"name"`
	Label       string    `json:"label"`
	Type        FieldType `json:"type"`
	Placeholder string    `json:"placeholder,omitempty"`
	Options     []string  `json:"options,omitempty"`
}

// Reason is one entry of the schema table.
type Reason struct {
	Key    string  `json:"key"`
	Label  string  `json:"label"`
	Fields []Field `json:"fields"`
}

// Catalog is a loaded, read-only schema table.
type Catalog struct {
	reasons []Reason
	byKey   map[string]int
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the embedded catalog. The table is compiled once.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Load(defaultSchema)
	})
	return defaultCatalog, defaultErr
}

// Load compiles a CUE schema table. The source must define a concrete
// top-level "reasons" list with unique keys.
func Load(src []byte) (*Catalog, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename("reasons.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile reasons: %w", err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("validate reasons: %w", err)
	}

	list := v.LookupPath(cue.ParsePath("reasons"))
	if !list.Exists() {
		return nil, fmt.Errorf("reasons: missing top-level reasons list")
	}

	var reasons []Reason
	if err := list.Decode(&reasons); err != nil {
		return nil, fmt.Errorf("decode reasons: %w", err)
	}

	c := &Catalog{reasons: reasons, byKey: make(map[string]int, len(reasons))}
	for i, r := range reasons {
		if _, dup := c.byKey[r.Key]; dup {
			return nil, fmt.Errorf("reasons: duplicate key %q", r.Key)
		}
		c.byKey[r.Key] = i
	}
	return c, nil
}

// All returns the reasons in table order.
func (c *Catalog) All() []Reason {
	out := make([]Reason, len(c.reasons))
	copy(out, c.reasons)
	return out
}

// Lookup finds a reason by key.
func (c *Catalog) Lookup(key string) (Reason, bool) {
	i, ok := c.byKey[key]
	if !ok {
		return Reason{}, false
	}
	return c.reasons[i], true
}

// Label returns the display label for key. Unknown keys fall back to the key
// itself and an empty key renders as an em dash.
func (c *Catalog) Label(key string) string {
	if key == "" {
		return "—"
	}
	if r, ok := c.Lookup(key); ok {
		return r.Label
	}
	return key
}

// FieldNames returns the extra field names declared for key.
func (c *Catalog) FieldNames(key string) ([]string, bool) {
	r, ok := c.Lookup(key)
	if !ok {
		return nil, false
	}
	names := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		names[i] = f.Name
	}
	return names, true
}

// Field finds a field of a reason by name.
func (r Reason) Field(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Parse converts raw form input to the scalar stored in ExtraFields.
func (f Field) Parse(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	switch f.Type {
	case FieldNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a number", f.Label, raw)
		}
		return n, nil
	case FieldDate:
		if _, err := time.Parse("2006-01-02", raw); err != nil {
			return nil, fmt.Errorf("%s: %q is not a date (YYYY-MM-DD)", f.Label, raw)
		}
		return raw, nil
	case FieldSelect:
		for _, opt := range f.Options {
			if opt == raw {
				return raw, nil
			}
		}
		return nil, fmt.Errorf("%s: %q is not one of %v", f.Label, raw, f.Options)
	default:
		return raw, nil
	}
}
