package fix

import "fmt"

// Catalog is an ordered, name-indexed set of fixes
type Catalog struct {
	fixes []Fix
	index map[string]int
}

// NewCatalog creates a catalog from fixes, later entries overriding earlier ones
func NewCatalog(fixes ...Fix) *Catalog {
	c := &Catalog{index: make(map[string]int)}
	c.Merge(fixes...)
	return c
}

// Builtin returns a catalog holding the two calibration fixes
func Builtin() *Catalog {
	return NewCatalog(Calibration, CalibrationConflict)
}

// Merge adds fixes, replacing any existing fix of the same name in place
func (c *Catalog) Merge(fixes ...Fix) {
	for _, f := range fixes {
		if i, ok := c.index[f.Name]; ok {
			c.fixes[i] = f
			continue
		}
		c.index[f.Name] = len(c.fixes)
		c.fixes = append(c.fixes, f)
	}
}

// Lookup finds a fix by name
func (c *Catalog) Lookup(name string) (Fix, bool) {
	i, ok := c.index[name]
	if !ok {
		return Fix{}, false
	}
	return c.fixes[i], true
}

// All returns the fixes in catalog order
func (c *Catalog) All() []Fix {
	out := make([]Fix, len(c.fixes))
	copy(out, c.fixes)
	return out
}

// Names returns fix names in catalog order
func (c *Catalog) Names() []string {
	names := make([]string, len(c.fixes))
	for i, f := range c.fixes {
		names[i] = f.Name
	}
	return names
}

// Select resolves names to fixes; no names selects everything
func (c *Catalog) Select(names []string) ([]Fix, error) {
	if len(names) == 0 {
		return c.All(), nil
	}

	out := make([]Fix, 0, len(names))
	for _, name := range names {
		f, ok := c.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown fix %q (available: %v)", name, c.Names())
		}
		out = append(out, f)
	}
	return out, nil
}
