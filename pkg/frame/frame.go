package frame

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

type Kind int

const (
	KindNumeric Kind = iota
	KindCategorical
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindCategorical:
		return "categorical"
	default:
		return "unknown"
	}
}

type column struct {
	name  string
	kind  Kind
	nums  []float64
	strs  []string
	valid []bool
}

func (c *column) clone() *column {
	out := &column{name: c.name, kind: c.kind}
	switch c.kind {
	case KindNumeric:
		out.nums = append([]float64(nil), c.nums...)
	case KindCategorical:
		out.strs = append([]string(nil), c.strs...)
		out.valid = append([]bool(nil), c.valid...)
	}
	return out
}

func (c *column) take(indices []int) *column {
	out := &column{name: c.name, kind: c.kind}
	switch c.kind {
	case KindNumeric:
		out.nums = make([]float64, len(indices))
		for i, idx := range indices {
			out.nums[i] = c.nums[idx]
		}
	case KindCategorical:
		out.strs = make([]string, len(indices))
		out.valid = make([]bool, len(indices))
		for i, idx := range indices {
			out.strs[i] = c.strs[idx]
			out.valid[i] = c.valid[idx]
		}
	}
	return out
}

// Frame is an ordered set of equally sized, named columns. Missing numeric
// values are NaN; missing categorical values are tracked by a validity mask.
// Every transforming method returns a new Frame and leaves the receiver intact.
type Frame struct {
	columns []*column
	index   map[string]int
	rows    int
}

func New() *Frame {
	return &Frame{index: make(map[string]int)}
}

func (f *Frame) Len() int {
	return f.rows
}

func (f *Frame) Names() []string {
	names := make([]string, len(f.columns))
	for i, c := range f.columns {
		names[i] = c.name
	}
	return names
}

func (f *Frame) Has(name string) bool {
	_, ok := f.index[name]
	return ok
}

func (f *Frame) Kind(name string) (Kind, bool) {
	i, ok := f.index[name]
	if !ok {
		return 0, false
	}
	return f.columns[i].kind, true
}

// Missing reports the columns from names that are absent in the frame.
func (f *Frame) Missing(names ...string) []string {
	var missing []string
	for _, n := range names {
		if !f.Has(n) {
			missing = append(missing, n)
		}
	}
	return missing
}

func (f *Frame) checkLen(name string, n int) error {
	if len(f.columns) == 0 {
		return nil
	}
	if _, replacing := f.index[name]; replacing && len(f.columns) == 1 {
		return nil
	}
	if n != f.rows {
		return fmt.Errorf("column %q has %d values, frame has %d rows", name, n, f.rows)
	}
	return nil
}

func (f *Frame) put(c *column, n int) {
	if i, ok := f.index[c.name]; ok {
		f.columns[i] = c
	} else {
		f.index[c.name] = len(f.columns)
		f.columns = append(f.columns, c)
	}
	f.rows = n
}

// SetNumeric adds or replaces a numeric column. The values are copied.
func (f *Frame) SetNumeric(name string, values []float64) error {
	if err := f.checkLen(name, len(values)); err != nil {
		return err
	}
	f.put(&column{name: name, kind: KindNumeric, nums: append([]float64(nil), values...)}, len(values))
	return nil
}

// SetCategorical adds or replaces a categorical column. A nil valid mask
// marks every value as present.
func (f *Frame) SetCategorical(name string, values []string, valid []bool) error {
	if err := f.checkLen(name, len(values)); err != nil {
		return err
	}
	if valid == nil {
		valid = make([]bool, len(values))
		for i := range valid {
			valid[i] = true
		}
	} else if len(valid) != len(values) {
		return fmt.Errorf("column %q: validity mask has %d entries for %d values", name, len(valid), len(values))
	}
	f.put(&column{
		name:  name,
		kind:  KindCategorical,
		strs:  append([]string(nil), values...),
		valid: append([]bool(nil), valid...),
	}, len(values))
	return nil
}

// Numeric returns a copy of a numeric column.
func (f *Frame) Numeric(name string) ([]float64, bool) {
	i, ok := f.index[name]
	if !ok || f.columns[i].kind != KindNumeric {
		return nil, false
	}
	return append([]float64(nil), f.columns[i].nums...), true
}

// Categorical returns a copy of a categorical column and its validity mask.
func (f *Frame) Categorical(name string) ([]string, []bool, bool) {
	i, ok := f.index[name]
	if !ok || f.columns[i].kind != KindCategorical {
		return nil, nil, false
	}
	c := f.columns[i]
	return append([]string(nil), c.strs...), append([]bool(nil), c.valid...), true
}

// Drop returns a frame without the named columns.
func (f *Frame) Drop(names ...string) *Frame {
	skip := make(map[string]struct{}, len(names))
	for _, n := range names {
		skip[n] = struct{}{}
	}
	out := New()
	for _, c := range f.columns {
		if _, ok := skip[c.name]; ok {
			continue
		}
		out.put(c.clone(), f.rows)
	}
	if len(out.columns) == 0 {
		out.rows = 0
	}
	return out
}

func (f *Frame) Clone() *Frame {
	out := New()
	for _, c := range f.columns {
		out.put(c.clone(), f.rows)
	}
	out.rows = f.rows
	return out
}

// Take returns a frame holding the given rows in the given order.
func (f *Frame) Take(indices []int) *Frame {
	out := New()
	for _, c := range f.columns {
		out.put(c.take(indices), len(indices))
	}
	out.rows = len(indices)
	return out
}

func (f *Frame) Filter(keep func(row int) bool) *Frame {
	indices := make([]int, 0, f.rows)
	for i := 0; i < f.rows; i++ {
		if keep(i) {
			indices = append(indices, i)
		}
	}
	return f.Take(indices)
}

// DropDuplicates removes rows equal to an earlier row on every column. Two
// NaNs compare equal, as do two missing categorical values.
func (f *Frame) DropDuplicates() *Frame {
	seen := make(map[string]struct{}, f.rows)
	return f.Filter(func(row int) bool {
		key := f.rowKey(row)
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
		return true
	})
}

// Duplicates counts the rows DropDuplicates would remove.
func (f *Frame) Duplicates() int {
	return f.rows - f.DropDuplicates().Len()
}

func (f *Frame) rowKey(row int) string {
	var b strings.Builder
	for _, c := range f.columns {
		switch c.kind {
		case KindNumeric:
			v := c.nums[row]
			if math.IsNaN(v) {
				b.WriteString("n:")
			} else {
				b.WriteString("f:")
				b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
			}
		case KindCategorical:
			if !c.valid[row] {
				b.WriteString("m:")
			} else {
				b.WriteString("s")
				b.WriteString(strconv.Itoa(len(c.strs[row])))
				b.WriteString(":")
				b.WriteString(c.strs[row])
			}
		}
		b.WriteByte(0)
	}
	return b.String()
}

// Value returns the cell at row as a float64, string or nil when missing.
func (f *Frame) Value(name string, row int) any {
	i, ok := f.index[name]
	if !ok || row < 0 || row >= f.rows {
		return nil
	}
	c := f.columns[i]
	switch c.kind {
	case KindNumeric:
		if math.IsNaN(c.nums[row]) {
			return nil
		}
		return c.nums[row]
	default:
		if !c.valid[row] {
			return nil
		}
		return c.strs[row]
	}
}

// GroupBy partitions row indices by the values of a categorical column.
// Keys are returned in ascending order and rows with a missing key are left out.
func (f *Frame) GroupBy(name string) ([]string, map[string][]int, error) {
	values, valid, ok := f.Categorical(name)
	if !ok {
		return nil, nil, fmt.Errorf("column %q is not a categorical column", name)
	}
	groups := make(map[string][]int)
	for i, v := range values {
		if !valid[i] {
			continue
		}
		groups[v] = append(groups[v], i)
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, groups, nil
}
