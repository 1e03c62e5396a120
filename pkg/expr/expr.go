// Package expr provides deferred expressions resolved against attached data.
//
// Builders accept either literal value vectors or column references into a
// map's attached dataset. A reference is an opaque value until it is passed
// through Resolve explicitly; builders resolve once per call, never
// implicitly, so the operation log only ever holds concrete values.
package expr

import "github.com/tilewright/tilewright/pkg/errors"

// Dataset is a named-column table attached to a map handle. Columns are
// either numeric or string valued.
type Dataset struct {
	numbers map[string][]float64
	strings map[string][]string
}

// NewDataset creates an empty dataset.
func NewDataset() *Dataset {
	return &Dataset{
		numbers: make(map[string][]float64),
		strings: make(map[string][]string),
	}
}

// SetNumbers adds or replaces a numeric column. Returns the dataset for
// chaining.
func (d *Dataset) SetNumbers(name string, values []float64) *Dataset {
	d.numbers[name] = values
	return d
}

// SetStrings adds or replaces a string column. Returns the dataset for
// chaining.
func (d *Dataset) SetStrings(name string, values []string) *Dataset {
	d.strings[name] = values
	return d
}

// Expr is a deferred value: either a literal vector or a reference to a
// dataset column. The zero value resolves to nil without error.
type Expr struct {
	col  string
	nums []float64
	strs []string
}

// Lit wraps a literal numeric vector.
func Lit(values []float64) Expr {
	return Expr{nums: values}
}

// LitStrings wraps a literal string vector.
func LitStrings(values []string) Expr {
	return Expr{strs: values}
}

// Col references a dataset column by name; resolution is deferred until
// Resolve is called with a dataset.
func Col(name string) Expr {
	return Expr{col: name}
}

// IsZero reports whether the expression carries no value or reference.
func (e Expr) IsZero() bool {
	return e.col == "" && e.nums == nil && e.strs == nil
}

// ResolveNumbers resolves e against d to a numeric vector. Literal string
// vectors and references to string columns fail with a coded error.
func ResolveNumbers(e Expr, d *Dataset) ([]float64, error) {
	switch {
	case e.nums != nil:
		return e.nums, nil
	case e.strs != nil:
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"expected a numeric expression, got a string literal")
	case e.col != "":
		if d == nil {
			return nil, errors.New(errors.ErrCodeUnknownColumn,
				"column %q referenced but no dataset attached", e.col)
		}
		if v, ok := d.numbers[e.col]; ok {
			return v, nil
		}
		if _, ok := d.strings[e.col]; ok {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"column %q is a string column, expected numeric", e.col)
		}
		return nil, errors.New(errors.ErrCodeUnknownColumn, "unknown column: %q", e.col)
	default:
		return nil, nil
	}
}

// ResolveStrings resolves e against d to a string vector. Literal numeric
// vectors and references to numeric columns fail with a coded error.
func ResolveStrings(e Expr, d *Dataset) ([]string, error) {
	switch {
	case e.strs != nil:
		return e.strs, nil
	case e.nums != nil:
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"expected a string expression, got a numeric literal")
	case e.col != "":
		if d == nil {
			return nil, errors.New(errors.ErrCodeUnknownColumn,
				"column %q referenced but no dataset attached", e.col)
		}
		if v, ok := d.strings[e.col]; ok {
			return v, nil
		}
		if _, ok := d.numbers[e.col]; ok {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"column %q is a numeric column, expected string", e.col)
		}
		return nil, errors.New(errors.ErrCodeUnknownColumn, "unknown column: %q", e.col)
	default:
		return nil, nil
	}
}
