// Package orlib reads set covering benchmark instances. Indices and
// column numbers in the files start at 1.
package orlib

import (
	"io"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"

	"setcover/cover"
)

const (
	FormatOR   = "or"
	FormatRail = "rail"
	FormatXu   = "xu"
)

// Instance is a parsed problem. Duplicates counts the subsets that were
// dropped because an equal subset came earlier.
type Instance struct {
	Family     *cover.Family
	Duplicates int
}

func Parse(format, name string, r io.Reader) (*Instance, error) {
	return ParseLimited(format, name, r, 0)
}

// ParseLimited is Parse rejecting headers that announce more than limit
// rows or columns before anything is allocated. A limit of 0 disables
// the check.
func ParseLimited(format, name string, r io.Reader, limit int) (*Instance, error) {
	switch format {
	case FormatOR:
		return parseOR(name, r, limit)
	case FormatRail:
		return parseRail(name, r, limit)
	case FormatXu:
		return parseXu(name, r, limit)
	default:
		return nil, errors.Errorf("unknown instance format %q", format)
	}
}

func checkLimit(name string, rows, columns, limit int) error {
	if limit > 0 && (rows > limit || columns > limit) {
		return errors.Errorf("%s: matrix dimension %d %d exceeds limit %d", name, rows, columns, limit)
	}
	return nil
}

// stream walks the numbers after the header of a matrix file.
type stream struct {
	values []*number
	next   int
	end    lexer.Position
}

func (s *stream) nextFloat(what string) (float64, error) {
	if s.next >= len(s.values) {
		return 0, errors.Errorf("%s: unexpected end of input, expected %s", s.end, what)
	}
	s.next++
	return s.values[s.next-1].Value, nil
}

// nextInt reads an integer in [low, high].
func (s *stream) nextInt(what string, low, high int) (int, error) {
	if s.next >= len(s.values) {
		return 0, errors.Errorf("%s: unexpected end of input, expected %s", s.end, what)
	}
	n := s.values[s.next]
	s.next++
	if n.Value != float64(int(n.Value)) || int(n.Value) < low || int(n.Value) > high {
		return 0, errors.Errorf("%s: invalid %s %v", n.Pos, what, n.Value)
	}
	return int(n.Value), nil
}

func (s *stream) done() error {
	if s.next < len(s.values) {
		return errors.Errorf("%s: unparsed data", s.values[s.next].Pos)
	}
	return nil
}

func parseMatrix(name string, r io.Reader, limit int) (*matrixFile, *stream, error) {
	file, err := matrixParser.Parse(name, r)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "parse %s", name)
	}
	if file.Rows < 0 || file.Columns < 0 {
		return nil, nil, errors.Errorf("%s: undefined matrix dimension %d %d", name, file.Rows, file.Columns)
	}
	if err := checkLimit(name, file.Rows, file.Columns, limit); err != nil {
		return nil, nil, err
	}
	end := lexer.Position{Filename: name}
	if n := len(file.Values); n > 0 {
		end = file.Values[n-1].Pos
	}
	return file, &stream{values: file.Values, end: end}, nil
}

// build adds one subset per column and counts the duplicates.
func build(universe int, costs []float64, columns [][]int) (*Instance, error) {
	inst := &Instance{Family: cover.NewFamily(universe)}
	for k, indices := range columns {
		s, err := cover.NewSubset(universe, costs[k], indices...)
		if err != nil {
			return nil, errors.Wrapf(err, "column %d", k+1)
		}
		if inst.Family.Contains(s) {
			inst.Duplicates++
			continue
		}
		if err := inst.Family.Add(s); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

// ParseOR reads the OR-Library format: rows and columns, the cost of
// every column, then for every row the number of columns covering it
// followed by those columns.
func ParseOR(name string, r io.Reader) (*Instance, error) {
	return parseOR(name, r, 0)
}

func parseOR(name string, r io.Reader, limit int) (*Instance, error) {
	file, in, err := parseMatrix(name, r, limit)
	if err != nil {
		return nil, err
	}
	costs := make([]float64, file.Columns)
	for k := range costs {
		if costs[k], err = in.nextFloat("column cost"); err != nil {
			return nil, err
		}
	}
	columns := make([][]int, file.Columns)
	for row := 0; row < file.Rows; row++ {
		n, err := in.nextInt("column count", 0, file.Columns)
		if err != nil {
			return nil, err
		}
		for j := 0; j < n; j++ {
			col, err := in.nextInt("column number", 1, file.Columns)
			if err != nil {
				return nil, err
			}
			columns[col-1] = append(columns[col-1], row)
		}
	}
	if err := in.done(); err != nil {
		return nil, err
	}
	return build(file.Rows, costs, columns)
}

// ParseRail reads the format of the railway crew scheduling instances:
// rows and columns, then for every column its cost, the number of rows
// it covers and those rows.
func ParseRail(name string, r io.Reader) (*Instance, error) {
	return parseRail(name, r, 0)
}

func parseRail(name string, r io.Reader, limit int) (*Instance, error) {
	file, in, err := parseMatrix(name, r, limit)
	if err != nil {
		return nil, err
	}
	costs := make([]float64, file.Columns)
	columns := make([][]int, file.Columns)
	for k := range columns {
		if costs[k], err = in.nextFloat("column cost"); err != nil {
			return nil, err
		}
		n, err := in.nextInt("row count", 0, file.Rows)
		if err != nil {
			return nil, err
		}
		for j := 0; j < n; j++ {
			row, err := in.nextInt("row number", 1, file.Rows)
			if err != nil {
				return nil, err
			}
			columns[k] = append(columns[k], row-1)
		}
	}
	if err := in.done(); err != nil {
		return nil, err
	}
	return build(file.Rows, costs, columns)
}

// ParseXu reads the "p set" format of the BHOSLIB benchmarks. Lines
// starting with c are comments, every set line starts with s. All
// subsets cost 1.
func ParseXu(name string, r io.Reader) (*Instance, error) {
	return parseXu(name, r, 0)
}

func parseXu(name string, r io.Reader, limit int) (*Instance, error) {
	file, err := xuParser.Parse(name, r)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", name)
	}
	if err := checkLimit(name, file.Rows, file.Columns, limit); err != nil {
		return nil, err
	}
	if len(file.Sets) != file.Columns {
		return nil, errors.Errorf("%s: header announces %d sets, found %d", name, file.Columns, len(file.Sets))
	}
	costs := make([]float64, file.Columns)
	columns := make([][]int, file.Columns)
	for k, set := range file.Sets {
		costs[k] = 1
		for _, i := range set.Indices {
			if i < 1 || i > file.Rows {
				return nil, errors.Errorf("%s: invalid element %d", set.Pos, i)
			}
			columns[k] = append(columns[k], i-1)
		}
	}
	return build(file.Rows, costs, columns)
}
