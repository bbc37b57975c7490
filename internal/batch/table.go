package batch

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/facette/natsort"

	"github.com/san-kum/corotrap/internal/analysis"
	"github.com/san-kum/corotrap/internal/config"
	"github.com/san-kum/corotrap/internal/storage"
)

// Row is one line of the batch table.
type Row struct {
	Name       string
	Config     *config.Config
	Lz         [5]float64
	Class      analysis.TrappingClass
	Classified bool
}

// TableColumns is the header of the batch table.
var TableColumns = append(append([]string{}, config.Params...), "Lz0", "Lz1", "Lz2", "Lz3", "Lz4", "class")

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Fields returns the row's values in TableColumns order. An unclassified
// run has class NA.
func (r Row) Fields() []string {
	fields := make([]string, 0, len(TableColumns))
	for _, name := range config.Params {
		v, _ := r.Config.Get(name)
		fields = append(fields, formatFloat(v))
	}
	for _, lz := range r.Lz {
		fields = append(fields, formatFloat(lz))
	}
	if r.Classified {
		fields = append(fields, strconv.Itoa(int(r.Class)))
	} else {
		fields = append(fields, "NA")
	}
	return fields
}

// SortRows orders rows naturally by dump name.
func SortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		return natsort.Compare(rows[i].Name, rows[j].Name)
	})
}

// WriteTable writes a commented header and one space-delimited line per
// row, in natural dump-name order.
func WriteTable(w io.Writer, rows []Row) error {
	sorted := append([]Row(nil), rows...)
	SortRows(sorted)

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %s\n", strings.Join(TableColumns, " "))
	for _, r := range sorted {
		fmt.Fprintln(bw, strings.Join(r.Fields(), " "))
	}
	return bw.Flush()
}

// ReadTable parses a table written by WriteTable.
func ReadTable(r io.Reader) ([]Row, error) {
	var rows []Row
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != len(TableColumns) {
			return nil, fmt.Errorf("batch: table line %d: expected %d columns, got %d", line, len(TableColumns), len(fields))
		}

		row := Row{Config: config.DefaultConfig()}
		for i, name := range config.Params {
			v, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, fmt.Errorf("batch: table line %d: %s: %w", line, name, err)
			}
			if err := row.Config.Set(name, v); err != nil {
				return nil, fmt.Errorf("batch: table line %d: %w", line, err)
			}
		}
		off := len(config.Params)
		for i := range row.Lz {
			v, err := strconv.ParseFloat(fields[off+i], 64)
			if err != nil {
				return nil, fmt.Errorf("batch: table line %d: Lz%d: %w", line, i, err)
			}
			row.Lz[i] = v
		}
		if last := fields[len(fields)-1]; last != "NA" {
			class, err := analysis.ParseTrappingClass(last)
			if err != nil {
				return nil, fmt.Errorf("batch: table line %d: %w", line, err)
			}
			row.Class, row.Classified = class, true
		}
		row.Name = storage.DumpName(row.Config)
		rows = append(rows, row)
	}
	return rows, sc.Err()
}
