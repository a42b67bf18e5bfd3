package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorCyan).PaddingRight(1)
	tableCellStyle   = lipgloss.NewStyle().PaddingRight(1)
	tableDimStyle    = tableCellStyle.Foreground(ColorDimGray)
)

// Table collects rows for a borderless listing such as channels or
// releases. Rows shorter than the header are padded with empty cells.
type Table struct {
	headers []string
	rows    [][]string
	dim     map[int]bool
	empty   string
}

// NewTable creates a table with the given column headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers, dim: map[int]bool{}}
}

// Row appends a row.
func (t *Table) Row(cells ...string) *Table {
	row := make([]string, max(len(cells), len(t.headers)))
	copy(row, cells)
	t.rows = append(t.rows, row)
	return t
}

// Dim renders the given columns in the dim style. Used for timestamps and
// other secondary data.
func (t *Table) Dim(cols ...int) *Table {
	for _, c := range cols {
		t.dim[c] = true
	}
	return t
}

// Empty sets the message shown instead of the table when it has no rows.
func (t *Table) Empty(msg string) *Table {
	t.empty = msg
	return t
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// String renders the table.
func (t *Table) String() string {
	if len(t.rows) == 0 && t.empty != "" {
		return StyleDim.Render(t.empty)
	}

	tbl := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderHeader(false).
		Headers(t.headers...).
		Rows(t.rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case t.dim[col]:
				return tableDimStyle
			}
			return tableCellStyle
		})
	return tbl.String()
}

// WriteTo writes the rendered table followed by a newline.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	n, err := fmt.Fprintln(w, t.String())
	return int64(n), err
}
