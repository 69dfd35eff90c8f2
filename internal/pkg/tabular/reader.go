package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// Grid is a region file as plain cells, row by row. Rows may be ragged.
type Grid [][]string

// Cell returns the trimmed cell at (row, col), or "" when out of range.
func (g Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return ""
	}
	return strings.TrimSpace(g[row][col])
}

// Width is the length of the longest row.
func (g Grid) Width() int {
	width := 0
	for _, row := range g {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

const (
	EncodingUTF8  = "utf-8"
	EncodingEUCKR = "euc-kr"
	EncodingCP949 = "cp949"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadFile picks the reader by extension: .html, .htm and .xls are treated
// as HTML table exports, everything else as CSV.
func ReadFile(path, encoding string) (Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xls":
		return ReadHTMLTable(f, encoding)
	default:
		return ReadCSV(f, encoding)
	}
}

func ReadCSV(r io.Reader, encoding string) (Grid, error) {
	r, err := decodeReader(r, encoding)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv.ReadAll: %w", err)
	}

	return rows, nil
}

// Browser limits for colspan and rowspan.
const (
	maxColspan = 1000
	maxRowspan = 65534
)

// ReadHTMLTable reads the first <table> of a document. Merged cells keep
// their text in the top-left position; the positions they cover, across
// columns and down rows, are empty so the layout lines up.
func ReadHTMLTable(r io.Reader, encoding string) (Grid, error) {
	r, err := decodeReader(r, encoding)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("goquery.NewDocumentFromReader: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("no table found")
	}

	// covered[col] is the number of following rows a rowspan still occupies.
	var covered []int
	grid := make(Grid, 0, 64)
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		row := make([]string, 0, 16)
		skipCovered := func() {
			for len(row) < len(covered) && covered[len(row)] > 0 {
				covered[len(row)]--
				row = append(row, "")
			}
		}

		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			skipCovered()

			colspan := spanAttr(cell, "colspan", maxColspan)
			rowspan := spanAttr(cell, "rowspan", maxRowspan)
			for i := 0; i < colspan; i++ {
				text := ""
				if i == 0 {
					text = strings.TrimSpace(cell.Text())
				}
				col := len(row)
				row = append(row, text)

				if rowspan > 1 {
					for len(covered) <= col {
						covered = append(covered, 0)
					}
					covered[col] = rowspan - 1
				}
			}
		})

		for col := len(row); col < len(covered); col++ {
			if covered[col] == 0 {
				continue
			}
			covered[col]--
			for len(row) <= col {
				row = append(row, "")
			}
		}
		grid = append(grid, row)
	})

	return grid, nil
}

func spanAttr(cell *goquery.Selection, name string, limit int) int {
	span, err := strconv.Atoi(strings.TrimSpace(cell.AttrOr(name, "1")))
	if err != nil || span < 1 {
		return 1
	}
	if span > limit {
		return limit
	}
	return span
}

func decodeReader(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", EncodingUTF8:
		return r, nil
	case EncodingEUCKR, EncodingCP949:
		return transform.NewReader(r, korean.EUCKR.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}
}
