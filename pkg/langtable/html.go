package langtable

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/PuerkitoBio/goquery"
)

// HTMLSource reads the first table matching Selector from an HTML document.
type HTMLSource struct {
	// Name identifies the document in errors.
	Name string
	R    io.Reader
	// Selector defaults to "table.wikitable".
	Selector string
}

// Rows returns the td text of every tbody row. Header rows built from th
// cells come back empty and are dropped by [Parse].
func (s HTMLSource) Rows() ([][]string, error) {
	doc, err := goquery.NewDocumentFromReader(s.R)
	if err != nil {
		return nil, &ParseError{Source: s.Name, Err: err}
	}

	sel := s.Selector
	if sel == "" {
		sel = "table.wikitable"
	}
	table := doc.Find(sel).First()
	if table.Length() == 0 {
		return nil, &ParseError{Source: s.Name, Err: fmt.Errorf("no %s found", sel)}
	}
	tbody := table.Find("tbody").First()
	if tbody.Length() == 0 {
		return nil, &ParseError{Source: s.Name, Err: errors.New("table has no tbody")}
	}

	var rows [][]string
	tbody.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, td.Text())
		})
		rows = append(rows, cells)
	})
	return rows, nil
}

// LoadFile parses the HTML reference table at path.
func LoadFile(path string, layout Layout) (map[string]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Source: path, Err: err}
	}
	defer f.Close()
	return Load(HTMLSource{Name: path, R: f}, layout)
}
