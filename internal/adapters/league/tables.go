package league

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"matchhub/internal/domain/league"
)

// htmlTable is a parsed <table>: header labels plus body rows.
type htmlTable struct {
	Header []string
	Rows   []htmlRow
}

// htmlRow keeps the <tr> node next to its cell texts so callers can look
// at markup inside the row (logos, classes).
type htmlRow struct {
	Cells []string
	Node  *html.Node
}

// parseTables returns every table in document order. The header comes from
// <th> cells (thead or first row); rows without <td> cells are dropped.
// Duplicate header labels get ".1", ".2" suffixes.
func parseTables(doc *html.Node) []htmlTable {
	var tables []htmlTable
	walk(doc, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "table" {
			tables = append(tables, parseTable(n))
			return false
		}
		return true
	})
	return tables
}

func parseTable(table *html.Node) htmlTable {
	var t htmlTable
	walk(table, func(n *html.Node) bool {
		if n != table && n.Type == html.ElementNode && n.Data == "table" {
			return false
		}
		if n.Type != html.ElementNode || n.Data != "tr" {
			return true
		}
		var headers, cells []string
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "th":
				headers = append(headers, textOf(c))
			case "td":
				cells = append(cells, textOf(c))
			}
		}
		switch {
		case len(cells) > 0:
			t.Rows = append(t.Rows, htmlRow{Cells: cells, Node: n})
		case len(headers) > 0 && t.Header == nil:
			t.Header = uniqueLabels(headers)
		}
		return false
	})
	return t
}

// cell returns the i-th cell or "" when the row is short.
func (r htmlRow) cell(i int) string {
	if i < 0 || i >= len(r.Cells) {
		return ""
	}
	return r.Cells[i]
}

// column finds the first header containing substr.
func (t htmlTable) column(substr string) int {
	for i, h := range t.Header {
		if strings.Contains(h, substr) {
			return i
		}
	}
	return -1
}

// width is the number of columns of the table.
func (t htmlTable) width() int {
	w := len(t.Header)
	for _, r := range t.Rows {
		if len(r.Cells) > w {
			w = len(r.Cells)
		}
	}
	return w
}

func uniqueLabels(labels []string) []string {
	seen := make(map[string]int, len(labels))
	out := make([]string, len(labels))
	for i, l := range labels {
		if n, ok := seen[l]; ok {
			out[i] = fmt.Sprintf("%s.%d", l, n)
			seen[l] = n + 1
			continue
		}
		seen[l] = 1
		out[i] = l
	}
	return out
}

// walk visits n and its descendants depth-first; visit returns false to skip children.
func walk(n *html.Node, visit func(*html.Node) bool) {
	if !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

// textOf concatenates the text below n and collapses whitespace.
func textOf(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
			sb.WriteByte(' ')
		}
		return true
	})
	return league.Clean(sb.String())
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
