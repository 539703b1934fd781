package pdf

import (
	"fmt"
	"sort"
	"strings"

	pdfreader "github.com/ledongthuc/pdf"
)

// rowTolerance groups glyphs whose baselines differ by less than this
// many points into the same text row.
const rowTolerance = 2.0

// FindAnchors extracts the positioned text of the given page and
// locates each label, returning the baseline origin of each label's
// first glyph. Every label must occur on the page; a missing one is an
// error, since stamping against a template that lost its anchors would
// place content blindly.
func FindAnchors(path string, page int, labels []string) (map[string]Point, error) {
	f, r, err := pdfreader.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening template %s: %w", path, err)
	}
	defer f.Close()

	if page < 1 || page > r.NumPage() {
		return nil, fmt.Errorf("template has %d page(s), page %d requested", r.NumPage(), page)
	}

	p := r.Page(page)
	if p.V.IsNull() {
		return nil, fmt.Errorf("template page %d is empty", page)
	}
	texts := p.Content().Text

	found := make(map[string]Point, len(labels))
	for _, label := range labels {
		pos, ok := searchTexts(texts, label)
		if !ok {
			return nil, fmt.Errorf("anchor %q not found on page %d", label, page)
		}
		found[label] = pos
	}
	return found, nil
}

// textRow is one reassembled line of page text: the concatenated string
// plus, per byte offset, the glyph run it came from.
type textRow struct {
	y       float64
	text    string
	sources []int // sources[i] indexes the run that produced text byte i
	runs    []pdfreader.Text
}

// searchTexts reassembles the page's glyph runs into rows and scans
// them for label. Extraction yields runs in drawing order, often one
// glyph at a time, so rows are grouped by baseline and sorted by X
// before matching.
func searchTexts(texts []pdfreader.Text, label string) (Point, bool) {
	for _, row := range assembleRows(texts) {
		idx := strings.Index(row.text, label)
		if idx < 0 {
			continue
		}
		run := row.runs[row.sources[idx]]
		return Point{X: run.X, Y: run.Y}, true
	}
	return Point{}, false
}

// assembleRows groups glyph runs by baseline (within rowTolerance) and
// concatenates each group in left-to-right order.
func assembleRows(texts []pdfreader.Text) []textRow {
	var rows []textRow

	for _, t := range texts {
		if t.S == "" {
			continue
		}
		placed := false
		for i := range rows {
			if abs(rows[i].y-t.Y) <= rowTolerance {
				rows[i].runs = append(rows[i].runs, t)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, textRow{y: t.Y, runs: []pdfreader.Text{t}})
		}
	}

	for i := range rows {
		row := &rows[i]
		sort.SliceStable(row.runs, func(a, b int) bool {
			return row.runs[a].X < row.runs[b].X
		})
		var b strings.Builder
		for ri, run := range row.runs {
			b.WriteString(run.S)
			for range []byte(run.S) {
				row.sources = append(row.sources, ri)
			}
		}
		row.text = b.String()
	}

	// Top-to-bottom page order, so the first match wins predictably.
	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].y > rows[b].y
	})
	return rows
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
