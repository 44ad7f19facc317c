// Package pdftext reads the text layer of PDF tickets.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"flightdocs/internal/domain"
)

// rowTolerance is how far apart two baselines may be, in points, and still
// count as the same row.
const rowTolerance = 2.0

// Extractor implements port.PDFTextExtractor using ledongthuc/pdf.
type Extractor struct{}

// NewExtractor creates an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractText returns the text of every page in order, one line per visual
// row. Glyphs are placed by their text matrix, so content positioned with
// Td or Tm still breaks into rows. Errors wrap domain.ErrPDFExtractionFailed.
func (e *Extractor) ExtractText(ctx context.Context, data []byte) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: %v", domain.ErrPDFExtractionFailed, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrPDFExtractionFailed, err)
	}
	if reader.NumPage() == 0 {
		return "", fmt.Errorf("%w: document has no pages", domain.ErrPDFExtractionFailed)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows := groupIntoRows(fragments(page.Content().Text))
		if len(rows) > 0 {
			pages = append(pages, strings.Join(rows, "\n"))
		}
	}
	return strings.Join(pages, "\n"), nil
}

// fragment is a run of glyphs emitted back to back on one baseline.
type fragment struct {
	x, y float64
	text strings.Builder
}

// fragments splits the glyph stream wherever the baseline changes, the pen
// moves backwards, or it jumps forward past the previous glyph.
func fragments(glyphs []pdf.Text) []*fragment {
	var (
		out        []*fragment
		cur        *fragment
		prevX      float64
		prevExtent float64
	)
	for _, g := range glyphs {
		if g.S == "\n" || g.S == "" {
			cur = nil
			continue
		}
		slack := g.FontSize * 0.3
		if cur == nil ||
			math.Abs(g.Y-cur.y) >= rowTolerance ||
			g.X < prevX ||
			g.X > prevExtent+slack {
			cur = &fragment{x: g.X, y: g.Y}
			out = append(out, cur)
		}
		cur.text.WriteString(g.S)
		prevX = g.X
		prevExtent = g.X + g.W
	}
	return out
}

// groupIntoRows buckets fragments by baseline, top of the page first, and
// joins each row left to right.
func groupIntoRows(frags []*fragment) []string {
	type row struct {
		y     float64
		frags []*fragment
	}
	var rows []*row
	for _, f := range frags {
		placed := false
		for _, r := range rows {
			if math.Abs(r.y-f.y) < rowTolerance {
				r.frags = append(r.frags, f)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, &row{y: f.y, frags: []*fragment{f}})
		}
	}

	// PDF y grows upwards.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].y > rows[j].y })

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		sort.SliceStable(r.frags, func(i, j int) bool { return r.frags[i].x < r.frags[j].x })
		var b strings.Builder
		for _, f := range r.frags {
			s := f.text.String()
			if b.Len() > 0 && !strings.HasSuffix(b.String(), " ") && !strings.HasPrefix(s, " ") {
				b.WriteByte(' ')
			}
			b.WriteString(s)
		}
		if line := strings.TrimSpace(b.String()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
