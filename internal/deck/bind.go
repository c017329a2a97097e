package deck

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"sheetDeck/internal/fields"
	"sheetDeck/internal/logger"
)

// Alignment is a DrawingML paragraph alignment value.
type Alignment string

const (
	AlignLeft    Alignment = "l"
	AlignCenter  Alignment = "ctr"
	AlignRight   Alignment = "r"
	AlignJustify Alignment = "just"
)

// ParseAlignment accepts left/center/right/justify or the raw DrawingML value.
func ParseAlignment(s string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "l":
		return AlignLeft, nil
	case "center", "centre", "ctr":
		return AlignCenter, nil
	case "right", "r":
		return AlignRight, nil
	case "justify", "just":
		return AlignJustify, nil
	default:
		return "", fmt.Errorf("unknown alignment %q", s)
	}
}

// Format is the presentation formatting applied to bound regions.
type Format struct {
	SizePt float64
	Align  Alignment
}

// Font sizes a:rPr/@sz accepts, in points.
const (
	MinFontSize = 1
	MaxFontSize = 4000
)

// DefaultFormat is 18 point, left aligned.
func DefaultFormat() Format {
	return Format{SizePt: 18, Align: AlignLeft}
}

// NewFormat validates a configured font size and alignment name.
func NewFormat(sizePt float64, align string) (Format, error) {
	a, err := ParseAlignment(align)
	if err != nil {
		return Format{}, err
	}
	f := Format{SizePt: sizePt, Align: a}
	if hundredths := f.hundredths(); hundredths < MinFontSize*100 || hundredths > MaxFontSize*100 {
		return Format{}, fmt.Errorf("font size %g pt out of range (%d-%d)", sizePt, MinFontSize, MaxFontSize)
	}
	return f, nil
}

func (f Format) hundredths() int {
	return int(math.Round(f.SizePt * 100))
}

// sizeAttr renders the size in hundredths of a point, as a:rPr/@sz expects.
func (f Format) sizeAttr() string {
	return strconv.Itoa(f.hundredths())
}

// Bind overwrites every region whose name is a field of fs, then formats it.
// Matching is exact and case-sensitive; other regions are untouched. It
// returns the number of regions bound.
func Bind(doc *Document, fs fields.FieldSet, f Format) int {
	bound := 0
	for _, slide := range doc.Slides() {
		for _, region := range slide.Regions() {
			name := region.Name()
			value, ok := fs.Lookup(name)
			if !ok {
				continue
			}
			created := !region.HasTextBody()
			region.SetText(value.String())
			region.ApplyFormat(f)
			bound++

			if logger.DebugEnabled() {
				logger.Debug("Bound region",
					"slide", slide.Name,
					"region", name,
					"created_text_body", created,
					"runs", region.Runs(),
					"sizes", region.RunSizes(),
					"align", region.Alignments())
			}
		}
	}
	return bound
}
