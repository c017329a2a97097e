// Package deck loads presentation templates and fills their named regions.
package deck

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"sheetDeck/internal/errs"
	"sheetDeck/internal/logger"

	"github.com/beevik/etree"
	"github.com/tiendc/go-deepcopy"
)

const (
	contentTypesPart = "[Content_Types].xml"
	presentationPart = "ppt/presentation.xml"
	presentationRels = "ppt/_rels/presentation.xml.rels"
	slidePrefix      = "ppt/slides/slide"
)

// Part is one file of the package.
type Part struct {
	Name   string
	Method uint16
	Data   []byte
}

// Template is a parsed, read-only presentation package. Every call to
// Instantiate yields an independent Document.
type Template struct {
	parts  []Part
	slides []string
}

// LoadTemplate reads the presentation at filename and validates that every
// slide parses.
func LoadTemplate(filename string) (*Template, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, &errs.TemplateLoadError{Path: filename, Err: err}
	}

	t, err := parseTemplate(data)
	if err != nil {
		return nil, &errs.TemplateLoadError{Path: filename, Err: err}
	}

	logger.Info("Loaded template", "path", filename, "parts", len(t.parts), "slides", len(t.slides))
	return t, nil
}

func parseTemplate(data []byte) (*Template, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	t := &Template{}
	index := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		content, err := readZipFile(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Name, err)
		}
		t.parts = append(t.parts, Part{Name: f.Name, Method: f.Method, Data: content})
		index[f.Name] = content
	}

	for _, name := range []string{contentTypesPart, presentationPart} {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("%w: %s", errs.ErrMissingPart, name)
		}
	}

	t.slides = slideOrder(index)
	if len(t.slides) == 0 {
		return nil, errs.ErrNoSlides
	}

	for _, name := range t.slides {
		doc := etree.NewDocument()
		if err := doc.ReadFromBytes(index[name]); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		if spTree(doc) == nil {
			return nil, fmt.Errorf("parsing %s: no shape tree", name)
		}
	}

	return t, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// slideOrder lists slide parts in presentation order, following the slide
// id list and its relationships. When those cannot be resolved it falls back
// to the numeric order of the slide file names.
func slideOrder(index map[string][]byte) []string {
	if ordered := orderFromPresentation(index); len(ordered) > 0 {
		return ordered
	}

	var slides []string
	for name := range index {
		if isSlidePart(name) {
			slides = append(slides, name)
		}
	}
	sort.Slice(slides, func(i, j int) bool {
		return extractSlideNumber(slides[i]) < extractSlideNumber(slides[j])
	})
	return slides
}

func orderFromPresentation(index map[string][]byte) []string {
	relsData, ok := index[presentationRels]
	if !ok {
		return nil
	}
	rels := etree.NewDocument()
	if err := rels.ReadFromBytes(relsData); err != nil || rels.Root() == nil {
		return nil
	}
	targets := make(map[string]string)
	for _, rel := range rels.Root().ChildElements() {
		id := rel.SelectAttrValue("Id", "")
		target := rel.SelectAttrValue("Target", "")
		if id == "" || target == "" {
			continue
		}
		if strings.HasPrefix(target, "/") {
			targets[id] = strings.TrimPrefix(target, "/")
		} else {
			targets[id] = path.Clean(path.Join("ppt", target))
		}
	}

	pres := etree.NewDocument()
	if err := pres.ReadFromBytes(index[presentationPart]); err != nil || pres.Root() == nil {
		return nil
	}
	idList := child(pres.Root(), nsPresentationML, "sldIdLst")

	var slides []string
	for _, sldID := range children(idList, nsPresentationML, "sldId") {
		for _, a := range sldID.Attr {
			if a.Key != "id" || a.Space == "" {
				continue
			}
			if target, ok := targets[a.Value]; ok {
				if _, exists := index[target]; exists {
					slides = append(slides, target)
				}
			}
		}
	}
	return slides
}

func isSlidePart(name string) bool {
	return strings.HasPrefix(name, slidePrefix) && strings.HasSuffix(name, ".xml") && !strings.Contains(name, "_rels")
}

// extractSlideNumber extracts the slide number from a path like "ppt/slides/slide1.xml"
func extractSlideNumber(name string) int {
	name = strings.TrimPrefix(name, slidePrefix)
	name = strings.TrimSuffix(name, ".xml")
	var num int
	fmt.Sscanf(name, "%d", &num)
	return num
}

// SlideCount returns the number of slides in presentation order.
func (t *Template) SlideCount() int {
	return len(t.slides)
}

// Instantiate returns a fresh Document sharing no mutable state with the
// template or any other instantiation. Saving a Document rewrites its own
// part table, so each one gets a deep copy.
func (t *Template) Instantiate() (*Document, error) {
	var parts []Part
	if err := deepcopy.Copy(&parts, t.parts); err != nil {
		return nil, fmt.Errorf("copying template parts: %w", err)
	}

	byName := make(map[string]int, len(parts))
	for i, p := range parts {
		byName[p.Name] = i
	}

	doc := &Document{parts: parts}
	for _, name := range t.slides {
		x := etree.NewDocument()
		if err := x.ReadFromBytes(parts[byName[name]].Data); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		doc.slides = append(doc.slides, &Slide{Name: name, xml: x})
	}

	return doc, nil
}

// RegionNames lists the distinct region identifiers across all slides in
// order of first appearance.
func (t *Template) RegionNames() ([]string, error) {
	doc, err := t.Instantiate()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var names []string
	for _, slide := range doc.Slides() {
		for _, region := range slide.Regions() {
			name := region.Name()
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}
	return names, nil
}
