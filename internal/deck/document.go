package deck

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
)

// Document is one instantiated presentation. It exists only in memory until
// Save is called.
type Document struct {
	parts  []Part
	slides []*Slide
}

// Slide is one page of a Document.
type Slide struct {
	Name string
	xml  *etree.Document
}

// Region is a named text-bearing shape on a slide.
type Region struct {
	sp *etree.Element
}

func (d *Document) Slides() []*Slide {
	return d.slides
}

// Save serializes the slides back into the document's parts and writes
// the package, parts in template order.
func (d *Document) Save(w io.Writer) error {
	if err := d.sync(); err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	for _, p := range d.parts {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: p.Name, Method: p.Method})
		if err != nil {
			return fmt.Errorf("adding %s: %w", p.Name, err)
		}
		if _, err := fw.Write(p.Data); err != nil {
			return fmt.Errorf("writing %s: %w", p.Name, err)
		}
	}
	return zw.Close()
}

// sync replaces the bytes of every slide part with the current slide XML.
func (d *Document) sync() error {
	index := make(map[string]int, len(d.parts))
	for i, p := range d.parts {
		index[p.Name] = i
	}

	for _, s := range d.slides {
		data, err := s.xml.WriteToBytes()
		if err != nil {
			return fmt.Errorf("serializing %s: %w", s.Name, err)
		}
		i, ok := index[s.Name]
		if !ok {
			return fmt.Errorf("serializing %s: part not in package", s.Name)
		}
		d.parts[i].Data = data
	}
	return nil
}

func spTree(doc *etree.Document) *etree.Element {
	root := doc.Root()
	if root == nil {
		return nil
	}
	return child(child(root, nsPresentationML, "cSld"), nsPresentationML, "spTree")
}

// Regions returns every shape on the slide in document order, descending
// into groups.
func (s *Slide) Regions() []*Region {
	var out []*Region
	collectRegions(spTree(s.xml), &out)
	return out
}

func collectRegions(tree *etree.Element, out *[]*Region) {
	if tree == nil {
		return
	}
	for _, el := range tree.ChildElements() {
		switch {
		case is(el, nsPresentationML, "sp"):
			*out = append(*out, &Region{sp: el})
		case is(el, nsPresentationML, "grpSp"):
			collectRegions(el, out)
		}
	}
}

// Name returns the shape name from p:nvSpPr/p:cNvPr.
func (r *Region) Name() string {
	cNvPr := child(child(r.sp, nsPresentationML, "nvSpPr"), nsPresentationML, "cNvPr")
	if cNvPr == nil {
		return ""
	}
	return cNvPr.SelectAttrValue("name", "")
}

func (r *Region) txBody() *etree.Element {
	return child(r.sp, nsPresentationML, "txBody")
}

// HasTextBody reports whether the shape currently carries p:txBody.
func (r *Region) HasTextBody() bool {
	return r.txBody() != nil
}

// Text returns the paragraphs of the region joined by "\n". Line breaks
// inside a paragraph read as "\v".
func (r *Region) Text() string {
	body := r.txBody()
	if body == nil {
		return ""
	}

	paragraphs := children(body, nsDrawingML, "p")
	lines := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		var b strings.Builder
		for _, el := range p.ChildElements() {
			switch {
			case is(el, nsDrawingML, "r"), is(el, nsDrawingML, "fld"):
				if t := child(el, nsDrawingML, "t"); t != nil {
					b.WriteString(t.Text())
				}
			case is(el, nsDrawingML, "br"):
				b.WriteString("\v")
			}
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

// SetText replaces the whole text body: one paragraph per line, one run per
// non-empty line, "\v" becoming a line break. Paragraph and run properties of
// the old body are dropped; body properties are kept.
func (r *Region) SetText(text string) {
	body := r.ensureTxBody()
	for _, p := range children(body, nsDrawingML, "p") {
		body.RemoveChild(p)
	}

	a := prefixFor(body, nsDrawingML, "a")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	for _, line := range strings.Split(text, "\n") {
		p := body.CreateElement(qualify(a, "p"))
		for i, segment := range strings.Split(line, "\v") {
			if i > 0 {
				p.CreateElement(qualify(a, "br"))
			}
			if segment == "" {
				continue
			}
			run := p.CreateElement(qualify(a, "r"))
			run.CreateElement(qualify(a, "t")).SetText(segment)
		}
	}
}

// ensureTxBody returns p:txBody, creating <p:txBody><a:bodyPr/><a:lstStyle/>
// after the shape properties when the shape has none.
func (r *Region) ensureTxBody() *etree.Element {
	if body := r.txBody(); body != nil {
		return body
	}

	body := etree.NewElement(qualify(r.sp.Space, "txBody"))
	a := prefixFor(r.sp, nsDrawingML, "a")
	body.CreateElement(qualify(a, "bodyPr"))
	body.CreateElement(qualify(a, "lstStyle"))

	if ext := child(r.sp, nsPresentationML, "extLst"); ext != nil {
		r.sp.InsertChildAt(ext.Index(), body)
	} else {
		r.sp.AddChild(body)
	}
	return body
}

// ApplyFormat sets the font size of every run and the alignment of every
// paragraph that holds at least one run. A region with no runs is left as is.
func (r *Region) ApplyFormat(f Format) {
	body := r.txBody()
	if body == nil {
		return
	}

	size := f.sizeAttr()
	for _, p := range children(body, nsDrawingML, "p") {
		runs := children(p, nsDrawingML, "r")
		for _, run := range runs {
			firstChild(run, nsDrawingML, "rPr").CreateAttr("sz", size)
		}
		if len(runs) > 0 {
			firstChild(p, nsDrawingML, "pPr").CreateAttr("algn", string(f.Align))
		}
	}
}

// Runs returns the number of text runs per paragraph.
func (r *Region) Runs() []int {
	body := r.txBody()
	var out []int
	for _, p := range children(body, nsDrawingML, "p") {
		out = append(out, len(children(p, nsDrawingML, "r")))
	}
	return out
}

// RunSizes returns the sz attribute of every run in order; "" when unset.
func (r *Region) RunSizes() []string {
	var out []string
	for _, p := range children(r.txBody(), nsDrawingML, "p") {
		for _, run := range children(p, nsDrawingML, "r") {
			rPr := child(run, nsDrawingML, "rPr")
			if rPr == nil {
				out = append(out, "")
				continue
			}
			out = append(out, rPr.SelectAttrValue("sz", ""))
		}
	}
	return out
}

// Alignments returns the algn attribute of every paragraph; "" when unset.
func (r *Region) Alignments() []string {
	var out []string
	for _, p := range children(r.txBody(), nsDrawingML, "p") {
		pPr := child(p, nsDrawingML, "pPr")
		if pPr == nil {
			out = append(out, "")
			continue
		}
		out = append(out, pPr.SelectAttrValue("algn", ""))
	}
	return out
}
