// Package testutil builds workbook and presentation fixtures for tests.
package testutil

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// Shape describes one p:sp (or a group when Group is set) on a fixture slide.
type Shape struct {
	Name string
	// Paragraphs holds run texts per paragraph.
	Paragraphs [][]string
	// Size is the run font size in hundredths of a point; 0 omits it.
	Size int
	// Align is the paragraph algn attribute; "" omits it.
	Align string
	// NoTextBody emits a shape without p:txBody.
	NoTextBody bool
	Group      []Shape
}

// WriteWorkbook saves rows (header first) into sheet of a new workbook at path.
func WriteWorkbook(t testing.TB, path, sheet string, rows [][]any) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		if _, err := f.NewSheet(sheet); err != nil {
			t.Fatalf("creating sheet: %v", err)
		}
		if err := f.DeleteSheet("Sheet1"); err != nil {
			t.Fatalf("deleting default sheet: %v", err)
		}
	}

	for i, row := range rows {
		for j, value := range row {
			if value == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				t.Fatalf("setting %s: %v", cell, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("saving workbook: %v", err)
	}
}

// WritePresentation writes a minimal pptx package with one slide per entry.
func WritePresentation(t testing.TB, path string, slides [][]Shape) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating fixture dir: %v", err)
	}
	if err := os.WriteFile(path, Presentation(slides), 0644); err != nil {
		t.Fatalf("writing presentation: %v", err)
	}
}

// Presentation returns the bytes of a minimal pptx package.
func Presentation(slides [][]Shape) []byte {
	parts := [][2]string{
		{"[Content_Types].xml", contentTypes(len(slides))},
		{"_rels/.rels", rootRels},
		{"ppt/presentation.xml", presentationXML(len(slides))},
		{"ppt/_rels/presentation.xml.rels", presentationRels(len(slides))},
	}
	for i, shapes := range slides {
		parts = append(parts, [2]string{fmt.Sprintf("ppt/slides/slide%d.xml", i+1), SlideXML(shapes)})
	}
	return Package(parts)
}

// Package zips name/content pairs in order.
func Package(parts [][2]string) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, part := range parts {
		w, err := zw.Create(part[0])
		if err != nil {
			panic(err)
		}
		if _, err := w.Write([]byte(part[1])); err != nil {
			panic(err)
		}
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// SlideXML renders a slide part holding shapes.
func SlideXML(shapes []Shape) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	b.WriteString(`<p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`)
	id := 2
	for _, s := range shapes {
		writeShape(&b, s, &id)
	}
	b.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)
	return b.String()
}

func writeShape(b *strings.Builder, s Shape, id *int) {
	if s.Group != nil {
		fmt.Fprintf(b, `<p:grpSp><p:nvGrpSpPr><p:cNvPr id="%d" name="%s"/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`, *id, escape(s.Name))
		*id++
		for _, child := range s.Group {
			writeShape(b, child, id)
		}
		b.WriteString(`</p:grpSp>`)
		return
	}

	fmt.Fprintf(b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr><p:spPr/>`, *id, escape(s.Name))
	*id++
	if !s.NoTextBody {
		b.WriteString(`<p:txBody><a:bodyPr/><a:lstStyle/>`)
		paragraphs := s.Paragraphs
		if len(paragraphs) == 0 {
			paragraphs = [][]string{nil}
		}
		for _, runs := range paragraphs {
			b.WriteString(`<a:p>`)
			if s.Align != "" {
				fmt.Fprintf(b, `<a:pPr algn="%s"/>`, s.Align)
			}
			for _, run := range runs {
				b.WriteString(`<a:r>`)
				if s.Size > 0 {
					fmt.Fprintf(b, `<a:rPr lang="en-US" sz="%d" dirty="0"/>`, s.Size)
				} else {
					b.WriteString(`<a:rPr lang="en-US" dirty="0"/>`)
				}
				fmt.Fprintf(b, `<a:t>%s</a:t></a:r>`, escape(run))
			}
			b.WriteString(`<a:endParaRPr lang="en-US"/></a:p>`)
		}
		b.WriteString(`</p:txBody>`)
	}
	b.WriteString(`</p:sp>`)
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func contentTypes(n int) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	b.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i)
	}
	b.WriteString(`</Types>`)
	return b.String()
}

const rootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/></Relationships>`

func presentationXML(n int) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<p:presentation xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:sldIdLst>`)
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, `<p:sldId id="%d" r:id="rId%d"/>`, 255+i, i+1)
	}
	b.WriteString(`</p:sldIdLst><p:sldSz cx="12192000" cy="6858000"/></p:presentation>`)
	return b.String()
}

func presentationRels(n int) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide%d.xml"/>`, i+1, i)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}
