package deck

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"sheetDeck/internal/errs"
	"sheetDeck/internal/fields"
	"sheetDeck/internal/logger"
	"sheetDeck/internal/testutil"
)

func loadFixture(t *testing.T, slides [][]testutil.Shape) *Template {
	t.Helper()
	path := filepath.Join(t.TempDir(), "template.pptx")
	testutil.WritePresentation(t, path, slides)
	tmpl, err := LoadTemplate(path)
	if err != nil {
		t.Fatalf("LoadTemplate failed: %v", err)
	}
	return tmpl
}

func regionByName(t *testing.T, doc *Document, name string) *Region {
	t.Helper()
	for _, s := range doc.Slides() {
		for _, r := range s.Regions() {
			if r.Name() == name {
				return r
			}
		}
	}
	t.Fatalf("region %q not found", name)
	return nil
}

func fieldSet(values map[string]string) fields.FieldSet {
	cols := make([]string, 0, len(values))
	vals := make(map[string]fields.Value, len(values))
	for k, v := range values {
		cols = append(cols, k)
		if v == "" {
			vals[k] = fields.EmptyValue()
		} else {
			vals[k] = fields.TextValue(v)
		}
	}
	return fields.Normalize(fields.NewRecord(cols, vals), "")
}

func TestLoadTemplateErrors(t *testing.T) {
	dir := t.TempDir()

	notZip := filepath.Join(dir, "plain.pptx")
	if err := os.WriteFile(notZip, []byte("not a zip"), 0644); err != nil {
		t.Fatal(err)
	}

	noSlides := filepath.Join(dir, "noslides.pptx")
	testutil.WritePresentation(t, noSlides, nil)

	missingPres := filepath.Join(dir, "missing.pptx")
	if err := os.WriteFile(missingPres, testutil.Package([][2]string{
		{"[Content_Types].xml", "<Types/>"},
		{"ppt/slides/slide1.xml", testutil.SlideXML(nil)},
	}), 0644); err != nil {
		t.Fatal(err)
	}

	badSlide := filepath.Join(dir, "badslide.pptx")
	if err := os.WriteFile(badSlide, testutil.Package([][2]string{
		{"[Content_Types].xml", "<Types/>"},
		{"ppt/presentation.xml", "<p:presentation xmlns:p=\"http://schemas.openxmlformats.org/presentationml/2006/main\"/>"},
		{"ppt/slides/slide1.xml", "<<<"},
	}), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		path  string
		cause error
	}{
		{"missing file", filepath.Join(dir, "absent.pptx"), os.ErrNotExist},
		{"not a zip", notZip, nil},
		{"no slides", noSlides, errs.ErrNoSlides},
		{"missing presentation part", missingPres, errs.ErrMissingPart},
		{"malformed slide", badSlide, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTemplate(tt.path)
			var tle *errs.TemplateLoadError
			if !errors.As(err, &tle) {
				t.Fatalf("expected TemplateLoadError, got %v", err)
			}
			if tt.cause != nil && !errors.Is(err, tt.cause) {
				t.Errorf("expected cause %v, got %v", tt.cause, err)
			}
		})
	}
}

func TestSlideOrderFollowsIDList(t *testing.T) {
	pres := `<p:presentation xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:sldIdLst><p:sldId id="256" r:id="rId3"/><p:sldId id="257" r:id="rId2"/></p:sldIdLst></p:presentation>`
	rels := `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId2" Type="slide" Target="slides/slide1.xml"/><Relationship Id="rId3" Type="slide" Target="/ppt/slides/slide2.xml"/></Relationships>`

	path := filepath.Join(t.TempDir(), "ordered.pptx")
	if err := os.WriteFile(path, testutil.Package([][2]string{
		{"[Content_Types].xml", "<Types/>"},
		{"ppt/presentation.xml", pres},
		{"ppt/_rels/presentation.xml.rels", rels},
		{"ppt/slides/slide1.xml", testutil.SlideXML([]testutil.Shape{{Name: "One"}})},
		{"ppt/slides/slide2.xml", testutil.SlideXML([]testutil.Shape{{Name: "Two"}})},
	}), 0644); err != nil {
		t.Fatal(err)
	}

	tmpl, err := LoadTemplate(path)
	if err != nil {
		t.Fatalf("LoadTemplate failed: %v", err)
	}
	names, err := tmpl.RegionNames()
	if err != nil {
		t.Fatalf("RegionNames failed: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"Two", "One"}) {
		t.Errorf("region order = %v, want [Two One]", names)
	}
}

func TestSlideOrderFallsBackToFileNumber(t *testing.T) {
	path := filepath.Join(t.TempDir(), "norels.pptx")
	if err := os.WriteFile(path, testutil.Package([][2]string{
		{"[Content_Types].xml", "<Types/>"},
		{"ppt/presentation.xml", "<p:presentation xmlns:p=\"http://schemas.openxmlformats.org/presentationml/2006/main\"/>"},
		{"ppt/slides/slide10.xml", testutil.SlideXML([]testutil.Shape{{Name: "Ten"}})},
		{"ppt/slides/slide2.xml", testutil.SlideXML([]testutil.Shape{{Name: "Two"}})},
	}), 0644); err != nil {
		t.Fatal(err)
	}

	tmpl, err := LoadTemplate(path)
	if err != nil {
		t.Fatalf("LoadTemplate failed: %v", err)
	}
	names, _ := tmpl.RegionNames()
	if !reflect.DeepEqual(names, []string{"Two", "Ten"}) {
		t.Errorf("region order = %v, want [Two Ten]", names)
	}
}

func TestInstantiateIsIndependent(t *testing.T) {
	tmpl := loadFixture(t, [][]testutil.Shape{{
		{Name: "Title", Paragraphs: [][]string{{"{{Title}}"}}},
	}})

	first, err := tmpl.Instantiate()
	if err != nil {
		t.Fatalf("Instantiate failed: %v", err)
	}
	Bind(first, fieldSet(map[string]string{"Title": "Acme"}), DefaultFormat())

	second, err := tmpl.Instantiate()
	if err != nil {
		t.Fatalf("Instantiate failed: %v", err)
	}

	if got := regionByName(t, first, "Title").Text(); got != "Acme" {
		t.Errorf("first Title = %q, want Acme", got)
	}
	if got := regionByName(t, second, "Title").Text(); got != "{{Title}}" {
		t.Errorf("second Title leaked substituted text: %q", got)
	}
	if tmpl.SlideCount() != 1 {
		t.Errorf("SlideCount = %d", tmpl.SlideCount())
	}
}

func TestBind(t *testing.T) {
	tmpl := loadFixture(t, [][]testutil.Shape{
		{
			{Name: "Duckers Solution", Paragraphs: [][]string{{"old", " text"}, {"more"}}, Size: 1000, Align: "ctr"},
			{Name: "Footer", Paragraphs: [][]string{{"keep me"}}, Size: 1200, Align: "ctr"},
			{Name: "Empty", Paragraphs: [][]string{{"placeholder"}}, Align: "r"},
		},
		{
			{Name: "NoBody", NoTextBody: true},
			{Name: "Group", Group: []testutil.Shape{
				{Name: "Inner", Paragraphs: [][]string{{"x"}}},
			}},
		},
	})

	doc, err := tmpl.Instantiate()
	if err != nil {
		t.Fatalf("Instantiate failed: %v", err)
	}

	rec := fields.NewRecord(
		[]string{"Duckers Solution", "Empty", "NoBody", "Inner", "Unused"},
		map[string]fields.Value{
			"Duckers Solution": fields.TextValue("*A\n*B"),
			"NoBody":           fields.NumberValue("42"),
			"Inner":            fields.TextValue("first\vsecond"),
			"Unused":           fields.TextValue("nothing"),
		},
	)
	fs := fields.Normalize(rec, "Duckers Solution")

	if n := Bind(doc, fs, DefaultFormat()); n != 4 {
		t.Errorf("Bind bound %d regions, want 4", n)
	}

	rich := regionByName(t, doc, "Duckers Solution")
	if got := rich.Text(); got != "• A\n• B" {
		t.Errorf("rich text = %q", got)
	}
	if !reflect.DeepEqual(rich.Runs(), []int{1, 1}) {
		t.Errorf("runs = %v, want [1 1]", rich.Runs())
	}
	if !reflect.DeepEqual(rich.RunSizes(), []string{"1800", "1800"}) {
		t.Errorf("sizes = %v", rich.RunSizes())
	}
	if !reflect.DeepEqual(rich.Alignments(), []string{"l", "l"}) {
		t.Errorf("alignments = %v", rich.Alignments())
	}

	footer := regionByName(t, doc, "Footer")
	if footer.Text() != "keep me" || !reflect.DeepEqual(footer.RunSizes(), []string{"1200"}) || !reflect.DeepEqual(footer.Alignments(), []string{"ctr"}) {
		t.Errorf("unmatched region changed: text %q sizes %v align %v", footer.Text(), footer.RunSizes(), footer.Alignments())
	}

	empty := regionByName(t, doc, "Empty")
	if empty.Text() != "" {
		t.Errorf("missing value should give empty text, got %q", empty.Text())
	}
	if !reflect.DeepEqual(empty.Runs(), []int{0}) || !reflect.DeepEqual(empty.Alignments(), []string{""}) {
		t.Errorf("empty region runs %v align %v, want one bare paragraph", empty.Runs(), empty.Alignments())
	}

	noBody := regionByName(t, doc, "NoBody")
	if !noBody.HasTextBody() || noBody.Text() != "42" {
		t.Errorf("NoBody text = %q (body %v), want 42", noBody.Text(), noBody.HasTextBody())
	}

	inner := regionByName(t, doc, "Inner")
	if inner.Text() != "first\vsecond" {
		t.Errorf("Inner text = %q", inner.Text())
	}
	if !reflect.DeepEqual(inner.Runs(), []int{2}) {
		t.Errorf("Inner runs = %v, want [2]", inner.Runs())
	}
	if !reflect.DeepEqual(inner.RunSizes(), []string{"1800", "1800"}) {
		t.Errorf("Inner sizes = %v, want every run at 1800", inner.RunSizes())
	}
	if !reflect.DeepEqual(inner.Alignments(), []string{"l"}) {
		t.Errorf("Inner alignments = %v, want [l]", inner.Alignments())
	}
}

func TestBindFormatsEveryRun(t *testing.T) {
	tmpl := loadFixture(t, [][]testutil.Shape{{
		{Name: "Body", Paragraphs: [][]string{{"one", "two", "three"}, {"four"}}, Size: 2400, Align: "r"},
	}})
	doc, _ := tmpl.Instantiate()

	Bind(doc, fieldSet(map[string]string{"Body": "a\vb\nc\vd\ve\n\nf"}), Format{SizePt: 10.5, Align: AlignJustify})

	body := regionByName(t, doc, "Body")
	if !reflect.DeepEqual(body.Runs(), []int{2, 3, 0, 1}) {
		t.Fatalf("runs = %v, want [2 3 0 1]", body.Runs())
	}
	want := []string{"1050", "1050", "1050", "1050", "1050", "1050"}
	if !reflect.DeepEqual(body.RunSizes(), want) {
		t.Errorf("sizes = %v, want %v", body.RunSizes(), want)
	}
	if !reflect.DeepEqual(body.Alignments(), []string{"just", "just", "", "just"}) {
		t.Errorf("alignments = %v", body.Alignments())
	}
}

func TestBindLogsRegionDetailsAtDebug(t *testing.T) {
	prev := logger.Logger
	t.Cleanup(func() { logger.Logger = prev })

	var buf bytes.Buffer
	logger.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tmpl := loadFixture(t, [][]testutil.Shape{{
		{Name: "NoBody", NoTextBody: true},
	}})
	doc, _ := tmpl.Instantiate()
	Bind(doc, fieldSet(map[string]string{"NoBody": "x"}), DefaultFormat())

	line := buf.String()
	for _, want := range []string{"region=NoBody", "created_text_body=true", "sizes=[1800]", "align=[l]"} {
		if !strings.Contains(line, want) {
			t.Errorf("debug log missing %q: %s", want, line)
		}
	}
}

func TestSavedDocumentsKeepSeparateParts(t *testing.T) {
	tmpl := loadFixture(t, [][]testutil.Shape{{
		{Name: "Title", Paragraphs: [][]string{{"{{Title}}"}}},
	}})
	const slide = "ppt/slides/slide1.xml"

	slideData := func(d *Document) string {
		for _, p := range d.parts {
			if p.Name == slide {
				return string(p.Data)
			}
		}
		t.Fatalf("%s missing", slide)
		return ""
	}

	first, _ := tmpl.Instantiate()
	Bind(first, fieldSet(map[string]string{"Title": "Acme"}), DefaultFormat())
	if err := first.Save(io.Discard); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	second, _ := tmpl.Instantiate()
	Bind(second, fieldSet(map[string]string{"Title": "Globex"}), DefaultFormat())
	if err := second.Save(io.Discard); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	third, _ := tmpl.Instantiate()
	if err := third.Save(io.Discard); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if got := slideData(first); !strings.Contains(got, "Acme") || strings.Contains(got, "Globex") {
		t.Errorf("first document part = %s", got)
	}
	if got := slideData(second); !strings.Contains(got, "Globex") || strings.Contains(got, "Acme") {
		t.Errorf("second document part = %s", got)
	}
	if got := slideData(third); !strings.Contains(got, "{{Title}}") {
		t.Errorf("unbound document picked up saved text: %s", got)
	}
	if got := regionByName(t, third, "Title").Text(); got != "{{Title}}" {
		t.Errorf("third Title = %q", got)
	}

	for _, p := range tmpl.parts {
		if p.Name == slide && (strings.Contains(string(p.Data), "Acme") || strings.Contains(string(p.Data), "Globex")) {
			t.Errorf("template part rewritten by Save: %s", p.Data)
		}
	}
}

func TestBindIsCaseSensitive(t *testing.T) {
	tmpl := loadFixture(t, [][]testutil.Shape{{
		{Name: "title", Paragraphs: [][]string{{"lower"}}},
	}})
	doc, _ := tmpl.Instantiate()

	if n := Bind(doc, fieldSet(map[string]string{"Title": "X"}), DefaultFormat()); n != 0 {
		t.Errorf("Bind bound %d regions, want 0", n)
	}
	if got := regionByName(t, doc, "title").Text(); got != "lower" {
		t.Errorf("text = %q", got)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpl := loadFixture(t, [][]testutil.Shape{{
		{Name: "Case Study Name", Paragraphs: [][]string{{"x"}}},
		{Name: "Body", Paragraphs: [][]string{{"a & b"}}},
	}})
	doc, _ := tmpl.Instantiate()
	Bind(doc, fieldSet(map[string]string{"Case Study Name": "R&D <Pilot>"}), Format{SizePt: 12.5, Align: AlignCenter})

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "out.pptx")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	reloaded, err := LoadTemplate(path)
	if err != nil {
		t.Fatalf("reloading saved document: %v", err)
	}
	again, _ := reloaded.Instantiate()

	name := regionByName(t, again, "Case Study Name")
	if name.Text() != "R&D <Pilot>" {
		t.Errorf("text = %q", name.Text())
	}
	if !reflect.DeepEqual(name.RunSizes(), []string{"1250"}) || !reflect.DeepEqual(name.Alignments(), []string{"ctr"}) {
		t.Errorf("format lost: sizes %v align %v", name.RunSizes(), name.Alignments())
	}
	if got := regionByName(t, again, "Body").Text(); got != "a & b" {
		t.Errorf("Body = %q", got)
	}
}

func TestParseAlignment(t *testing.T) {
	tests := []struct {
		input string
		want  Alignment
	}{
		{"left", AlignLeft},
		{"Center", AlignCenter},
		{"r", AlignRight},
		{"justify", AlignJustify},
	}
	for _, tt := range tests {
		got, err := ParseAlignment(tt.input)
		if err != nil || got != tt.want {
			t.Errorf("ParseAlignment(%q) = %q, %v", tt.input, got, err)
		}
	}
	if _, err := ParseAlignment("diagonal"); err == nil {
		t.Error("expected error for unknown alignment")
	}
}

func TestNewFormat(t *testing.T) {
	tests := []struct {
		size    float64
		align   string
		want    Format
		wantErr bool
	}{
		{18, "left", Format{SizePt: 18, Align: AlignLeft}, false},
		{1, "center", Format{SizePt: 1, Align: AlignCenter}, false},
		{4000, "right", Format{SizePt: 4000, Align: AlignRight}, false},
		{0.5, "left", Format{}, true},
		{-3, "left", Format{}, true},
		{4000.5, "left", Format{}, true},
		{18, "middle", Format{}, true},
	}

	for _, tt := range tests {
		got, err := NewFormat(tt.size, tt.align)
		if (err != nil) != tt.wantErr {
			t.Errorf("NewFormat(%v, %q) error = %v, wantErr %v", tt.size, tt.align, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("NewFormat(%v, %q) = %+v, want %+v", tt.size, tt.align, got, tt.want)
		}
	}
}
