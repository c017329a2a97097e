package deck

import "github.com/beevik/etree"

// XML namespaces used in PPTX files.
const (
	nsPresentationML = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsDrawingML      = "http://schemas.openxmlformats.org/drawingml/2006/main"
)

func is(el *etree.Element, ns, tag string) bool {
	return el.Tag == tag && el.NamespaceURI() == ns
}

// child returns the first direct child of el named ns:tag.
func child(el *etree.Element, ns, tag string) *etree.Element {
	if el == nil {
		return nil
	}
	for _, c := range el.ChildElements() {
		if is(c, ns, tag) {
			return c
		}
	}
	return nil
}

// children returns every direct child of el named ns:tag, in document order.
func children(el *etree.Element, ns, tag string) []*etree.Element {
	var out []*etree.Element
	if el == nil {
		return out
	}
	for _, c := range el.ChildElements() {
		if is(c, ns, tag) {
			out = append(out, c)
		}
	}
	return out
}

// prefixFor finds the prefix bound to ns in scope at el. When none is bound
// the namespace is declared on the outermost element under fallback.
func prefixFor(el *etree.Element, ns, fallback string) string {
	var root *etree.Element
	for e := el; e != nil; e = e.Parent() {
		for _, a := range e.Attr {
			if a.Value != ns {
				continue
			}
			if a.Space == "xmlns" {
				return a.Key
			}
			if a.Space == "" && a.Key == "xmlns" {
				return ""
			}
		}
		root = e
	}
	if root != nil {
		root.CreateAttr("xmlns:"+fallback, ns)
	}
	return fallback
}

func qualify(prefix, tag string) string {
	if prefix == "" {
		return tag
	}
	return prefix + ":" + tag
}

// firstChild returns the ns:tag child of el, creating it as the first child
// when absent. Used for pPr and rPr, which must lead their parents.
func firstChild(el *etree.Element, ns, tag string) *etree.Element {
	if c := child(el, ns, tag); c != nil {
		return c
	}
	c := etree.NewElement(qualify(el.Space, tag))
	el.InsertChildAt(0, c)
	return c
}
