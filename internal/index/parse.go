package index

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"
	"golang.org/x/net/html"
)

// typeEntry is one element of type-search-index.js.
type typeEntry struct {
	Module  string `json:"m"`
	Package string `json:"p"`
	Label   string `json:"l"`
	URL     string `json:"u"`
}

// memberEntry is one element of member-search-index.js.
type memberEntry struct {
	Module  string `json:"m"`
	Package string `json:"p"`
	Class   string `json:"c"`
	Label   string `json:"l"`
	URL     string `json:"u"`
	// LongURL is the key JDK 9 to 11 used before it was shortened to "u".
	LongURL string `json:"url"`
}

// packageEntry is one element of package-search-index.js.
type packageEntry struct {
	Module string `json:"m"`
	Label  string `json:"l"`
}

// searchIndexJSON extracts the JSON array from a javadoc search index script
// such as "typeSearchIndex = [...];updateSearchResults();".
func searchIndexJSON(script []byte) ([]byte, error) {
	start := bytes.IndexByte(script, '[')
	end := bytes.LastIndexByte(script, ']')
	if start < 0 || end < start {
		return nil, fmt.Errorf("no JSON array in search index")
	}
	return script[start : end+1], nil
}

// unzipSearchIndex returns the single JSON document stored in the zip
// variant of a search index (JDK 9 and 10).
func unzipSearchIndex(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open search index archive: %w", err)
	}
	for _, f := range zr.File {
		if !strings.HasSuffix(f.Name, ".json") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", f.Name, err)
		}
		body, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		return searchIndexJSON(body)
	}
	return nil, fmt.Errorf("search index archive holds no JSON document")
}

func decodeEntries[T any](raw []byte, zipped bool) ([]T, error) {
	var (
		doc []byte
		err error
	)
	if zipped {
		doc, err = unzipSearchIndex(raw)
	} else {
		doc, err = searchIndexJSON(raw)
	}
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(doc, &out); err != nil {
		return nil, fmt.Errorf("decode search index: %w", err)
	}
	return out, nil
}

// classesFromTypeIndex converts type index entries into classes. Entries
// without a package (the "All Classes" pseudo entry) are skipped. modules
// maps packages to modules for indexes whose type entries carry none.
func classesFromTypeIndex(entries []typeEntry, modules map[string]string) []Class {
	out := make([]Class, 0, len(entries))
	for _, e := range entries {
		if e.Package == "" || e.Label == "" {
			continue
		}
		mod := e.Module
		if mod == "" {
			mod = modules[e.Package]
		}
		out = append(out, Class{Module: mod, Package: e.Package, Name: e.Label})
	}
	return out
}

func membersFromIndex(entries []memberEntry, modules map[string]string) []Member {
	out := make([]Member, 0, len(entries))
	for _, e := range entries {
		if e.Class == "" || e.Label == "" {
			continue
		}
		sig := e.URL
		if sig == "" {
			sig = e.LongURL
		}
		if unescaped, err := url.PathUnescape(sig); err == nil {
			sig = unescaped
		}
		if sig == "" {
			sig = e.Label
		}
		mod := e.Module
		if mod == "" {
			mod = modules[e.Package]
		}
		out = append(out, Member{
			Module:    mod,
			Package:   e.Package,
			Class:     e.Class,
			Label:     e.Label,
			Signature: sig,
		})
	}
	return out
}

func packageModules(entries []packageEntry) map[string]string {
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.Module != "" && e.Label != "" {
			out[e.Label] = e.Module
		}
	}
	return out
}

// parseAllClasses reads allclasses-index.html, allclasses-noframe.html or
// allclasses-frame.html. Each class anchor carries a title such as
// "class in java.lang" or "annotation interface in java.lang.annotation";
// the href yields the module (when present) and the possibly nested name.
func parseAllClasses(r io.Reader) ([]Class, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse class list: %w", err)
	}

	var out []Class
	seen := make(map[string]bool)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if c, ok := classFromAnchor(getAttr(n, "href"), getAttr(n, "title")); ok && !seen[c.QualifiedName()] {
				seen[c.QualifiedName()] = true
				out = append(out, c)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	if len(out) == 0 {
		return nil, fmt.Errorf("no classes listed")
	}
	return out, nil
}

func classFromAnchor(href, title string) (Class, bool) {
	kindText, pkg, ok := strings.Cut(title, " in ")
	if !ok || pkg == "" || !strings.HasSuffix(href, ".html") {
		return Class{}, false
	}
	if i := strings.IndexAny(href, "#?"); i >= 0 {
		href = href[:i]
	}
	href = strings.TrimPrefix(href, "./")
	pkgPath := strings.ReplaceAll(pkg, ".", "/") + "/"
	at := strings.Index(href, pkgPath)
	if at < 0 {
		return Class{}, false
	}
	name := strings.TrimSuffix(href[at+len(pkgPath):], ".html")
	if name == "" || strings.Contains(name, "/") {
		return Class{}, false
	}
	return Class{
		Module:  strings.TrimSuffix(href[:at], "/"),
		Package: pkg,
		Name:    name,
		Kind:    kindFromTitle(kindText),
	}, true
}

func kindFromTitle(t string) Kind {
	t = strings.ToLower(strings.TrimSpace(t))
	switch {
	case strings.HasPrefix(t, "annotation"):
		return KindAnnotation
	case strings.HasPrefix(t, "interface"):
		return KindInterface
	case strings.HasPrefix(t, "enum"):
		return KindEnum
	case strings.HasPrefix(t, "record"):
		return KindRecord
	case strings.HasPrefix(t, "exception"):
		return KindException
	case strings.HasPrefix(t, "error"):
		return KindError
	case strings.HasPrefix(t, "class"):
		return KindClass
	}
	return KindUnknown
}

// applyKinds copies kinds from a class list onto classes read from the type
// index, which does not record them.
func applyKinds(classes []Class, listed []Class) {
	kinds := make(map[string]Kind, len(listed))
	for _, c := range listed {
		kinds[c.QualifiedName()] = c.Kind
	}
	for i := range classes {
		if k, ok := kinds[classes[i].QualifiedName()]; ok {
			classes[i].Kind = k
		}
	}
}

// parseClassPage collects member anchors from a class page. Older javadoc
// writes <a name="join-java.lang.CharSequence-java.lang.CharSequence...-">,
// newer javadoc uses id attributes with the parenthesized form.
func parseClassPage(r io.Reader, c Class) ([]Member, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse class page: %w", err)
	}

	var out []Member
	seen := make(map[string]bool)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, key := range []string{"name", "id"} {
				anchor := getAttr(n, key)
				if anchor == "" || seen[anchor] || !isMemberAnchor(anchor) {
					continue
				}
				seen[anchor] = true
				out = append(out, Member{
					Module:    c.Module,
					Package:   c.Package,
					Class:     c.Name,
					Label:     labelFromSignature(anchor),
					Signature: anchor,
				})
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return out, nil
}

var primitives = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true,
	"int": true, "long": true, "float": true, "double": true,
}

// isMemberAnchor separates member anchors from navigation anchors such as
// "navbar.top" or "method.summary".
func isMemberAnchor(anchor string) bool {
	name, params, callable := cutSignature(anchor)
	if !isJavaIdentifier(name) || strings.HasPrefix(name, "allclasses_") {
		return false
	}
	if !callable {
		return true
	}
	for _, p := range params {
		base, _ := splitArraySuffix(p)
		if !strings.Contains(base, ".") && !primitives[base] {
			return false
		}
	}
	return true
}

func labelFromSignature(sig string) string {
	name, params, callable := cutSignature(sig)
	if !callable {
		return name
	}
	simple := make([]string, len(params))
	for i, p := range params {
		simple[i] = SimpleTypeName(p)
	}
	return name + "(" + strings.Join(simple, ", ") + ")"
}

func isJavaIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		case r > 0x7f:
		default:
			return false
		}
	}
	return true
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
