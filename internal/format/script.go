package format

import (
	"context"
	"fmt"
	"strings"

	"github.com/risor-io/risor"
	"github.com/risor-io/risor/object"

	"git.home.luguber.info/inful/javadocref/internal/foundation/errors"
)

const scriptEntry = "format_ref"

// Script is a Formatter backed by a Risor function body. The body receives
// the variant as the map "ref" (keys kind, package, name, module,
// annotation, url, label) and returns either a string or a map with "tag"
// and "text":
//
//	if ref["kind"] == "class" {
//	    return {"tag": "code", "text": ref["package"] + "." + ref["name"]}
//	}
type Script struct {
	body    string
	program string
}

// NewScript compiles body and runs it against every variant. A script
// that fails, returns nil, or returns an unsupported value for any variant
// is rejected.
func NewScript(ctx context.Context, body string) (*Script, error) {
	if strings.TrimSpace(body) == "" {
		return nil, errors.ConfigError("autolink-format is empty").Build()
	}
	s := &Script{
		body:    body,
		program: "func " + scriptEntry + "(ref) {\n" + dedent(body) + "\n}\n" + scriptEntry + "(ref)\n",
	}
	for _, v := range Variants() {
		if _, err := s.Format(ctx, v); err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "invalid autolink-format").
				WithContext("variant", v.Kind()).
				UserAction().
				Build()
		}
	}
	return s, nil
}

// Format implements Formatter.
func (s *Script) Format(ctx context.Context, v Variant) (Output, error) {
	ref, err := variantObject(v)
	if err != nil {
		return Output{}, err
	}
	result, err := risor.Eval(ctx, s.program, risor.WithGlobal("ref", ref))
	if err != nil {
		return Output{}, errors.WrapError(err, errors.CategoryScript, "autolink-format failed").Build()
	}
	return outputOf(result)
}

func variantObject(v Variant) (*object.Map, error) {
	switch v := v.(type) {
	case ClassRef:
		return object.NewMap(map[string]object.Object{
			"kind":       object.NewString(v.Kind()),
			"package":    object.NewString(v.Package),
			"name":       object.NewString(v.Name),
			"module":     object.NewString(v.Module),
			"annotation": object.NewBool(v.Annotation),
			"url":        object.NewString(v.URL),
			"label":      object.NewString(v.Label),
		}), nil
	}
	return nil, errUnsupported(v)
}

func outputOf(result object.Object) (Output, error) {
	switch r := result.(type) {
	case *object.String:
		return PlainText(r.Value()), nil
	case *object.Map:
		fields := r.Value()
		tag, ok := fields["tag"].(*object.String)
		if !ok || !IsInlineTag(tag.Value()) {
			return Output{}, errors.ScriptError("autolink-format returned an unsupported element").
				WithContext("value", r.Inspect()).
				Build()
		}
		text, ok := fields["text"].(*object.String)
		if !ok {
			return Output{}, errors.ScriptError("autolink-format element has no text").Build()
		}
		return Element(tag.Value(), text.Value()), nil
	case nil, *object.NilType:
		return Output{}, errors.ScriptError("autolink-format returned nothing for this reference").Build()
	}
	return Output{}, errors.ScriptError(fmt.Sprintf("autolink-format returned %s, want string or element", result.Type())).Build()
}

func errUnsupported(v Variant) error {
	return errors.ConfigError("unsupported reference variant").
		WithContext("variant", fmt.Sprintf("%T", v)).
		Build()
}

// dedent removes the indentation shared by all non-blank lines, so bodies
// written as indented YAML block scalars keep their structure.
func dedent(s string) string {
	lines := strings.Split(s, "\n")
	common := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		indent := len(l) - len(strings.TrimLeft(l, " \t"))
		if common < 0 || indent < common {
			common = indent
		}
	}
	if common <= 0 {
		return s
	}
	for i, l := range lines {
		if len(l) >= common {
			lines[i] = l[common:]
		} else {
			lines[i] = strings.TrimLeft(l, " \t")
		}
	}
	return strings.Join(lines, "\n")
}
