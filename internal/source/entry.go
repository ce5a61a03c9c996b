package source

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Entry is one configured source as written by the user: either a bare URL or
// path string, or a record with alias, url, type and auto_searched.
type Entry struct {
	Alias string
	URL   string
	// Type is "old" or "new"; empty means new.
	Type string
	// AutoSearched is kept as text so that "false", false and "no" are all accepted.
	AutoSearched string
	// Bare marks entries written as a plain string.
	Bare bool
}

// URL returns a bare string entry.
func URL(location string) Entry {
	return Entry{URL: location, Bare: true}
}

// UnmarshalYAML accepts a scalar string or a mapping.
func (e *Entry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*e = URL(node.Value)
		return nil
	case yaml.MappingNode:
		var out Entry
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, val := node.Content[i], node.Content[i+1]
			if val.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: source field %q must be a scalar", val.Line, key.Value)
			}
			switch key.Value {
			case "alias":
				out.Alias = val.Value
			case "url":
				out.URL = val.Value
			case "type":
				out.Type = val.Value
			case "auto_searched":
				out.AutoSearched = val.Value
			default:
				return fmt.Errorf("line %d: unknown source field %q", key.Line, key.Value)
			}
		}
		*e = out
		return nil
	default:
		return fmt.Errorf("line %d: source must be a string or a mapping", node.Line)
	}
}

// MarshalYAML writes bare entries back as plain strings.
func (e Entry) MarshalYAML() (any, error) {
	if e.Bare {
		return e.URL, nil
	}
	out := map[string]string{"url": e.URL}
	if e.Alias != "" {
		out["alias"] = e.Alias
	}
	if e.Type != "" {
		out["type"] = e.Type
	}
	if e.AutoSearched != "" {
		out["auto_searched"] = e.AutoSearched
	}
	return out, nil
}
