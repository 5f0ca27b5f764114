package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Paths use the YAML key names, dots between levels and [n] for list items:
//
//	backend
//	screen.width
//	theme.title_active
//	desktop.icons[0].name
//	apps.notes.builtin
//	timers.frame_ms
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	tree, err := configTree(res.Config)
	if err != nil {
		return nil, Source{}, err
	}
	value, err := lookupValue(tree, path)
	if err != nil {
		return nil, Source{}, err
	}

	// Exact-path file source wins.
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	// Lists are replaced wholesale, so an element inherits the source of the
	// list that carried it.
	for parent := parentPath(path); parent != ""; parent = parentPath(parent) {
		src, ok := res.Sources[parent]
		if !ok {
			continue
		}
		if v, err := lookupValue(tree, parent); err == nil {
			if _, isList := v.([]any); isList {
				return value, src, nil
			}
		}
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

// configTree renders cfg as generic YAML values keyed by YAML names.
func configTree(cfg *Config) (map[string]any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return tree, nil
}

func lookupValue(tree map[string]any, path string) (any, error) {
	parts, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	var cur any = tree
	for _, part := range parts {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[part.key]
			if !ok || part.key == "" {
				return nil, fmt.Errorf("unknown path: %s", path)
			}
			cur = v
		case []any:
			if part.index < 0 || part.index >= len(node) {
				return nil, fmt.Errorf("unknown path: %s", path)
			}
			cur = node[part.index]
		default:
			return nil, fmt.Errorf("unknown path: %s", path)
		}
	}
	return cur, nil
}

type pathPart struct {
	key   string
	index int // -1 for map keys
}

// splitPath turns "a.b[2].c" into a, b, [2], c.
func splitPath(path string) ([]pathPart, error) {
	var parts []pathPart
	for _, seg := range strings.Split(path, ".") {
		key, rest, hasIndex := strings.Cut(seg, "[")
		parts = append(parts, pathPart{key: key, index: -1})
		for hasIndex {
			num, after, ok := strings.Cut(rest, "]")
			if !ok {
				return nil, fmt.Errorf("invalid path: %s", path)
			}
			n, err := strconv.Atoi(num)
			if err != nil {
				return nil, fmt.Errorf("invalid index in path %s: %w", path, err)
			}
			parts = append(parts, pathPart{index: n})
			if after == "" {
				break
			}
			if !strings.HasPrefix(after, "[") {
				return nil, fmt.Errorf("invalid path: %s", path)
			}
			rest = after[1:]
		}
	}
	return parts, nil
}
