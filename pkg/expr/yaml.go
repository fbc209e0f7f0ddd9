package expr

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
	"src.ggexpr.dev/pkg/errutil"
)

// LoadBindingsYAML reads host bindings from a YAML document whose top level is
// a mapping from binding names to values. Scalars, sequences and mappings with
// string keys are supported. An empty document yields no bindings. All
// unsupported bindings are reported, in the order of their names.
func LoadBindingsYAML(r io.Reader) (map[string]any, error) {
	var m map[string]any
	err := yaml.NewDecoder(r).Decode(&m)
	if errors.Is(err, io.EOF) {
		return map[string]any{}, nil
	} else if err != nil {
		return nil, err
	}
	if m == nil {
		return map[string]any{}, nil
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	var errs []error
	for _, name := range names {
		v, err := normalizeYAML(m[name])
		if err != nil {
			errs = append(errs, fmt.Errorf("binding %s: %w", name, err))
			continue
		}
		m[name] = v
	}
	if err := errutil.Multi(errs...); err != nil {
		return nil, err
	}
	return m, nil
}

// Converts a decoded YAML value to one vals.FromGo understands.
func normalizeYAML(v any) (any, error) {
	switch v := v.(type) {
	case nil, bool, int, float64, string:
		return v, nil
	case []any:
		for i, e := range v {
			ne, err := normalizeYAML(e)
			if err != nil {
				return nil, err
			}
			v[i] = ne
		}
		return v, nil
	case map[string]any:
		for k, e := range v {
			ne, err := normalizeYAML(e)
			if err != nil {
				return nil, err
			}
			v[k] = ne
		}
		return v, nil
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, e := range v {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("map key %v is not a string", k)
			}
			ne, err := normalizeYAML(e)
			if err != nil {
				return nil, err
			}
			m[ks] = ne
		}
		return m, nil
	}
	return nil, fmt.Errorf("unsupported value of type %T", v)
}
