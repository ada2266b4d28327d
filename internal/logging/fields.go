package logging

import "log/slog"

type field struct {
	key   string
	value slog.Value
}

// appendFields flattens attrs onto dst, qualifying keys with prefix and
// expanding groups into dotted keys.
func appendFields(dst []field, prefix string, attrs []slog.Attr) []field {
	for _, attr := range attrs {
		if attr.Equal(slog.Attr{}) {
			continue
		}
		value := attr.Value.Resolve()
		if value.Kind() == slog.KindGroup {
			dst = appendFields(dst, joinKey(prefix, attr.Key), value.Group())
			continue
		}
		if attr.Key == "" {
			continue
		}
		dst = append(dst, field{key: joinKey(prefix, attr.Key), value: value})
	}
	return dst
}

func joinKey(prefix, key string) string {
	switch {
	case prefix == "":
		return key
	case key == "":
		return prefix
	default:
		return prefix + "." + key
	}
}

// fieldSet keeps fields in first-seen order. A repeated key overwrites the
// earlier value in place; take removes a field so it is rendered once.
type fieldSet struct {
	order []string
	byKey map[string]slog.Value
}

func newFieldSet(initial []field) *fieldSet {
	fs := &fieldSet{byKey: make(map[string]slog.Value, len(initial)+4)}
	for _, f := range initial {
		fs.set(f.key, f.value)
	}
	return fs
}

func (fs *fieldSet) set(key string, value slog.Value) {
	if _, ok := fs.byKey[key]; !ok {
		fs.order = append(fs.order, key)
	}
	fs.byKey[key] = value
}

func (fs *fieldSet) take(key string) (slog.Value, bool) {
	value, ok := fs.byKey[key]
	if ok {
		delete(fs.byKey, key)
	}
	return value, ok
}

func (fs *fieldSet) rest() []field {
	out := make([]field, 0, len(fs.byKey))
	for _, key := range fs.order {
		if value, ok := fs.byKey[key]; ok {
			out = append(out, field{key: key, value: value})
		}
	}
	return out
}
