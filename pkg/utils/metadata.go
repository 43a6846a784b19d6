package utils

import (
	"bytes"
	"encoding/json"
)

// DecodeMetadata decodes a poem metadata object. Whole numbers come back as
// int, the type the normalizers store, rather than float64.
func DecodeMetadata(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var meta map[string]any
	if err := dec.Decode(&meta); err != nil {
		return nil, err
	}
	RestoreNumbers(meta)
	return meta, nil
}

// RestoreNumbers rewrites, in place, the json.Number values of a tree decoded
// with UseNumber: whole numbers become int, the rest float64.
func RestoreNumbers(meta map[string]any) {
	for k, v := range meta {
		meta[k] = restore(v)
	}
}

func restore(v any) any {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n)
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		RestoreNumbers(t)
		return t
	case []any:
		for i := range t {
			t[i] = restore(t[i])
		}
		return t
	}
	return v
}
