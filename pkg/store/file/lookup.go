package file

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ohler55/ojg/jp"

	"github.com/getmockd/devhttp/pkg/store"
)

// compileLookup turns a lookup field into a JSONPath. Plain names select a
// top-level field; names starting with "$" are parsed as JSONPath.
func compileLookup(field string) (jp.Expr, error) {
	if field == "" {
		return nil, fmt.Errorf("lookup field is empty")
	}
	if !strings.HasPrefix(field, "$") {
		return jp.C(field), nil
	}
	x, err := jp.ParseString(field)
	if err != nil {
		return nil, fmt.Errorf("invalid lookup path %q: %w", field, err)
	}
	return x, nil
}

// keyOf returns the canonical lookup value of rec.
func (s *Store) keyOf(rec store.Record) (string, bool) {
	if rec == nil {
		return "", false
	}
	vals := s.lookup.Get(rec)
	if len(vals) == 0 {
		return "", false
	}
	return canonicalKey(vals[0])
}

// canonicalKey renders a lookup value as the string it is compared by, so
// that the number 1 and the string "1" are the same key. Null, objects and
// arrays have no key.
func canonicalKey(v any) (string, bool) {
	switch k := v.(type) {
	case string:
		return k, true
	case float64:
		return strconv.FormatFloat(k, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(k), 'f', -1, 32), true
	case int:
		return strconv.Itoa(k), true
	case int64:
		return strconv.FormatInt(k, 10), true
	case json.Number:
		return k.String(), true
	case bool:
		return strconv.FormatBool(k), true
	default:
		return "", false
	}
}

// normalize deep-copies rec through JSON so stored records only hold
// decoded JSON values (float64 numbers, []any, map[string]any).
func normalize(rec store.Record) (store.Record, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	var out store.Record
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneRecord(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

func cloneRecord(rec store.Record) store.Record {
	if rec == nil {
		return nil
	}
	out := make(store.Record, len(rec))
	for k, v := range rec {
		out[k] = cloneValue(v)
	}
	return out
}
