package ingest

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/matzehuels/citylink/pkg/errors"
	"github.com/matzehuels/citylink/pkg/record"
)

// ReadJSON parses a JSON document and returns one row per object matched by
// the JSONPath selector.
func ReadJSON(r io.Reader, selector string) ([]record.RawRow, error) {
	x, err := jp.ParseString(selector)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid jsonpath %q", selector)
	}
	root, err := oj.Load(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse json")
	}

	matches := x.Get(root)
	rows := make([]record.RawRow, 0, len(matches))
	for i, m := range matches {
		obj, ok := m.(map[string]any)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "jsonpath %q match %d is %T, want an object", selector, i, m)
		}
		row := make(record.RawRow, len(obj))
		for k, v := range obj {
			row[k] = stringify(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// stringify renders a decoded scalar the way it would appear in a CSV cell.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(t)
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
