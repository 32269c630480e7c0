package serializer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"text/tabwriter"
)

const emptyValue = "<empty>"

type row struct {
	field string
	value string
}

// marshalTable renders data as a two-column FIELD/VALUE table with one row per
// leaf value. Keys are flattened with "." for objects and "[i]" for lists, and
// sorted so the output is stable.
func marshalTable(data any) ([]byte, error) {
	// normalize through JSON so custom marshalers and struct tags apply
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}

	var rows []row
	flatten("", generic, &rows)

	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", r.field, r.value)
	}
	if err := tw.Flush(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func flatten(prefix string, v any, rows *[]row) {
	switch val := v.(type) {
	case map[string]any:
		if len(val) == 0 {
			*rows = append(*rows, row{field: prefix, value: emptyValue})
			return
		}
		for _, k := range slices.Sorted(maps.Keys(val)) {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flatten(key, val[k], rows)
		}

	case []any:
		if len(val) == 0 {
			*rows = append(*rows, row{field: prefix, value: emptyValue})
			return
		}
		for i, item := range val {
			flatten(fmt.Sprintf("%s[%d]", prefix, i), item, rows)
		}

	case nil:
		*rows = append(*rows, row{field: prefix, value: "<nil>"})

	default:
		*rows = append(*rows, row{field: prefix, value: fmt.Sprint(val)})
	}
}
