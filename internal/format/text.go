package format

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
)

// WriteText writes a human-readable rendering: one "key  value" block per object,
// with list elements separated by blank lines. Nested values are shown inline as JSON.
func WriteText(w io.Writer, v any) error {
	x, err := generic(v)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	switch t := x.(type) {
	case []any:
		if len(t) == 0 {
			fmt.Fprintln(tw, "(none)")
		}
		for i, it := range t {
			if i > 0 {
				fmt.Fprintln(tw)
			}
			writeTextValue(tw, it)
		}
	default:
		writeTextValue(tw, t)
	}
	return tw.Flush()
}

func writeTextValue(w io.Writer, v any) {
	m, ok := v.(map[string]any)
	if !ok {
		fmt.Fprintln(w, scalar(v))
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s\t%s\n", k, scalar(m[k]))
	}
}

func scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return "-"
	case string:
		if strings.TrimSpace(t) == "" {
			return "-"
		}
		return t
	case map[string]any, []any:
		var sb strings.Builder
		_ = WriteJSON(&sb, t, false)
		return strings.TrimSpace(sb.String())
	default:
		return fmt.Sprint(t)
	}
}
