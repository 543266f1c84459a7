package nbt

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Format writes a human-readable rendering of n, one node per line, nested
// nodes indented by two spaces.
func Format(w io.Writer, n Node) error {
	var b strings.Builder
	formatNode(&b, n, 0, true)
	_, err := io.WriteString(w, b.String())
	return err
}

// Sprint returns the Format rendering of n.
func Sprint(n Node) string {
	var b strings.Builder
	formatNode(&b, n, 0, true)
	return b.String()
}

func formatNode(b *strings.Builder, n Node, depth int, named bool) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(n.Type.String())
	if named {
		b.WriteByte(' ')
		b.WriteString(strconv.Quote(n.Name))
	}
	b.WriteString(": ")

	switch v := n.Value.(type) {
	case Compound:
		fmt.Fprintf(b, "%d entries {\n", len(v))
		for _, c := range v {
			formatNode(b, c, depth+1, true)
		}
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString("}\n")
	case List:
		fmt.Fprintf(b, "%d x %s [\n", len(v.Items), v.ElemType)
		for _, c := range v.Items {
			formatNode(b, c, depth+1, false)
		}
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString("]\n")
	case string:
		b.WriteString(strconv.Quote(v))
		b.WriteByte('\n')
	case []int8:
		formatArray(b, v)
	case []int32:
		formatArray(b, v)
	case []int64:
		formatArray(b, v)
	case nil:
		b.WriteByte('\n')
	default:
		fmt.Fprintf(b, "%v\n", v)
	}
}

func formatArray[T int8 | int32 | int64](b *strings.Builder, vals []T) {
	b.WriteByte('[')
	for i, v := range vals {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatInt(int64(v), 10))
	}
	b.WriteString("]\n")
}
