package expr

import (
	"fmt"
	"strings"

	dt "github.com/hugr-lab/expr-go/datatypes"
	"github.com/hugr-lab/expr-go/ops"
)

// Render writes a deterministic text form of the expression graph.
// Base relations and nodes referenced more than once are hoisted into
// labelled prelude lines, so shared subexpressions read as one
// definition instead of repeated inline text. Labels are assigned in
// dependency order; a prelude line only ever refers to earlier lines.
func Render(v Value) string {
	r := &renderer{
		refs:   map[ops.Node]int{},
		labels: map[ops.Node]string{},
	}
	r.count(v.Op())
	var b strings.Builder
	body := r.render(v.Op(), &b)
	if name, ok := v.(interface{ nameOverride() (string, bool) }); ok {
		if alias, named := name.nameOverride(); named {
			body = alias + ": " + body
		}
	}
	b.WriteString(body)
	b.WriteString("\n")
	return b.String()
}

// RenderProjection writes the text form of a projection with the same
// hoisting rules as Render.
func RenderProjection(sel *ops.Selection) string {
	r := &renderer{
		refs:   map[ops.Node]int{},
		labels: map[ops.Node]string{},
	}
	r.count(sel)
	var b strings.Builder
	body := r.render(sel, &b)
	b.WriteString(body)
	b.WriteString("\n")
	return b.String()
}

type renderer struct {
	refs   map[ops.Node]int
	labels map[ops.Node]string
	next   int
}

// count walks the graph once to find nodes worth hoisting.
func (r *renderer) count(n ops.Node) {
	r.refs[n]++
	if r.refs[n] > 1 {
		return
	}
	for _, f := range n.Fields() {
		switch x := f.Value.(type) {
		case ops.Node:
			r.count(x)
		case []ops.Value:
			for _, v := range x {
				r.count(v)
			}
		}
	}
}

func (r *renderer) hoisted(n ops.Node) bool {
	if _, ok := n.(*ops.UnboundTable); ok {
		return true
	}
	switch n.(type) {
	case *ops.Op, *ops.ValueList, *ops.Selection:
		return r.refs[n] > 1
	}
	return false
}

// render returns the inline form of n, emitting prelude lines for
// hoisted children first.
func (r *renderer) render(n ops.Node, prelude *strings.Builder) string {
	if label, ok := r.labels[n]; ok {
		return label
	}
	text := r.inline(n, prelude)
	if r.hoisted(n) {
		label := fmt.Sprintf("r%d", r.next)
		r.next++
		r.labels[n] = label
		fmt.Fprintf(prelude, "%s := %s\n", label, text)
		return label
	}
	return text
}

func (r *renderer) inline(n ops.Node, prelude *strings.Builder) string {
	switch x := n.(type) {
	case *ops.UnboundTable:
		cols := make([]string, x.Schema().Len())
		for i, f := range x.Schema().Fields() {
			cols[i] = f.Name + ": " + f.Type.String()
		}
		return fmt.Sprintf("UnboundTable[%s](%s)", x.Name(), strings.Join(cols, ", "))
	case *ops.TableColumn:
		table := r.render(x.Table(), prelude)
		return table + "." + mustName(x)
	case *ops.Literal:
		if x.Value() == nil {
			return "null"
		}
		return dt.FormatValue(x.Value()) + ":" + x.Type().String()
	case *ops.ValueList:
		parts := make([]string, len(x.Values()))
		for i, v := range x.Values() {
			parts[i] = r.render(v, prelude)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *ops.Selection:
		table := r.render(x.Table(), prelude)
		parts := make([]string, len(x.Selections()))
		for i, v := range x.Selections() {
			parts[i] = x.Names()[i] + "=" + r.render(v, prelude)
		}
		return fmt.Sprintf("Selection[%s](%s)", table, strings.Join(parts, ", "))
	case *ops.Op:
		var parts []string
		for _, f := range x.Fields() {
			if f.Value == nil {
				continue
			}
			parts = append(parts, f.Name+"="+r.field(f.Value, prelude))
		}
		return x.Kind() + "(" + strings.Join(parts, ", ") + ")"
	default:
		return fmt.Sprintf("%v", n)
	}
}

func (r *renderer) field(v any, prelude *strings.Builder) string {
	switch x := v.(type) {
	case ops.Node:
		return r.render(x, prelude)
	case []ops.Value:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = r.render(e, prelude)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case dt.DataType:
		return x.String()
	case string:
		return x
	default:
		return dt.FormatValue(x)
	}
}

func mustName(v ops.Value) string {
	name, _ := v.Name()
	return name
}
