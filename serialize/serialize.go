// Package serialize encodes expression graphs into a compact
// MessagePack envelope and decodes them back through the public
// operation catalog.
//
// The envelope lists nodes in dependency order with shared
// subexpressions deduplicated by identity, so the encoded size follows
// the graph, not its expansion. Decoding rebuilds every node through
// the same constructors that validate direct construction; a tampered
// envelope fails with the ordinary typed errors.
package serialize

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/vmihailenco/msgpack/v5"

	expr "github.com/hugr-lab/expr-go"
	dt "github.com/hugr-lab/expr-go/datatypes"
	"github.com/hugr-lab/expr-go/ops"
)

// version is the envelope format version.
const version = 1

// Options controls Marshal behavior.
type Options struct {
	// Compress wraps the envelope in a ZStandard frame. Unmarshal
	// detects the frame header, so readers need no flag.
	Compress bool
}

// Wire field kinds. Every node field is tagged with the kind its value
// decodes as.
const (
	fieldNil    = "nil"
	fieldNode   = "node"
	fieldNodes  = "nodes"
	fieldType   = "dtype"
	fieldString = "string"
	fieldInt    = "int"
	fieldBool   = "bool"
	fieldValue  = "value"
	fieldSchema = "schema"
	fieldNames  = "names"
)

type envelope struct {
	Version int        `msgpack:"version"`
	Nodes   []wireNode `msgpack:"nodes"`
	Root    int        `msgpack:"root"`
	Name    string     `msgpack:"name"`
	Named   bool       `msgpack:"named"`
}

type wireNode struct {
	Op     string      `msgpack:"op"`
	Fields []wireField `msgpack:"fields"`
}

type wireField struct {
	Name  string `msgpack:"name"`
	Kind  string `msgpack:"kind"`
	Value any    `msgpack:"value"`
}

// Marshal encodes the expression graph under v. Output for
// structurally equal graphs is byte-identical: nodes are listed in
// first-visit depth-first order and every field is tagged the same
// way.
func Marshal(v expr.Value, opts Options) ([]byte, error) {
	enc := &graphEncoder{index: map[ops.Node]int{}}
	root, err := enc.encode(v.Op())
	if err != nil {
		return nil, err
	}
	env := envelope{Version: version, Nodes: enc.nodes, Root: root}
	if name, err := v.GetName(); err == nil {
		env.Name, env.Named = name, true
	}
	return seal(env, opts)
}

// MarshalProjection encodes a whole projection: the base relation, the
// selected expressions and their output names.
func MarshalProjection(sel *ops.Selection, opts Options) ([]byte, error) {
	enc := &graphEncoder{index: map[ops.Node]int{}}
	root, err := enc.encode(sel)
	if err != nil {
		return nil, err
	}
	return seal(envelope{Version: version, Nodes: enc.nodes, Root: root}, opts)
}

func seal(env envelope, opts Options) ([]byte, error) {
	data, err := msgpack.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	if opts.Compress {
		data, err = compress(data)
		if err != nil {
			return nil, err
		}
	}
	slog.Debug("expression graph encoded",
		"nodes", len(env.Nodes), "bytes", len(data), "compressed", opts.Compress)
	return data, nil
}

// Unmarshal decodes an envelope back into an expression. Every node is
// rebuilt through the public catalog, so the decoded graph satisfies
// the same invariants as a directly constructed one. Unknown operation
// names and malformed fields are errors naming the node.
func Unmarshal(data []byte) (expr.Value, error) {
	nodes, env, err := open(data)
	if err != nil {
		return nil, err
	}
	root, ok := nodes[env.Root].(ops.Value)
	if !ok {
		return nil, fmt.Errorf("root node %s is not a value", nodes[env.Root].Kind())
	}
	out := expr.Wrap(root)
	if env.Named {
		if name, err := out.GetName(); err != nil || name != env.Name {
			out = expr.WithName(out, env.Name)
		}
	}
	return out, nil
}

// UnmarshalProjection decodes an envelope whose root is a projection.
func UnmarshalProjection(data []byte) (*ops.Selection, error) {
	nodes, env, err := open(data)
	if err != nil {
		return nil, err
	}
	sel, ok := nodes[env.Root].(*ops.Selection)
	if !ok {
		return nil, fmt.Errorf("root node %s is not a projection", nodes[env.Root].Kind())
	}
	return sel, nil
}

func open(data []byte) ([]ops.Node, envelope, error) {
	raw := data
	if isCompressed(data) {
		var err error
		raw, err = decompress(data)
		if err != nil {
			return nil, envelope{}, err
		}
	}
	var env envelope
	if err := msgpack.Unmarshal(raw, &env); err != nil {
		return nil, envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Version != version {
		return nil, envelope{}, fmt.Errorf("unsupported envelope version %d", env.Version)
	}
	nodes := make([]ops.Node, len(env.Nodes))
	for i, wn := range env.Nodes {
		n, err := decodeNode(wn, nodes[:i])
		if err != nil {
			return nil, envelope{}, fmt.Errorf("node %d (%s): %w", i, wn.Op, err)
		}
		nodes[i] = n
	}
	if env.Root < 0 || env.Root >= len(nodes) {
		return nil, envelope{}, fmt.Errorf("root index %d out of range", env.Root)
	}
	slog.Debug("expression graph decoded", "nodes", len(nodes), "bytes", len(data))
	return nodes, env, nil
}

type graphEncoder struct {
	nodes []wireNode
	index map[ops.Node]int
}

// encode appends n after its children and returns its index. Nodes
// already seen return their first index, deduplicating shared
// subexpressions.
func (e *graphEncoder) encode(n ops.Node) (int, error) {
	if idx, ok := e.index[n]; ok {
		return idx, nil
	}
	var wn wireNode
	switch x := n.(type) {
	case *ops.Literal:
		payload, err := encodePayload(x.Type(), x.Value())
		if err != nil {
			return 0, err
		}
		wn = wireNode{Op: x.Kind(), Fields: []wireField{
			{Name: "value", Kind: fieldValue, Value: payload},
			{Name: "dtype", Kind: fieldType, Value: x.Type().String()},
		}}
	case *ops.ValueList:
		refs, err := e.encodeAll(x.Values())
		if err != nil {
			return 0, err
		}
		wn = wireNode{Op: x.Kind(), Fields: []wireField{
			{Name: "values", Kind: fieldNodes, Value: refs},
		}}
	case *ops.UnboundTable:
		wn = wireNode{Op: x.Kind(), Fields: []wireField{
			{Name: "name", Kind: fieldString, Value: x.Name()},
			{Name: "schema", Kind: fieldSchema, Value: encodeSchema(x.Schema())},
		}}
	case *ops.TableColumn:
		table, err := e.encode(x.Table())
		if err != nil {
			return 0, err
		}
		name, _ := x.Name()
		wn = wireNode{Op: x.Kind(), Fields: []wireField{
			{Name: "table", Kind: fieldNode, Value: table},
			{Name: "name", Kind: fieldString, Value: name},
		}}
	case *ops.Selection:
		table, err := e.encode(x.Table())
		if err != nil {
			return 0, err
		}
		refs, err := e.encodeAll(x.Selections())
		if err != nil {
			return 0, err
		}
		wn = wireNode{Op: x.Kind(), Fields: []wireField{
			{Name: "table", Kind: fieldNode, Value: table},
			{Name: "selections", Kind: fieldNodes, Value: refs},
			{Name: "names", Kind: fieldNames, Value: x.Names()},
		}}
	case *ops.Op:
		fields := make([]wireField, 0, len(x.Fields()))
		for _, f := range x.Fields() {
			wf, err := e.encodeField(f)
			if err != nil {
				return 0, fmt.Errorf("%s: %w", x.Kind(), err)
			}
			fields = append(fields, wf)
		}
		wn = wireNode{Op: x.Kind(), Fields: fields}
	default:
		return 0, fmt.Errorf("cannot encode %T node", n)
	}
	idx := len(e.nodes)
	e.nodes = append(e.nodes, wn)
	e.index[n] = idx
	return idx, nil
}

func (e *graphEncoder) encodeAll(values []ops.Value) ([]int, error) {
	refs := make([]int, len(values))
	for i, v := range values {
		idx, err := e.encode(v)
		if err != nil {
			return nil, err
		}
		refs[i] = idx
	}
	return refs, nil
}

func (e *graphEncoder) encodeField(f ops.NodeField) (wireField, error) {
	wf := wireField{Name: f.Name}
	switch x := f.Value.(type) {
	case nil:
		wf.Kind = fieldNil
	case ops.Node:
		idx, err := e.encode(x)
		if err != nil {
			return wireField{}, err
		}
		wf.Kind, wf.Value = fieldNode, idx
	case []ops.Value:
		refs, err := e.encodeAll(x)
		if err != nil {
			return wireField{}, err
		}
		wf.Kind, wf.Value = fieldNodes, refs
	case dt.DataType:
		wf.Kind, wf.Value = fieldType, x.String()
	case string:
		wf.Kind, wf.Value = fieldString, x
	case int64:
		wf.Kind, wf.Value = fieldInt, x
	case bool:
		wf.Kind, wf.Value = fieldBool, x
	default:
		return wireField{}, fmt.Errorf("cannot encode field %s of type %T", f.Name, f.Value)
	}
	return wf, nil
}

func encodeSchema(s dt.Schema) []any {
	out := make([]any, s.Len())
	for i, f := range s.Fields() {
		out[i] = []any{f.Name, f.Type.String()}
	}
	return out
}

// decodeNode rebuilds one wire node. Prior holds every earlier node;
// references may only point backwards.
func decodeNode(wn wireNode, prior []ops.Node) (ops.Node, error) {
	d := &nodeDecoder{node: wn, prior: prior}
	switch wn.Op {
	case "literal":
		payload, err := d.payloadField("value")
		if err != nil {
			return nil, err
		}
		dtype, err := d.typeField("dtype")
		if err != nil {
			return nil, err
		}
		value, err := decodePayload(dtype, payload)
		if err != nil {
			return nil, err
		}
		return ops.NewLiteral(value, dtype)
	case "value_list":
		values, err := d.valuesField("values")
		if err != nil {
			return nil, err
		}
		return ops.NewValueList(values)
	case "unbound_table":
		name, err := d.stringField("name")
		if err != nil {
			return nil, err
		}
		schema, err := d.schemaField("schema")
		if err != nil {
			return nil, err
		}
		return ops.NewUnboundTable(name, schema)
	case "table_column":
		table, err := d.tableField("table")
		if err != nil {
			return nil, err
		}
		name, err := d.stringField("name")
		if err != nil {
			return nil, err
		}
		return ops.NewTableColumn(table, name)
	case "selection":
		table, err := d.tableField("table")
		if err != nil {
			return nil, err
		}
		values, err := d.valuesField("selections")
		if err != nil {
			return nil, err
		}
		names, err := d.namesField("names")
		if err != nil {
			return nil, err
		}
		return ops.NewSelection(table, values, names)
	default:
		def, ok := ops.Lookup(wn.Op)
		if !ok {
			return nil, fmt.Errorf("unknown operation %q", wn.Op)
		}
		if len(wn.Fields) != len(def.Fields) {
			return nil, fmt.Errorf("operation takes %d fields, envelope has %d",
				len(def.Fields), len(wn.Fields))
		}
		args := make([]any, len(wn.Fields))
		for i, wf := range wn.Fields {
			if wf.Name != def.Fields[i].Name {
				return nil, fmt.Errorf("field %d is %q, operation declares %q",
					i, wf.Name, def.Fields[i].Name)
			}
			arg, err := d.arg(wf)
			if err != nil {
				return nil, err
			}
			args[i] = arg
		}
		return ops.Build(def, args...)
	}
}

type nodeDecoder struct {
	node  wireNode
	prior []ops.Node
}

func (d *nodeDecoder) field(name string) (wireField, error) {
	for _, f := range d.node.Fields {
		if f.Name == name {
			return f, nil
		}
	}
	return wireField{}, fmt.Errorf("missing field %q", name)
}

func (d *nodeDecoder) ref(wf wireField) (ops.Node, error) {
	idx, ok := asInt64(wf.Value)
	if !ok {
		return nil, fmt.Errorf("field %s: reference is %T, not an index", wf.Name, wf.Value)
	}
	if idx < 0 || idx >= int64(len(d.prior)) {
		return nil, fmt.Errorf("field %s: reference %d out of range", wf.Name, idx)
	}
	return d.prior[idx], nil
}

func (d *nodeDecoder) refs(wf wireField) ([]ops.Value, error) {
	raw, ok := wf.Value.([]any)
	if !ok {
		return nil, fmt.Errorf("field %s: references are %T, not a list", wf.Name, wf.Value)
	}
	out := make([]ops.Value, len(raw))
	for i, r := range raw {
		idx, ok := asInt64(r)
		if !ok {
			return nil, fmt.Errorf("field %s: reference %d is %T, not an index", wf.Name, i, r)
		}
		if idx < 0 || idx >= int64(len(d.prior)) {
			return nil, fmt.Errorf("field %s: reference %d out of range", wf.Name, idx)
		}
		v, ok := d.prior[idx].(ops.Value)
		if !ok {
			return nil, fmt.Errorf("field %s: node %d is not a value", wf.Name, idx)
		}
		out[i] = v
	}
	return out, nil
}

// arg converts one wire field into a catalog constructor argument.
func (d *nodeDecoder) arg(wf wireField) (any, error) {
	switch wf.Kind {
	case fieldNil:
		return nil, nil
	case fieldNode:
		return d.ref(wf)
	case fieldNodes:
		return d.refs(wf)
	case fieldType:
		s, ok := wf.Value.(string)
		if !ok {
			return nil, fmt.Errorf("field %s: dtype is %T, not a string", wf.Name, wf.Value)
		}
		return dt.Parse(s)
	case fieldString:
		s, ok := wf.Value.(string)
		if !ok {
			return nil, fmt.Errorf("field %s: value is %T, not a string", wf.Name, wf.Value)
		}
		return s, nil
	case fieldInt:
		i, ok := asInt64(wf.Value)
		if !ok {
			return nil, fmt.Errorf("field %s: value is %T, not an integer", wf.Name, wf.Value)
		}
		return i, nil
	case fieldBool:
		b, ok := wf.Value.(bool)
		if !ok {
			return nil, fmt.Errorf("field %s: value is %T, not a boolean", wf.Name, wf.Value)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("field %s: unsupported kind %q", wf.Name, wf.Kind)
	}
}

func (d *nodeDecoder) payloadField(name string) (any, error) {
	wf, err := d.field(name)
	if err != nil {
		return nil, err
	}
	if wf.Kind != fieldValue {
		return nil, fmt.Errorf("field %s has kind %q, want %q", name, wf.Kind, fieldValue)
	}
	return wf.Value, nil
}

func (d *nodeDecoder) typeField(name string) (dt.DataType, error) {
	wf, err := d.field(name)
	if err != nil {
		return dt.DataType{}, err
	}
	s, ok := wf.Value.(string)
	if wf.Kind != fieldType || !ok {
		return dt.DataType{}, fmt.Errorf("field %s does not hold a dtype", name)
	}
	return dt.Parse(s)
}

func (d *nodeDecoder) stringField(name string) (string, error) {
	wf, err := d.field(name)
	if err != nil {
		return "", err
	}
	s, ok := wf.Value.(string)
	if wf.Kind != fieldString || !ok {
		return "", fmt.Errorf("field %s does not hold a string", name)
	}
	return s, nil
}

func (d *nodeDecoder) valuesField(name string) ([]ops.Value, error) {
	wf, err := d.field(name)
	if err != nil {
		return nil, err
	}
	if wf.Kind != fieldNodes {
		return nil, fmt.Errorf("field %s does not hold node references", name)
	}
	return d.refs(wf)
}

func (d *nodeDecoder) tableField(name string) (*ops.UnboundTable, error) {
	wf, err := d.field(name)
	if err != nil {
		return nil, err
	}
	if wf.Kind != fieldNode {
		return nil, fmt.Errorf("field %s does not hold a node reference", name)
	}
	n, err := d.ref(wf)
	if err != nil {
		return nil, err
	}
	table, ok := n.(*ops.UnboundTable)
	if !ok {
		return nil, fmt.Errorf("field %s references a %s, not a base relation", name, n.Kind())
	}
	return table, nil
}

func (d *nodeDecoder) namesField(name string) ([]string, error) {
	wf, err := d.field(name)
	if err != nil {
		return nil, err
	}
	raw, ok := wf.Value.([]any)
	if wf.Kind != fieldNames || !ok {
		return nil, fmt.Errorf("field %s does not hold a name list", name)
	}
	out := make([]string, len(raw))
	for i, r := range raw {
		s, ok := r.(string)
		if !ok {
			return nil, fmt.Errorf("field %s: name %d is %T, not a string", name, i, r)
		}
		out[i] = s
	}
	return out, nil
}

func (d *nodeDecoder) schemaField(name string) (dt.Schema, error) {
	wf, err := d.field(name)
	if err != nil {
		return dt.Schema{}, err
	}
	raw, ok := wf.Value.([]any)
	if wf.Kind != fieldSchema || !ok {
		return dt.Schema{}, fmt.Errorf("field %s does not hold a schema", name)
	}
	fields := make([]dt.Field, len(raw))
	for i, r := range raw {
		pair, ok := r.([]any)
		if !ok || len(pair) != 2 {
			return dt.Schema{}, fmt.Errorf("field %s: entry %d is not a name/type pair", name, i)
		}
		colName, ok := pair[0].(string)
		if !ok {
			return dt.Schema{}, fmt.Errorf("field %s: entry %d name is %T", name, i, pair[0])
		}
		typeText, ok := pair[1].(string)
		if !ok {
			return dt.Schema{}, fmt.Errorf("field %s: entry %d type is %T", name, i, pair[1])
		}
		colType, err := dt.Parse(typeText)
		if err != nil {
			return dt.Schema{}, fmt.Errorf("field %s: entry %d: %w", name, i, err)
		}
		fields[i] = dt.Field{Name: colName, Type: colType}
	}
	return dt.NewSchema(fields...)
}

// encodePayload maps a normalized literal value onto msgpack-native
// forms: decimals and UUIDs as strings, geometries as WKB bytes,
// timestamps through the msgpack time extension, times as nanosecond
// counts. Containers encode element-wise.
func encodePayload(t dt.DataType, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch t.Kind {
	case dt.KindDecimal:
		d, ok := v.(*apd.Decimal)
		if !ok {
			return nil, fmt.Errorf("decimal literal holds %T", v)
		}
		return d.Text('f'), nil
	case dt.KindUUID:
		u, ok := v.(uuid.UUID)
		if !ok {
			return nil, fmt.Errorf("uuid literal holds %T", v)
		}
		return u.String(), nil
	case dt.KindGeometry, dt.KindGeography:
		g, ok := v.(orb.Geometry)
		if !ok {
			return nil, fmt.Errorf("%s literal holds %T", t.Kind, v)
		}
		return dt.EncodeGeometry(g)
	case dt.KindTime:
		d, ok := v.(time.Duration)
		if !ok {
			return nil, fmt.Errorf("time literal holds %T", v)
		}
		return int64(d), nil
	case dt.KindArray:
		elem, _ := t.Elem()
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("array literal holds %T", v)
		}
		out := make([]any, len(items))
		for i, item := range items {
			enc, err := encodePayload(elem, item)
			if err != nil {
				return nil, err
			}
			out[i] = enc
		}
		return out, nil
	case dt.KindMap:
		key, val, _ := t.KeyValue()
		entries, ok := v.([]dt.MapEntry)
		if !ok {
			return nil, fmt.Errorf("map literal holds %T", v)
		}
		out := make([]any, len(entries))
		for i, entry := range entries {
			k, err := encodePayload(key, entry.Key)
			if err != nil {
				return nil, err
			}
			ev, err := encodePayload(val, entry.Value)
			if err != nil {
				return nil, err
			}
			out[i] = []any{k, ev}
		}
		return out, nil
	case dt.KindStruct:
		fields, _ := t.Fields()
		items, ok := v.([]any)
		if !ok || len(items) != len(fields) {
			return nil, fmt.Errorf("struct literal holds %T", v)
		}
		out := make([]any, len(items))
		for i, item := range items {
			enc, err := encodePayload(fields[i].Type, item)
			if err != nil {
				return nil, err
			}
			out[i] = enc
		}
		return out, nil
	default:
		return v, nil
	}
}

// decodePayload undoes encodePayload far enough for literal
// normalization to take over: string decimals and UUIDs pass through,
// WKB bytes pass through, times become durations, instants are pinned
// back to UTC.
func decodePayload(t dt.DataType, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch t.Kind {
	case dt.KindTime:
		i, ok := asInt64(v)
		if !ok {
			return nil, fmt.Errorf("time payload is %T", v)
		}
		return time.Duration(i), nil
	case dt.KindDate, dt.KindTimestamp:
		tt, ok := v.(time.Time)
		if !ok {
			return nil, fmt.Errorf("%s payload is %T", t.Kind, v)
		}
		return tt.UTC(), nil
	case dt.KindArray:
		elem, _ := t.Elem()
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("array payload is %T", v)
		}
		out := make([]any, len(items))
		for i, item := range items {
			dec, err := decodePayload(elem, item)
			if err != nil {
				return nil, err
			}
			out[i] = dec
		}
		return out, nil
	case dt.KindMap:
		key, val, _ := t.KeyValue()
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("map payload is %T", v)
		}
		entries := make([]dt.MapEntry, len(items))
		for i, item := range items {
			pair, ok := item.([]any)
			if !ok || len(pair) != 2 {
				return nil, fmt.Errorf("map payload entry %d is not a pair", i)
			}
			k, err := decodePayload(key, pair[0])
			if err != nil {
				return nil, err
			}
			ev, err := decodePayload(val, pair[1])
			if err != nil {
				return nil, err
			}
			entries[i] = dt.MapEntry{Key: k, Value: ev}
		}
		return entries, nil
	case dt.KindStruct:
		fields, _ := t.Fields()
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("struct payload is %T", v)
		}
		if len(items) != len(fields) {
			return nil, fmt.Errorf("struct payload has %d entries, type has %d", len(items), len(fields))
		}
		out := make([]any, len(items))
		for i, item := range items {
			dec, err := decodePayload(fields[i].Type, item)
			if err != nil {
				return nil, err
			}
			out[i] = dec
		}
		return out, nil
	default:
		return v, nil
	}
}

// asInt64 widens any integer the msgpack decoder may produce.
func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		if uint64(x) <= math.MaxInt64 {
			return int64(x), true
		}
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		if x <= math.MaxInt64 {
			return int64(x), true
		}
	}
	return 0, false
}
