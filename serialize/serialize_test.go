package serialize

import (
	"bytes"
	"testing"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	expr "github.com/hugr-lab/expr-go"
	dt "github.com/hugr-lab/expr-go/datatypes"
	"github.com/hugr-lab/expr-go/ops"
)

func testTable(t *testing.T) *expr.Table {
	t.Helper()
	schema, err := dt.NewSchema(
		dt.Field{Name: "id", Type: dt.Int64.NonNullable()},
		dt.Field{Name: "carrier", Type: dt.String},
		dt.Field{Name: "weight", Type: dt.Float64},
		dt.Field{Name: "seen", Type: dt.TimestampWithZone("UTC")},
		dt.Field{Name: "pos", Type: dt.GeometryWithSRID(4326)},
		dt.Field{Name: "price", Type: dt.Decimal(10, 2)},
		dt.Field{Name: "tags", Type: dt.ArrayOf(dt.String)},
		dt.Field{Name: "attrs", Type: dt.MapOf(dt.String, dt.Int64)},
	)
	require.NoError(t, err)
	table, err := expr.NewTable("events", schema)
	require.NoError(t, err)
	return table
}

func TestRoundTrip(t *testing.T) {
	table := testTable(t)
	weight, err := table.NumericColumn("weight")
	require.NoError(t, err)
	carrier, err := table.StringColumn("carrier")
	require.NoError(t, err)
	seen, err := table.TemporalColumn("seen")
	require.NoError(t, err)
	pos, err := table.GeoColumn("pos")
	require.NoError(t, err)
	tags, err := table.ArrayColumn("tags")
	require.NoError(t, err)
	attrs, err := table.MapColumn("attrs")
	require.NoError(t, err)

	heavier, err := weight.Gt(10.5)
	require.NoError(t, err)
	cast, err := weight.Cast("int64")
	require.NoError(t, err)
	sum, err := weight.Sum()
	require.NoError(t, err)
	framed, err := sum.Over(expr.Window{
		PartitionBy: []any{carrier},
		OrderBy:     []any{expr.Desc(seen)},
		Preceding:   2,
	})
	require.NoError(t, err)
	caseExpr, err := carrier.Case().When("AA", int64(1)).Else(int64(0)).End()
	require.NoError(t, err)
	firstTag, err := tags.Index(0)
	require.NoError(t, err)
	size, err := attrs.Get("size")
	require.NoError(t, err)
	distance, err := pos.Distance(pos)
	require.NoError(t, err)
	year, err := seen.Year()
	require.NoError(t, err)
	decimalLit, err := expr.Literal(apd.New(1250, -2))
	require.NoError(t, err)
	uuidLit, err := expr.Literal(uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"))
	require.NoError(t, err)
	timeLit, err := expr.Literal(time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	geoLit, err := expr.Literal(orb.Point{30.5, 50.4})
	require.NoError(t, err)
	arrayLit, err := expr.Literal([]int64{1, 2, 3})
	require.NoError(t, err)
	mapLit, err := expr.Literal(map[string]int64{"b": 2, "a": 1})
	require.NoError(t, err)
	seq, err := expr.Sequence(1, 2, nil)
	require.NoError(t, err)

	cases := map[string]expr.Value{
		"comparison":        heavier,
		"renamed column":    expr.WithName(weight, "w"),
		"cast":              cast,
		"windowed sum":      framed,
		"simple case":       caseExpr,
		"array index":       firstTag,
		"map get":           size,
		"geo distance":      distance,
		"extract year":      year,
		"null":              expr.Null(),
		"decimal literal":   decimalLit,
		"uuid literal":      uuidLit,
		"timestamp literal": timeLit,
		"geometry literal":  geoLit,
		"array literal":     arrayLit,
		"map literal":       mapLit,
		"sequence":          seq,
	}
	for name, original := range cases {
		t.Run(name, func(t *testing.T) {
			data, err := Marshal(original, Options{})
			require.NoError(t, err)

			decoded, err := Unmarshal(data)
			require.NoError(t, err)
			require.True(t, decoded.Equal(original), "decoded graph differs:\n%s", decoded)
			require.Equal(t, original.Hash(), decoded.Hash())
			require.Equal(t, original.Type(), decoded.Type())
			require.Equal(t, original.Shape(), decoded.Shape())
		})
	}
}

func TestDeterministicOutput(t *testing.T) {
	build := func() expr.Value {
		table := testTable(t)
		weight, err := table.NumericColumn("weight")
		require.NoError(t, err)
		doubled, err := weight.Add(weight)
		require.NoError(t, err)
		capped, err := doubled.Clip(nil, int64(100))
		require.NoError(t, err)
		return capped.Name("capped")
	}
	first := build()
	second := build()
	require.True(t, first.Equal(second))

	a, err := Marshal(first, Options{})
	require.NoError(t, err)
	b, err := Marshal(second, Options{})
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestSharedNodesEncodeOnce(t *testing.T) {
	table := testTable(t)
	weight, err := table.NumericColumn("weight")
	require.NoError(t, err)
	total, err := weight.Add(weight)
	require.NoError(t, err)

	data, err := Marshal(total, Options{})
	require.NoError(t, err)

	var env envelope
	require.NoError(t, msgpack.Unmarshal(data, &env))
	// One table, one column, one add: the shared column is one node.
	require.Len(t, env.Nodes, 3)

	decoded, err := Unmarshal(data)
	require.NoError(t, err)
	op, ok := decoded.Op().(*ops.Op)
	require.True(t, ok)
	require.Same(t, op.Arg("left"), op.Arg("right"))
}

func TestCompression(t *testing.T) {
	table := testTable(t)
	carrier, err := table.StringColumn("carrier")
	require.NoError(t, err)
	upper := carrier.Upper()

	plain, err := Marshal(upper, Options{})
	require.NoError(t, err)
	require.False(t, isCompressed(plain))

	packed, err := Marshal(upper, Options{Compress: true})
	require.NoError(t, err)
	require.True(t, isCompressed(packed))
	require.False(t, bytes.Equal(plain, packed))

	for _, data := range [][]byte{plain, packed} {
		decoded, err := Unmarshal(data)
		require.NoError(t, err)
		require.True(t, decoded.Equal(upper))
	}
}

func TestProjectionRoundTrip(t *testing.T) {
	table := testTable(t)
	weight, err := table.NumericColumn("weight")
	require.NoError(t, err)
	heavy, err := weight.Gt(50.0)
	require.NoError(t, err)

	sel, err := table.Select(weight.Name("w"), heavy.Name("heavy"))
	require.NoError(t, err)

	data, err := MarshalProjection(sel, Options{Compress: true})
	require.NoError(t, err)

	back, err := UnmarshalProjection(data)
	require.NoError(t, err)
	require.True(t, ops.Equal(sel, back))
	require.Equal(t, sel.Names(), back.Names())
	require.True(t, sel.Schema().Equals(back.Schema()))

	_, err = Unmarshal(data)
	require.ErrorContains(t, err, "not a value")
}

func TestUnknownOperation(t *testing.T) {
	data, err := msgpack.Marshal(envelope{
		Version: version,
		Nodes:   []wireNode{{Op: "frobnicate"}},
		Root:    0,
	})
	require.NoError(t, err)

	_, err = Unmarshal(data)
	require.ErrorContains(t, err, "frobnicate")
}

func TestTamperedEnvelope(t *testing.T) {
	data, err := msgpack.Marshal(envelope{
		Version: version,
		Nodes: []wireNode{
			{Op: "literal", Fields: []wireField{
				{Name: "value", Kind: fieldValue, Value: "abc"},
				{Name: "dtype", Kind: fieldType, Value: "string"},
			}},
			{Op: "literal", Fields: []wireField{
				{Name: "value", Kind: fieldValue, Value: int64(1)},
				{Name: "dtype", Kind: fieldType, Value: "int64"},
			}},
			{Op: "add", Fields: []wireField{
				{Name: "left", Kind: fieldNode, Value: 0},
				{Name: "right", Kind: fieldNode, Value: 1},
			}},
		},
		Root: 2,
	})
	require.NoError(t, err)

	_, err = Unmarshal(data)
	require.ErrorIs(t, err, dt.ErrType)
}

func TestEnvelopeErrors(t *testing.T) {
	t.Run("bad version", func(t *testing.T) {
		data, err := msgpack.Marshal(envelope{Version: 99})
		require.NoError(t, err)
		_, err = Unmarshal(data)
		require.ErrorContains(t, err, "version")
	})
	t.Run("root out of range", func(t *testing.T) {
		data, err := msgpack.Marshal(envelope{Version: version, Root: 5})
		require.NoError(t, err)
		_, err = Unmarshal(data)
		require.ErrorContains(t, err, "out of range")
	})
	t.Run("forward reference", func(t *testing.T) {
		data, err := msgpack.Marshal(envelope{
			Version: version,
			Nodes: []wireNode{
				{Op: "abs", Fields: []wireField{
					{Name: "value", Kind: fieldNode, Value: 1},
				}},
				{Op: "literal", Fields: []wireField{
					{Name: "value", Kind: fieldValue, Value: int64(1)},
					{Name: "dtype", Kind: fieldType, Value: "int64"},
				}},
			},
			Root: 0,
		})
		require.NoError(t, err)
		_, err = Unmarshal(data)
		require.ErrorContains(t, err, "out of range")
	})
	t.Run("garbage", func(t *testing.T) {
		_, err := Unmarshal([]byte{0xc1, 0x00, 0x01})
		require.Error(t, err)
	})
}
