// Package expr builds typed, backend-agnostic expression graphs for
// analytical queries.
//
// An expression is an immutable node in a directed acyclic graph. Each
// node carries a validated output data type and a shape, scalar or
// column, both fixed at construction. The package layers three views
// on that graph:
//
//   - datatypes: the type lattice with nullability, containers,
//     precedence and cast rules
//   - ops: the operation catalog that validates arguments and infers
//     output contracts
//   - expr (this package): typed fluent views dispatched by type
//     family, plus literals, tables and rendering
//
// # Quick Start
//
// Declare a relation, derive columns and combine them:
//
//	package main
//
//	import (
//	    "fmt"
//
//	    "github.com/hugr-lab/expr-go"
//	    dt "github.com/hugr-lab/expr-go/datatypes"
//	)
//
//	func main() {
//	    schema, _ := dt.NewSchema(
//	        dt.Field{Name: "carrier", Type: dt.String},
//	        dt.Field{Name: "dep_delay", Type: dt.Float64},
//	        dt.Field{Name: "distance", Type: dt.Float64},
//	    )
//	    flights, _ := expr.NewTable("flights", schema)
//
//	    delay, _ := flights.NumericColumn("dep_delay")
//	    distance, _ := flights.NumericColumn("distance")
//
//	    speed, _ := distance.Div(delay)
//	    fast, _ := speed.Gt(500)
//
//	    proj, _ := flights.Select(speed.Name("speed"), fast.Name("fast"))
//	    fmt.Println(proj.Schema())
//	}
//
// Every builder validates eagerly: a type mismatch surfaces at the
// call that would create the invalid node, wrapped around
// datatypes.ErrType or datatypes.ErrInput.
//
// # Views
//
// Wrap binds a graph node to the view of its type family. NumericValue
// carries arithmetic, StringValue text operations, TemporalValue
// calendar arithmetic, and so on. Methods shared by all families,
// comparisons, casts, null handling, aggregation and windowing, live
// on every view.
//
// Name overrides an expression's resolved name without changing the
// graph. Equality and hashing fold the override in, so two views over
// one node with different names compare unequal.
//
// # Literals
//
// Literal infers the narrowest type from a Go value, or validates the
// value against an explicit type:
//
//	answer, _ := expr.Literal(42)                 // int8
//	ratio, _ := expr.Literal(42, "float64")       // float64
//	_, err := expr.Literal("foobar", "int64")     // cast error
//
// expr.Null() is the shared untyped null.
//
// # Serialization
//
// The serialize package encodes expression graphs into a compact
// MessagePack envelope and decodes them back through the operation
// catalog, re-validating every node.
package expr
