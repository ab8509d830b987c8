// Package wirebind binds external (wire) payloads to internal records and
// presents internal records back in their wire shape.
//
// It provides:
//
// - The Binder contract shared by fields, records and lists (Bind/Present)
// - A stable error model: Issues (JSON Pointer, code, message), ShapeError,
// and the aggregates RecordError and ListError, classified by KindOf
// - JSON entry points (BindJSON/PresentJSON) that keep numbers exact
//
// Design policy:
//   - Keep the public contract in the root package; builders live under dsl/,
//     scalar coders under scalar/, reversible numeric steps under transform/,
//     and YAML schema files under schemafile/.
//   - Binding is synchronous and pure. Built bindings are immutable and safe
//     for concurrent use.
//   - Present never fails; a broken invariant panics.
//
// Typical usage:
//
//	rec := dsl.Record().Field(
//		dsl.Integer("cents").Key("price.amount").Multiply(100),
//		dsl.Text("name"),
//	).MustBuild()
//
//	v, err := wirebind.BindJSON[map[string]any](ctx, rec, data)
//	if iss, ok := wirebind.AsIssues(err); ok {
//		// iss[0].Path == "/price/amount"
//	}
//	out, err := wirebind.PresentJSON[map[string]any](ctx, rec, v)
package wirebind
