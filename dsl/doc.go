// Package dsl declares field-level, bidirectional bindings between external
// (wire) mappings and internal mappings.
//
// Overview
//   - Field: a named slot with a dotted external key, a dotted internal source,
//     a reversible numeric pipeline (transform.Pipeline), an optional export
//     override, an optional formatter and a scalar coder.
//   - RecordBinding: binds one mapping, attempting every field and collecting
//     all failures in declaration order (*wirebind.RecordError).
//   - ListBinding: binds a sequence with any child binder, keeping one error
//     slot per item (*wirebind.ListError).
//
// Entry points
//   - Integer/Decimal/Text/Boolean/Timestamp/ListField(name): field builders;
//     chain Key/Source/Multiply/Divide/Add/Subtract/Precision/Export/FormatName.
//   - Embed(name, binder): nest a record or list; Computed(name, fn): read-only
//     value derived on export.
//   - Record(): chain Field/Validate/Refine/Unknown*/ListFactory, then Build.
//   - List(child, opts...): list binding; RecordBinding.Many() returns the
//     record's own list binding, created once in Build.
//   - Decode[T]: bind and decode the internal mapping into a struct (`bind` tags).
//
// Quickstart
//
//	rec := dsl.Record().
//		Field(
//			dsl.Text("name"),
//			dsl.Integer("amount").Key("price.amount").Multiply(100).FormatName("fixed:2"),
//		).
//		MustBuild()
//
//	in, err := rec.Bind(ctx, map[string]any{"name": "tea", "price": map[string]any{"amount": "12.50"}})
//	// in == map[string]any{"name": "tea", "amount": int64(1250)}
//	out := rec.Present(ctx, in)
//	// out == map[string]any{"name": "tea", "price": map[string]any{"amount": "12.50"}}
//
// Import runs, per field: key lookup, missing/null policy, pipeline forward,
// scalar coercion, then the record's validator for that field. Export runs
// scalar serialization, the override (or the inverted pipeline in reverse
// order), then the formatter. Multiply truncates on import, so only values
// that were produced by an import, scaled by an operand whose quotient is
// exact, survive an export/import round trip.
package dsl
