package schemafile

import (
	"fmt"
	"strconv"
	"strings"

	wirebind "github.com/reoring/wirebind"
	"github.com/reoring/wirebind/dsl"
	"github.com/reoring/wirebind/scalar"
	"github.com/reoring/wirebind/transform"
)

const (
	unvisited = iota
	visiting
	built
)

type builder struct {
	decls map[string]*RecordDecl
	state map[string]int
	set   *Set
}

// record builds the named record after every record it references. path is
// the chain of records currently being built.
func (b *builder) record(name string, path []string) (*dsl.RecordBinding, error) {
	switch b.state[name] {
	case built:
		return b.set.records[name], nil
	case visiting:
		return nil, fmt.Errorf("%w: %s", ErrCycle, strings.Join(append(path, name), " -> "))
	}
	d, ok := b.decls[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRecord, name)
	}
	b.state[name] = visiting
	path = append(path, name)

	policy, ok := wirebind.ParseUnknownPolicy(d.Unknown)
	if !ok {
		return nil, fmt.Errorf("schemafile: record %q: unknown policy %q", name, d.Unknown)
	}
	rb := dsl.Record().Unknown(policy).Precision(d.Precision)
	for i := range d.Fields {
		fb, err := b.field(&d.Fields[i], path)
		if err != nil {
			return nil, fmt.Errorf("schemafile: record %q: %w", name, err)
		}
		rb.Field(fb)
	}
	rec, err := rb.Build()
	if err != nil {
		return nil, fmt.Errorf("schemafile: record %q: %w", name, err)
	}
	b.set.records[name] = rec
	b.state[name] = built
	return rec, nil
}

func (b *builder) field(fd *FieldDecl, path []string) (*dsl.FieldBuilder, error) {
	var fb *dsl.FieldBuilder
	switch {
	case fd.Record != "":
		if fd.Kind != "" {
			return nil, fmt.Errorf("field %q: kind and record are exclusive", fd.Name)
		}
		if err := noOptions(fd, "record"); err != nil {
			return nil, err
		}
		rec, err := b.record(fd.Record, path)
		if err != nil {
			return nil, err
		}
		if fd.Many {
			fb = dsl.Embed(fd.Name, rec.Many(listOptions(fd)...))
		} else {
			if fd.AllowEmpty != nil || fd.MinItems != 0 || fd.MaxItems != 0 {
				return nil, fmt.Errorf("field %q: item counts require many", fd.Name)
			}
			fb = dsl.Embed(fd.Name, rec)
		}
	case fd.Many:
		return nil, fmt.Errorf("field %q: many requires record", fd.Name)
	default:
		c, err := coderFor(fd)
		if err != nil {
			return nil, err
		}
		fb = dsl.NewField(fd.Name, c)
	}

	if fd.Key != "" {
		fb.Key(fd.Key)
	}
	if fd.Source != "" {
		fb.Source(fd.Source)
	}
	if fd.Required != nil {
		if *fd.Required {
			fb.Required()
		} else {
			fb.Optional()
		}
	}
	if fd.Null {
		fb.Nullable()
	}
	if fd.Default.Kind != 0 {
		var v any
		if err := fd.Default.Decode(&v); err != nil {
			return nil, fmt.Errorf("field %q: default: %w", fd.Name, err)
		}
		fb.Default(v)
	}
	if fd.ReadOnly {
		fb.ReadOnly()
	}
	if fd.WriteOnly {
		fb.WriteOnly()
	}
	if fd.Precision != 0 {
		fb.Precision(fd.Precision)
	}
	for _, s := range fd.Transforms {
		fb.Step(s.Op, s.Operand.String(), s.Precision)
	}
	for _, s := range fd.Export {
		fb.ExportStep(s.Op, s.Operand.String(), s.Precision)
	}
	if fd.Format != "" {
		fb.FormatName(fd.Format)
	}
	return fb, nil
}

func listOptions(fd *FieldDecl) []dsl.ListOption {
	var opts []dsl.ListOption
	if fd.AllowEmpty != nil {
		opts = append(opts, dsl.AllowEmpty(*fd.AllowEmpty))
	}
	if fd.MinItems != 0 {
		opts = append(opts, dsl.MinItems(fd.MinItems))
	}
	if fd.MaxItems != 0 {
		opts = append(opts, dsl.MaxItems(fd.MaxItems))
	}
	return opts
}

// coderFor builds the scalar coder of fd and its kind-specific options.
func coderFor(fd *FieldDecl) (scalar.Coder, error) {
	switch strings.ToLower(fd.Kind) {
	case "integer", "int":
		if err := onlyOptions(fd, "choices", "min", "max"); err != nil {
			return nil, err
		}
		c := scalar.Integer()
		if fd.Min != nil {
			n, err := parseInt(fd, *fd.Min)
			if err != nil {
				return nil, err
			}
			c.Min(n)
		}
		if fd.Max != nil {
			n, err := parseInt(fd, *fd.Max)
			if err != nil {
				return nil, err
			}
			c.Max(n)
		}
		if len(fd.Choices) > 0 {
			vals := make([]int64, 0, len(fd.Choices))
			for _, s := range fd.Choices {
				n, err := parseInt(fd, Number(s))
				if err != nil {
					return nil, err
				}
				vals = append(vals, n)
			}
			c.Choices(vals...)
		}
		return c, nil
	case "decimal", "number":
		if err := onlyOptions(fd, "min", "max"); err != nil {
			return nil, err
		}
		c := scalar.Decimal()
		if fd.Min != nil {
			if _, err := transform.ToDecimal(fd.Min.String()); err != nil {
				return nil, fmt.Errorf("field %q: min: %w", fd.Name, err)
			}
			c.Min(fd.Min.String())
		}
		if fd.Max != nil {
			if _, err := transform.ToDecimal(fd.Max.String()); err != nil {
				return nil, fmt.Errorf("field %q: max: %w", fd.Name, err)
			}
			c.Max(fd.Max.String())
		}
		return c, nil
	case "text", "string":
		if err := onlyOptions(fd, "choices", "min_length", "max_length", "blank"); err != nil {
			return nil, err
		}
		c := scalar.Text()
		if fd.Blank {
			c.AllowBlank()
		}
		if fd.MinLength != nil {
			c.MinLen(*fd.MinLength)
		}
		if fd.MaxLength != nil {
			c.MaxLen(*fd.MaxLength)
		}
		if len(fd.Choices) > 0 {
			c.Choices(fd.Choices...)
		}
		return c, nil
	case "boolean", "bool":
		if err := onlyOptions(fd); err != nil {
			return nil, err
		}
		return scalar.Boolean(), nil
	case "timestamp", "datetime":
		if err := onlyOptions(fd, "layout"); err != nil {
			return nil, err
		}
		c := scalar.Timestamp()
		if len(fd.Layout) > 0 {
			c.Layouts(fd.Layout...)
		}
		return c, nil
	case "list":
		if err := onlyOptions(fd, "elem", "allow_empty"); err != nil {
			return nil, err
		}
		elem, ok := scalar.ByKind(fd.Elem)
		if !ok || elem.Kind() == "computed" {
			return nil, fmt.Errorf("%w: field %q: elem %q", ErrUnknownKind, fd.Name, fd.Elem)
		}
		c := scalar.List(elem)
		if fd.AllowEmpty != nil {
			c.AllowEmpty(*fd.AllowEmpty)
		}
		return c, nil
	}
	return nil, fmt.Errorf("%w: field %q: %q", ErrUnknownKind, fd.Name, fd.Kind)
}

func parseInt(fd *FieldDecl, n Number) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(n.String()), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("field %q: %q is not an integer", fd.Name, n)
	}
	return v, nil
}

// setOptions lists the kind-specific options present on fd.
func setOptions(fd *FieldDecl) []string {
	var out []string
	add := func(set bool, name string) {
		if set {
			out = append(out, name)
		}
	}
	add(len(fd.Choices) > 0, "choices")
	add(fd.Min != nil, "min")
	add(fd.Max != nil, "max")
	add(fd.MinLength != nil, "min_length")
	add(fd.MaxLength != nil, "max_length")
	add(fd.Blank, "blank")
	add(len(fd.Layout) > 0, "layout")
	add(fd.Elem != "", "elem")
	add(fd.AllowEmpty != nil && fd.Record == "", "allow_empty")
	return out
}

func onlyOptions(fd *FieldDecl, allowed ...string) error {
	for _, opt := range setOptions(fd) {
		ok := false
		for _, a := range allowed {
			if a == opt {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("field %q: option %s does not apply to kind %s", fd.Name, opt, fd.Kind)
		}
	}
	return nil
}

func noOptions(fd *FieldDecl, what string) error {
	if opts := setOptions(fd); len(opts) > 0 {
		return fmt.Errorf("field %q: option %s does not apply to %s fields", fd.Name, opts[0], what)
	}
	return nil
}
