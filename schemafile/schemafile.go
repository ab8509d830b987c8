// Package schemafile loads record bindings declared in YAML.
//
//	records:
//	  - name: Product
//	    unknown: strict
//	    fields:
//	      - name: cents
//	        key: price.amount
//	        kind: integer
//	        transforms: [{op: multiply, operand: 100}]
//	        format: string
//	      - name: tags
//	        kind: list
//	        elem: text
//	  - name: Order
//	    fields:
//	      - name: lines
//	        record: Product
//	        many: true
//
// Records may reference one another by name in any order; reference cycles
// are rejected.
package schemafile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/reoring/wirebind/dsl"
)

var (
	ErrEmpty         = errors.New("schemafile: no records declared")
	ErrDuplicate     = errors.New("schemafile: duplicate record name")
	ErrUnknownRecord = errors.New("schemafile: unknown record")
	ErrCycle         = errors.New("schemafile: cyclic record reference")
	ErrUnknownKind   = errors.New("schemafile: unknown field kind")
)

// Set holds the built records of one schema file.
type Set struct {
	order   []string
	records map[string]*dsl.RecordBinding
}

// Record returns the named record binding.
func (s *Set) Record(name string) (*dsl.RecordBinding, bool) {
	r, ok := s.records[name]
	return r, ok
}

// Names lists the record names in declaration order.
func (s *Set) Names() []string { return append([]string(nil), s.order...) }

// Load reads and builds the schema file at path.
func Load(path string) (*Set, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schemafile: %w", err)
	}
	return Parse(b)
}

// Parse decodes a schema document and builds every record it declares.
// Unknown YAML fields are errors.
func Parse(data []byte) (*Set, error) {
	f, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return Build(f)
}

// Decode reads the declarations without building them.
func Decode(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("schemafile: decode: %w", err)
	}
	return &f, nil
}

// Build builds the declared records, resolving references between them.
func Build(f *File) (*Set, error) {
	if f == nil || len(f.Records) == 0 {
		return nil, ErrEmpty
	}
	b := &builder{
		decls: make(map[string]*RecordDecl, len(f.Records)),
		state: map[string]int{},
		set:   &Set{records: make(map[string]*dsl.RecordBinding, len(f.Records))},
	}
	for i := range f.Records {
		d := &f.Records[i]
		if d.Name == "" {
			return nil, fmt.Errorf("schemafile: record #%d has no name", i)
		}
		if _, dup := b.decls[d.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicate, d.Name)
		}
		b.decls[d.Name] = d
		b.set.order = append(b.set.order, d.Name)
	}
	for _, name := range b.set.order {
		if _, err := b.record(name, nil); err != nil {
			return nil, err
		}
	}
	return b.set, nil
}
