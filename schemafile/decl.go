package schemafile

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// File is the document root of a schema file.
type File struct {
	Records []RecordDecl `yaml:"records"`
}

// RecordDecl declares one named record binding.
type RecordDecl struct {
	Name      string      `yaml:"name"`
	Unknown   string      `yaml:"unknown"`
	Precision uint32      `yaml:"precision"`
	Fields    []FieldDecl `yaml:"fields"`
}

// FieldDecl declares one field of a record. Kind selects the scalar coder;
// Record embeds another record of the same file instead.
type FieldDecl struct {
	Name       string     `yaml:"name"`
	Key        string     `yaml:"key"`
	Source     string     `yaml:"source"`
	Kind       string     `yaml:"kind"`
	Required   *bool      `yaml:"required"`
	Null       bool       `yaml:"null"`
	Default    yaml.Node  `yaml:"default"`
	ReadOnly   bool       `yaml:"read_only"`
	WriteOnly  bool       `yaml:"write_only"`
	Precision  uint32     `yaml:"precision"`
	Transforms []StepDecl `yaml:"transforms"`
	Export     []StepDecl `yaml:"export"`
	Format     string     `yaml:"format"`

	Choices   []string `yaml:"choices"`
	Min       *Number  `yaml:"min"`
	Max       *Number  `yaml:"max"`
	MinLength *int     `yaml:"min_length"`
	MaxLength *int     `yaml:"max_length"`
	Blank     bool     `yaml:"blank"`
	Layout    []string `yaml:"layout"`
	Elem      string   `yaml:"elem"`

	Record     string `yaml:"record"`
	Many       bool   `yaml:"many"`
	AllowEmpty *bool  `yaml:"allow_empty"`
	MinItems   int    `yaml:"min_items"`
	MaxItems   int    `yaml:"max_items"`
}

// StepDecl declares one transform step.
type StepDecl struct {
	Op        string `yaml:"op"`
	Operand   Number `yaml:"operand"`
	Precision uint32 `yaml:"precision"`
}

// Number keeps the literal text of a YAML scalar so that decimal operands
// such as 0.1 are not rounded through float64.
type Number string

func (n *Number) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number, got %s", node.Line, nodeKind(node))
	}
	*n = Number(node.Value)
	return nil
}

func (n Number) String() string { return string(n) }

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.AliasNode:
		return "alias"
	}
	return "scalar"
}
