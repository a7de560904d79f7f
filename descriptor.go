package recval

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Descriptor is the declarative description a Schema is compiled from. Type is
// one of "string", "int" or "model"; Fields and Ref are meaningful only for
// the model kind.
type Descriptor struct {
	Type string `mapstructure:"type" yaml:"type"`
	// Ref is an opaque handle to the host composite type this model maps onto.
	// The core never inspects it; it is carried on the compiled Schema for the
	// integration layer that turns records into host objects.
	Ref    any               `mapstructure:"cls" yaml:"cls"`
	Fields []FieldDescriptor `mapstructure:"fields" yaml:"fields"`
}

// FieldDescriptor describes one field of a model descriptor. Default is only
// consulted when Required is false.
type FieldDescriptor struct {
	Name     string     `mapstructure:"name" yaml:"name"`
	Required bool       `mapstructure:"required" yaml:"required"`
	Default  any        `mapstructure:"default" yaml:"default"`
	Schema   Descriptor `mapstructure:"schema" yaml:"schema"`
}

// DescriptorFromMap decodes a generic descriptor mapping, as produced by a
// host bridge or a decoded configuration document, into a typed Descriptor.
func DescriptorFromMap(m map[string]any) (Descriptor, error) {
	var d Descriptor
	if err := mapstructure.Decode(m, &d); err != nil {
		return Descriptor{}, fmt.Errorf("recval: decode descriptor: %w", err)
	}
	return d, nil
}

// DescriptorFromYAML parses a YAML document into a Descriptor.
func DescriptorFromYAML(b []byte) (Descriptor, error) {
	var d Descriptor
	if err := yaml.Unmarshal(b, &d); err != nil {
		return Descriptor{}, fmt.Errorf("recval: parse descriptor: %w", err)
	}
	return d, nil
}
