package schema

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/objectql/actionflow/pkg/domain"
)

// Decode converts a loosely-typed document into an ActionDefinition.
// The raw document is preserved on the Schema field for the generic fallback
// executor.
func Decode(doc map[string]any) (*domain.ActionDefinition, error) {
	var def domain.ActionDefinition
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "yaml",
		Result:           &def,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(doc); err != nil {
		return nil, fmt.Errorf("invalid action document: %w", err)
	}
	def.Schema = doc
	if err := Validate(&def); err != nil {
		return nil, err
	}
	return &def, nil
}

// ParseYAML decodes a single action definition from a YAML (or JSON) document.
func ParseYAML(data []byte) (*domain.ActionDefinition, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid action document: %w", err)
	}
	return Decode(doc)
}

// ParseYAMLList decodes a YAML sequence of action definitions.
func ParseYAMLList(data []byte) ([]*domain.ActionDefinition, error) {
	var docs []map[string]any
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("invalid action list: %w", err)
	}
	defs := make([]*domain.ActionDefinition, 0, len(docs))
	for i, doc := range docs {
		def, err := Decode(doc)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// Validate checks structural requirements a definition must satisfy before
// registration. Unknown kinds are allowed (they hit the generic fallback
// executor), but kind-specific configuration must be present when the kind
// requires it. Chained actions may be anonymous.
func Validate(def *domain.ActionDefinition) error {
	if def.Name == "" {
		return fmt.Errorf("action definition requires a name")
	}
	return validateKind(def)
}

func validateKind(def *domain.ActionDefinition) error {
	name := def.Name
	if name == "" {
		name = string(def.Kind)
	}
	switch def.Kind {
	case domain.KindURL:
		if def.URL == "" {
			return fmt.Errorf("action %q: kind url requires a url", name)
		}
	case domain.KindNavigation:
		if def.Path == "" {
			return fmt.Errorf("action %q: kind navigation requires a path", name)
		}
	case domain.KindFlow:
		if def.Flow == "" {
			return fmt.Errorf("action %q: kind flow requires a flow name", name)
		}
	case domain.KindAPI:
		if def.API == nil || def.API.URL == "" {
			return fmt.Errorf("action %q: kind api requires an api call", name)
		}
	case domain.KindCustom:
		if def.Custom == "" {
			return fmt.Errorf("action %q: kind custom requires a handler name", name)
		}
	}
	for i, chained := range def.Chain {
		if chained == nil {
			return fmt.Errorf("action %q: chain entry %d is empty", name, i)
		}
		if err := validateKind(chained); err != nil {
			return fmt.Errorf("action %q: chain entry %d: %w", name, i, err)
		}
	}
	return nil
}
