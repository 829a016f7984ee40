package jsonschema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// JSON Schema primitive types understood by the Gemini function declaration
// format. Every parameter maps onto exactly one of them.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
)

// Schema is the subset of JSON Schema used to describe tool parameters.
// Property order is tracked separately in Order because Go maps are
// unordered and the backend presents parameters in declaration order.
type Schema struct {
	Type        string             `json:"type,omitempty"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Order       []string           `json:"propertyOrdering,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []any              `json:"enum,omitempty"`
	Default     any                `json:"default,omitempty"`
}

// GenerateJSONSchema derives a schema for T. Struct types (or pointers to
// them) become an object schema with one property per exported field; any
// other type yields the schema of its kind.
//
// A field is required unless it is a pointer, carries the omitempty json
// option, or declares a default through the jsonschema tag. The jsonschema
// tag accepts comma separated items:
//
//	description=City and state, e.g. San Francisco CA
//	enum=celsius,enum=fahrenheit
//	default=10
//	required
//
// Example:
//
//	type weatherArgs struct {
//	    Location string `json:"location"`
//	    Days     int    `json:"days" jsonschema:"default=1"`
//	}
//	schema, err := jsonschema.GenerateJSONSchema[weatherArgs]()
func GenerateJSONSchema[T any]() (*Schema, error) {
	return FromType(reflect.TypeFor[T]())
}

// FromType is the reflect.Type form of [GenerateJSONSchema].
func FromType(t reflect.Type) (*Schema, error) {
	if t == nil {
		return &Schema{Type: TypeString}, nil
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return typeSchema(t, map[reflect.Type]bool{})
}

// KindOf maps a Go type onto one of the six primitive schema types.
// Integers become integer, floats number, bool boolean, slices and arrays
// array, maps and structs object. Everything else, including interfaces,
// is described as a string.
func KindOf(t reflect.Type) string {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return TypeString
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return TypeInteger
	case reflect.Float32, reflect.Float64:
		return TypeNumber
	case reflect.Bool:
		return TypeBoolean
	case reflect.Slice, reflect.Array:
		return TypeArray
	case reflect.Map, reflect.Struct:
		return TypeObject
	default:
		return TypeString
	}
}

func typeSchema(t reflect.Type, visiting map[reflect.Type]bool) (*Schema, error) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	kind := KindOf(t)
	switch kind {
	case TypeArray:
		items, err := typeSchema(t.Elem(), visiting)
		if err != nil {
			return nil, err
		}
		return &Schema{Type: TypeArray, Items: items}, nil
	case TypeObject:
		if t.Kind() != reflect.Struct || visiting[t] {
			// Maps and self-referencing structs stay open objects.
			return &Schema{Type: TypeObject}, nil
		}
		return structSchema(t, visiting)
	default:
		return &Schema{Type: kind}, nil
	}
}

func structSchema(t reflect.Type, visiting map[reflect.Type]bool) (*Schema, error) {
	visiting[t] = true
	defer delete(visiting, t)

	schema := &Schema{
		Type:       TypeObject,
		Properties: map[string]*Schema{},
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name, omitEmpty, skip := jsonFieldName(field)
		if skip {
			continue
		}

		if field.Anonymous && name == field.Name && indirect(field.Type).Kind() == reflect.Struct {
			embedded, err := structSchema(indirect(field.Type), visiting)
			if err != nil {
				return nil, err
			}
			for _, prop := range embedded.Order {
				schema.Properties[prop] = embedded.Properties[prop]
				schema.Order = append(schema.Order, prop)
			}
			schema.Required = append(schema.Required, embedded.Required...)
			continue
		}

		prop, err := typeSchema(field.Type, visiting)
		if err != nil {
			return nil, err
		}
		prop.Description = "Parameter " + name

		tag, err := parseJSONSchemaTag(field.Type, field.Tag.Get("jsonschema"))
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		if tag.description != "" {
			prop.Description = tag.description
		}
		prop.Enum = tag.enum
		prop.Default = tag.defaultValue

		schema.Properties[name] = prop
		schema.Order = append(schema.Order, name)

		optional := field.Type.Kind() == reflect.Ptr || omitEmpty || tag.hasDefault
		if tag.required || !optional {
			schema.Required = append(schema.Required, name)
		}
	}

	return schema, nil
}

func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// jsonFieldName returns the wire name of a field and whether it is marked
// omitempty. skip is true for fields tagged json:"-".
func jsonFieldName(field reflect.StructField) (name string, omitEmpty bool, skip bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	name = field.Name
	if tag == "" {
		return name, false, false
	}
	parts := strings.Split(tag, ",")
	if parts[0] != "" {
		name = parts[0]
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" || opt == "omitzero" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

type schemaTag struct {
	description  string
	enum         []any
	defaultValue any
	hasDefault   bool
	required     bool
}

func parseJSONSchemaTag(fieldType reflect.Type, raw string) (schemaTag, error) {
	var tag schemaTag
	if raw == "" {
		return tag, nil
	}

	for _, item := range strings.Split(raw, ",") {
		key, value, hasValue := strings.Cut(strings.TrimSpace(item), "=")
		if !hasValue {
			if key == "required" {
				tag.required = true
			}
			continue
		}

		switch key {
		case "description":
			tag.description = value
		case "enum":
			v, err := convertTagValue(fieldType, value)
			if err != nil {
				return tag, fmt.Errorf("enum value %q: %w", value, err)
			}
			tag.enum = append(tag.enum, v)
		case "default":
			v, err := convertTagValue(fieldType, value)
			if err != nil {
				return tag, fmt.Errorf("default value %q: %w", value, err)
			}
			tag.defaultValue = v
			tag.hasDefault = true
		}
	}

	return tag, nil
}

// convertTagValue converts a tag literal to the Go value matching the field
// kind so that enums and defaults serialize with the right JSON type.
func convertTagValue(fieldType reflect.Type, value string) (any, error) {
	switch KindOf(fieldType) {
	case TypeInteger:
		return strconv.ParseInt(value, 10, 64)
	case TypeNumber:
		return strconv.ParseFloat(value, 64)
	case TypeBoolean:
		return strconv.ParseBool(value)
	case TypeString:
		return value, nil
	default:
		var v any
		if err := json.Unmarshal([]byte(value), &v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

// JsonString renders the schema as JSON, indented when indent is true.
func (s *Schema) JsonString(indent ...bool) (string, error) {
	var (
		b   []byte
		err error
	)
	if len(indent) > 0 && indent[0] {
		b, err = json.MarshalIndent(s, "", "  ")
	} else {
		b, err = json.Marshal(s)
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal schema to JSON: %w", err)
	}
	return string(b), nil
}

// String returns the compact JSON form of the schema.
func (s *Schema) String() string {
	out, err := s.JsonString()
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return out
}
