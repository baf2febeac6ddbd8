package prefs

import (
	"reflect"
	"strconv"
	"strings"
)

// FieldDescriptor describes one serialized settings field.
type FieldDescriptor struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Default   any    `json:"default"`
	MaxLength int    `json:"maxLength,omitempty"`
	Unique    bool   `json:"unique,omitempty"`
	Trimmed   bool   `json:"trimmed,omitempty"`
}

// Describe lists the settings fields in schema order with their defaults and
// the constraints declared on UserSettings.
func Describe(defaults UserSettings) []FieldDescriptor {
	snapshot := defaults.Snapshot()
	rt := reflect.TypeOf(UserSettings{})

	descriptors := make([]FieldDescriptor, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		descriptor := FieldDescriptor{
			Name:    name,
			Type:    typeName(field.Type),
			Default: snapshot[name],
		}
		for _, rule := range strings.Split(field.Tag.Get("validate"), ",") {
			key, value, _ := strings.Cut(rule, "=")
			switch key {
			case "max":
				descriptor.MaxLength, _ = strconv.Atoi(value)
			case "unique":
				descriptor.Unique = true
			case "trimmed":
				descriptor.Trimmed = true
			}
		}
		descriptors = append(descriptors, descriptor)
	}
	return descriptors
}

// MaxLength returns the declared rune limit of a text field, or 0.
func MaxLength(name string) int {
	for _, descriptor := range Describe(UserSettings{}) {
		if descriptor.Name == name {
			return descriptor.MaxLength
		}
	}
	return 0
}

func typeName(rt reflect.Type) string {
	if rt.Kind() == reflect.Slice {
		return "[]" + typeName(rt.Elem())
	}
	return rt.Kind().String()
}
