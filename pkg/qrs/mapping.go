package qrs

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// The attribute-to-wire-field mapping is declared statically on each type via
// json tags. wireTypes lists every type that crosses the wire; init verifies
// the declared mapping is total and collision-free in both directions, so a
// missing or duplicated field is a startup panic instead of a silent drop.
var wireTypes = []reflect.Type{
	reflect.TypeOf(App{}),
	reflect.TypeOf(AppExport{}),
	reflect.TypeOf(Stream{}),
	reflect.TypeOf(User{}),
	reflect.TypeOf(CustomPropertyDefinition{}),
	reflect.TypeOf(CustomPropertyValue{}),
	reflect.TypeOf(Tag{}),
	reflect.TypeOf(Task{}),
	reflect.TypeOf(About{}),
}

// wireFieldNames caches, per type, the sorted wire field names the mapping
// declares. The codec consults it to tell a cleared attribute apart from a
// wire field outside the mapping.
var wireFieldNames = map[reflect.Type][]string{}

func init() {
	for _, t := range wireTypes {
		seen := make(map[string]string)
		if err := walkFields(t, seen); err != nil {
			panic(fmt.Sprintf("qrs: wire mapping for %s: %v", t.Name(), err))
		}

		names := make([]string, 0, len(seen))
		for name := range seen {
			names = append(names, name)
		}

		sort.Strings(names)
		wireFieldNames[t] = names
	}
}

// mappedWireFields returns the declared wire field names for the entity's
// type.
func mappedWireFields(e Entity) []string {
	return wireFieldNames[reflect.TypeOf(e).Elem()]
}

// validateMapping checks that every exported attribute of t maps to exactly
// one wire field and no wire field is claimed twice.
func validateMapping(t reflect.Type) error {
	seen := make(map[string]string)

	return walkFields(t, seen)
}

func walkFields(t reflect.Type, seen map[string]string) error {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		// Unexported carriers (the raw snapshot) never cross the wire.
		if !field.IsExported() {
			continue
		}

		if field.Anonymous {
			if err := walkFields(field.Type, seen); err != nil {
				return err
			}

			continue
		}

		wireName, ok := jsonName(field)
		if !ok {
			return fmt.Errorf("attribute %s has no wire field mapping", field.Name)
		}

		if prev, dup := seen[wireName]; dup {
			return fmt.Errorf("wire field %q mapped by both %s and %s", wireName, prev, field.Name)
		}

		seen[wireName] = field.Name
	}

	return nil
}

func jsonName(field reflect.StructField) (string, bool) {
	tag, ok := field.Tag.Lookup("json")
	if !ok {
		return "", false
	}

	name, _, _ := strings.Cut(tag, ",")
	if name == "" || name == "-" {
		return "", false
	}

	return name, true
}
