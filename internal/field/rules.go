package field

import (
	"fmt"
	"strings"
)

// rules.go encodes the dependent-field constraint matrix: which input types
// are legal for each field type, and whether the type requires options.
//
// The matrix is fixed by the remote API, not configurable.

// Rule describes the constraints for one field type.
type Rule struct {
	// MaxInputType is the highest legal input_type_id; the legal range is
	// always [0, MaxInputType] with no gaps.
	MaxInputType uint8

	// OptionsRequired is true for selection types, which need at least one
	// option value.
	OptionsRequired bool

	// InputTypes names each legal input type by its id, for error messages.
	// Nil for types whose only legal input_type_id is 0.
	InputTypes []string
}

// Rules maps each valid TypeID to its constraints. A type_id absent from
// this table is invalid.
var Rules = map[TypeID]Rule{
	TypeText: {
		MaxInputType: 6,
		InputTypes: []string{
			"Anything", "Integer", "Money", "Alphanumeric",
			"Decimal", "URL", "Password",
		},
	},
	TypeMemo: {},
	TypeSingleSelect: {
		MaxInputType:    2,
		OptionsRequired: true,
		InputTypes: []string{
			"Standard dropdown", "Tree dropdown", "Radio selection",
		},
	},
	TypeMultiSelect: {OptionsRequired: true},
	TypeDate: {
		MaxInputType: 1,
		InputTypes:   []string{"Date only", "Date and time"},
	},
	TypeTime:     {},
	TypeCheckbox: {},
	TypeRich:     {},
}

// inputTypeMessage builds the error message listing the legal input types
// for a field type.
func inputTypeMessage(t TypeID, r Rule) string {
	if r.InputTypes == nil {
		return fmt.Sprintf(
			"field type %s only accepts input_type_id 0; this field type has no input options",
			t,
		)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s fields (type_id: %d) accept these input types:", t, t)
	for id, name := range r.InputTypes {
		fmt.Fprintf(&b, "\n%d: %s", id, name)
	}
	return b.String()
}

// validTypeIDs returns the sorted list of valid type ids for error messages.
func validTypeIDs() string {
	ids := []TypeID{
		TypeText, TypeMemo, TypeSingleSelect, TypeMultiSelect,
		TypeDate, TypeTime, TypeCheckbox, TypeRich,
	}
	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d (%s)", id, id)
	}
	return b.String()
}
