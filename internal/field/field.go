// Package field defines the validated field-definition model and the
// type-dependent validation rules applied to each CSV row before submission.
//
// A Field value is only ever produced by ValidateRow, so holding one is proof
// that the full constraint matrix passed. Fields are immutable after creation.
package field

import "strconv"

// TypeID is the closed enumeration of remote field categories.
type TypeID uint8

const (
	TypeText         TypeID = 0
	TypeMemo         TypeID = 1
	TypeSingleSelect TypeID = 2
	TypeMultiSelect  TypeID = 3
	TypeDate         TypeID = 4
	TypeTime         TypeID = 5
	TypeCheckbox     TypeID = 6
	TypeRich         TypeID = 10
)

// String returns the human-readable category name used in error messages.
func (t TypeID) String() string {
	switch t {
	case TypeText:
		return "Text"
	case TypeMemo:
		return "Memo"
	case TypeSingleSelect:
		return "Single Selection"
	case TypeMultiSelect:
		return "Multiple Selection"
	case TypeDate:
		return "Date"
	case TypeTime:
		return "Time"
	case TypeCheckbox:
		return "Checkbox"
	case TypeRich:
		return "Rich"
	default:
		return "Unknown (" + strconv.Itoa(int(t)) + ")"
	}
}

// Field is one validated field definition ready for submission.
type Field struct {
	Name        string
	Label       string
	TypeID      TypeID
	InputTypeID uint8

	// Options carries the raw options string. It is validated (non-empty)
	// only for selection types; for all other types it passes through as-is.
	Options string
}

// Payload is the wire representation expected by the field-creation endpoint.
// The endpoint requires numeric type identifiers to be sent as strings and
// accepts only an array body, even for a single field.
type Payload struct {
	Usage               int    `json:"usage"`
	Name                string `json:"name"`
	Label               string `json:"label"`
	Type                string `json:"type"`
	InputType           string `json:"inputtype"`
	NewValues           string `json:"new_values"`
	Searchable          bool   `json:"searchable"`
	UserSearchable      bool   `json:"user_searchable"`
	CalendarSearchable  bool   `json:"calendar_searchable"`
	CopyToChild         bool   `json:"copytochild"`
	CopyToChildOnUpdate bool   `json:"copytochildonupdate"`
}

// Payload converts the field to its wire form with the fixed defaults the
// endpoint expects (usage 1, all search/copy flags enabled).
func (f Field) Payload() Payload {
	return Payload{
		Usage:               1,
		Name:                f.Name,
		Label:               f.Label,
		Type:                strconv.Itoa(int(f.TypeID)),
		InputType:           strconv.Itoa(int(f.InputTypeID)),
		NewValues:           f.Options,
		Searchable:          true,
		UserSearchable:      true,
		CalendarSearchable:  true,
		CopyToChild:         true,
		CopyToChildOnUpdate: true,
	}
}
