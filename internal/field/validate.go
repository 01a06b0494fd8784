package field

import (
	"strconv"
	"strings"
	"unicode"
)

// RowValues holds the raw string values for one CSV row, resolved by header
// name before validation.
type RowValues struct {
	Name        string
	Label       string
	TypeID      string
	InputTypeID string
	Options     string
}

// ValidateRow validates one row against the constraint matrix and returns a
// Field, or a *RowError describing the first failing rule.
//
// The rule order is fixed: type_id first (later checks depend on it), then
// name, label, input_type_id, options. Validation stops at the first failure.
func ValidateRow(row int, v RowValues) (Field, error) {
	typeID, err := validateTypeID(row, v.TypeID)
	if err != nil {
		return Field{}, err
	}

	name, err := validateName(row, v.Name)
	if err != nil {
		return Field{}, err
	}

	label, err := validateLabel(row, v.Label)
	if err != nil {
		return Field{}, err
	}

	inputType, err := validateInputType(row, v.InputTypeID, typeID)
	if err != nil {
		return Field{}, err
	}

	options, err := validateOptions(row, v.Options, typeID)
	if err != nil {
		return Field{}, err
	}

	return Field{
		Name:        name,
		Label:       label,
		TypeID:      typeID,
		InputTypeID: inputType,
		Options:     options,
	}, nil
}

func validateTypeID(row int, raw string) (TypeID, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 8)
	if err != nil {
		return 0, rowErr(row, ParseError,
			"failed to parse 'type_id'; the value must be an unsigned integer")
	}

	id := TypeID(n)
	if _, ok := Rules[id]; !ok {
		return 0, rowErr(row, InvalidTypeID,
			"invalid type_id: %s\n\nvalid values are:\n%s", raw, validTypeIDs())
	}
	return id, nil
}

func validateName(row int, raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", rowErr(row, RequiredFieldEmpty,
			"the 'name' field cannot be empty")
	}

	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return "", rowErr(row, InvalidFieldName,
				"field name %q is invalid; names must contain only letters and numbers", name)
		}
	}
	return name, nil
}

func validateLabel(row int, raw string) (string, error) {
	// A label of exactly one space is its own error, distinct from a value
	// that merely trims to empty.
	if raw == " " {
		return "", rowErr(row, InvalidLabel,
			"invalid label: labels must contain visible characters")
	}

	label := strings.TrimSpace(raw)
	if label == "" {
		return "", rowErr(row, RequiredFieldEmpty,
			"the 'label' field cannot be empty")
	}
	return label, nil
}

func validateInputType(row int, raw string, typeID TypeID) (uint8, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 8)
	if err != nil {
		return 0, rowErr(row, ParseError,
			"failed to parse 'input_type_id'; the value must be an unsigned integer")
	}

	rule := Rules[typeID]
	if uint8(n) > rule.MaxInputType {
		return 0, rowErr(row, InvalidInputType, "%s", inputTypeMessage(typeID, rule))
	}
	return uint8(n), nil
}

func validateOptions(row int, raw string, typeID TypeID) (string, error) {
	if !Rules[typeID].OptionsRequired {
		return raw, nil
	}
	if strings.TrimSpace(raw) == "" {
		return "", rowErr(row, MissingOptions,
			"selection fields require at least one option; provide a comma-separated list")
	}
	return raw, nil
}
