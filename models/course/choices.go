package course

import (
	"fmt"
	"strings"

	"courseplatform/apperr"
)

// ChoiceSeparator joins choice options inside a single text column. There is
// no escaping, so an option may not contain it.
const ChoiceSeparator = ",_"

// EncodeChoices joins options with ChoiceSeparator.
func EncodeChoices(options []string) (string, error) {
	for i, o := range options {
		if strings.Contains(o, ChoiceSeparator) {
			return "", fmt.Errorf("choice %d %q contains %q: %w", i, o, ChoiceSeparator, apperr.ErrValidationFailed)
		}
	}
	return strings.Join(options, ChoiceSeparator), nil
}

// DecodeChoices splits an encoded column back into its ordered options. An
// empty column has no options.
func DecodeChoices(raw string) []string {
	if raw == "" {
		return []string{}
	}
	return strings.Split(raw, ChoiceSeparator)
}
