package lint

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// DecodeOptions decodes rule options into out, a pointer to a struct with
// mapstructure tags. Scalars are converted weakly (YAML "3" decodes into an
// int) and unknown keys are rejected.
func DecodeOptions(opts map[string]any, out any) error {
	if len(opts) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("failed to create options decoder: %w", err)
	}
	if err := dec.Decode(opts); err != nil {
		return fmt.Errorf("invalid rule options: %w", err)
	}
	return nil
}
