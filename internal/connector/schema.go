package connector

import "github.com/go-playground/validator/v10"

var schemaValidator = validator.New()

// FieldType is the closed set of config-field widgets a connector can
// declare.
type FieldType string

const (
	FieldText    FieldType = "text"
	FieldSecret  FieldType = "secret"
	FieldNumber  FieldType = "number"
	FieldBoolean FieldType = "boolean"
	FieldSelect  FieldType = "select"
)

// ConfigField describes one credential or setting a connector accepts.
type ConfigField struct {
	Name        string    `json:"name"`
	Label       string    `json:"label"`
	Type        FieldType `json:"field_type"`
	Required    bool      `json:"required"`
	Description string    `json:"description,omitempty"`
	// Options is only meaningful when Type == FieldSelect.
	Options []string `json:"options,omitempty"`
}

// ConfigSchema is an ordered list of config fields; required==true fields
// drive the "auth required" UI badge in host applications.
type ConfigSchema struct {
	Fields []ConfigField `json:"fields"`
}

// Validate checks that every field in creds satisfying Required is present
// and non-empty. It never rejects fields absent from the schema: connectors
// may accept ambient settings (e.g. rate limits) that aren't credentials.
func (s ConfigSchema) Validate(creds map[string]string) error {
	for _, f := range s.Fields {
		if !f.Required {
			continue
		}
		if err := schemaValidator.Var(creds[f.Name], "required"); err != nil {
			return InvalidParams("missing required config field %q (%s)", f.Name, f.Label)
		}
	}
	return nil
}
