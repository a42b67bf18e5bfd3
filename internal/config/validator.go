package config

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	oerrors "github.com/opmodel/hostctl/internal/errors"
)

//go:embed schema.cue
var schemaSource []byte

// ValidationError is a single problem with one config key.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return oerrors.ErrValidation
}

// ValidationErrors collects every problem found in one pass so `config vet`
// can report them together.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	lines := make([]string, 0, len(e)+1)
	lines = append(lines, "config validation failed:")
	for _, v := range e {
		lines = append(lines, "  "+v.Error())
	}
	return strings.Join(lines, "\n") + "\n"
}

func (e ValidationErrors) Unwrap() error {
	return oerrors.ErrValidation
}

func (e *ValidationErrors) add(field, msg string) {
	*e = append(*e, ValidationError{Field: field, Message: msg})
}

// Validator checks a Config against the embedded #Config definition.
type Validator struct {
	def cue.Value
}

// NewValidator compiles the embedded schema.
func NewValidator() (*Validator, error) {
	schema := cuecontext.New().CompileBytes(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compiling config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))
	if !def.Exists() {
		return nil, fmt.Errorf("config schema has no #Config definition")
	}
	return &Validator{def: def}, nil
}

// Validate returns ValidationErrors when cfg violates the schema or holds a
// poll interval that is not a positive duration.
func (v *Validator) Validate(cfg *Config) error {
	var errs ValidationErrors

	unified := v.def.Unify(v.def.Context().Encode(cfg))
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		for _, e := range cueerrors.Errors(err) {
			field := "config"
			if p := e.Path(); len(p) > 0 {
				field = p[len(p)-1]
			}
			format, args := e.Msg()
			errs.add(field, fmt.Sprintf(format, args...))
		}
	}

	if cfg.PollInterval != "" {
		if d, err := cfg.PollIntervalDuration(); err != nil {
			errs.add("pollInterval", "must be a duration such as 2s or 500ms")
		} else if d <= 0 {
			errs.add("pollInterval", "must be positive")
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateFile loads path and validates the result.
func (v *Validator) ValidateFile(path string) error {
	cfg, err := NewLoader().Load(path)
	if err != nil {
		return fmt.Errorf("loading config file: %w", err)
	}
	return v.Validate(cfg)
}
