package serving

import (
	"bytes"
	"cmp"
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"sigs.k8s.io/yaml"

	oerrors "github.com/opmodel/hostctl/internal/errors"
)

//go:embed schema.cue
var schemaSource []byte

// Validate checks the structure of a raw hosting configuration document
// (JSON or YAML) before it is compiled. It catches type mismatches, redirect
// status codes outside 3xx and unknown appAssociation values, which Compile
// does not look at.
func Validate(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	jsonData, err := yaml.YAMLToJSON(trimmed)
	if err != nil {
		return oerrors.NewValidationError(err.Error(), "", "", "hosting config must be a JSON or YAML object")
	}
	if bytes.Equal(bytes.TrimSpace(jsonData), []byte("null")) {
		return nil
	}

	ctx := cuecontext.New()
	schema := ctx.CompileBytes(schemaSource)
	if schema.Err() != nil {
		return fmt.Errorf("compiling hosting schema: %w", schema.Err())
	}

	doc := ctx.CompileBytes(dropNullKeys(jsonData))
	if doc.Err() != nil {
		return oerrors.NewValidationError(doc.Err().Error(), "", "", "")
	}

	unified := schema.LookupPath(cue.ParsePath("#HostingSpec")).Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		field, msg := describe(cueerrors.Errors(err))
		return &oerrors.DetailError{
			Type:    "validation failed",
			Message: msg,
			Field:   field,
			Cause:   oerrors.ErrValidation,
		}
	}
	return nil
}

// dropNullKeys removes top-level keys set to null. A null key means the same
// as an absent one, and leaving it in would make every list a disjunction
// whose errors hide the real problem.
func dropNullKeys(doc []byte) []byte {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(doc, &top); err != nil || top == nil {
		return doc
	}
	for k, v := range top {
		if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			delete(top, k)
		}
	}
	out, err := json.Marshal(top)
	if err != nil {
		return doc
	}
	return out
}

// describe orders errs deepest path first and renders one line per error.
// The returned field is the deepest path.
func describe(errs []cueerrors.Error) (string, string) {
	type issue struct {
		path []string
		msg  string
	}
	issues := make([]issue, 0, len(errs))
	for _, e := range errs {
		format, args := e.Msg()
		issues = append(issues, issue{path: trimDefinition(e.Path()), msg: fmt.Sprintf(format, args...)})
	}
	slices.SortStableFunc(issues, func(a, b issue) int {
		return cmp.Compare(len(b.path), len(a.path))
	})

	var lines []string
	for _, is := range issues {
		line := is.msg
		if len(is.path) > 0 {
			line = strings.Join(is.path, ".") + ": " + is.msg
		}
		if !slices.Contains(lines, line) {
			lines = append(lines, line)
		}
	}
	if len(issues) == 0 {
		return "", "invalid hosting config"
	}
	return strings.Join(issues[0].path, "."), strings.Join(lines, "\n")
}

// trimDefinition drops the schema definition prefix from a CUE error path.
func trimDefinition(path []string) []string {
	if len(path) > 0 && strings.HasPrefix(path[0], "#") {
		return path[1:]
	}
	return path
}
