// Package schema validates mutation inputs against the embedded CUE
// definitions in inputs.cue. Validation is structural only; referential
// checks (does the project exist, may the caller touch it) stay in the
// mutation layer.
package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed inputs.cue
var inputsCUE string

// Definition names accepted by Validate.
const (
	TaskInput      = "#TaskInput"
	CommentInput   = "#CommentInput"
	ProjectInput   = "#ProjectInput"
	WorkspaceInput = "#WorkspaceInput"
	InviteInput    = "#InviteInput"
	ViewInput      = "#ViewInput"
)

var (
	compileOnce sync.Once
	compiled    cue.Value
	compileErr  error
)

func root() (cue.Value, error) {
	compileOnce.Do(func() {
		ctx := cuecontext.New()
		compiled = ctx.CompileString(inputsCUE, cue.Filename("inputs.cue"))
		compileErr = compiled.Err()
	})
	return compiled, compileErr
}

// ValidationError reports a rejected input.
type ValidationError struct {
	Definition string
	Detail     string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema: %s rejected input: %s", e.Definition, e.Detail)
}

// Validate checks input (any JSON-encodable value) against the named
// definition. Unknown fields are rejected by the closed definitions.
func Validate(definition string, input any) error {
	schema, err := root()
	if err != nil {
		return fmt.Errorf("schema: compile definitions: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath(definition))
	if !def.Exists() {
		return fmt.Errorf("schema: unknown definition %q", definition)
	}

	raw, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("schema: encode input: %w", err)
	}
	doc := schema.Context().CompileBytes(raw, cue.Filename("input.json"))
	if doc.Err() != nil {
		return fmt.Errorf("schema: decode input: %w", doc.Err())
	}

	unified := def.Unify(doc)
	if err := unified.Validate(cue.Final(), cue.Concrete(true)); err != nil {
		return &ValidationError{
			Definition: definition,
			Detail:     cueerrors.Details(err, nil),
		}
	}
	return nil
}
