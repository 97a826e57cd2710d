package fparser

import (
	"fmt"

	"github.com/lunfardo314/fparser/compiler"
	"github.com/lunfardo314/fparser/engine"
	"github.com/lunfardo314/fparser/lexer"
	"github.com/lunfardo314/fparser/syntax"
)

// Compile validates the expression and compiles it into a program.
// Syntax errors are returned as *syntax.Error
func Compile(expr string, vars []string) (*engine.Program, error) {
	if err := lexer.CheckNames(vars); err != nil {
		return nil, err
	}
	if len(vars) > engine.MaxVariables {
		return nil, fmt.Errorf("too many variables: %d", len(vars))
	}
	f, pos := lexer.Compact(lexer.ReplacePadded(expr, "**", "^"))
	if err := syntax.Check(expr, f, pos, vars); err != nil {
		return nil, err
	}
	prog, err := compiler.Compile(f, vars)
	if err != nil {
		return nil, fmt.Errorf("cannot compile '%s': %w", expr, err)
	}
	prog.Source = expr
	return prog, nil
}
