package expression

import (
	"context"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/aliakseis/HandleDuplicateFiles/pkg/config"
)

type CompiledExpression struct {
	Text    string
	Program *vm.Program
}

type evalContext struct {
	*config.File
	ctx context.Context
}

// Compile compiles boolean expressions against the file environment.
func Compile(expressions []string) ([]CompiledExpression, error) {
	compiled := make([]CompiledExpression, 0, len(expressions))

	for _, expression := range expressions {
		program, err := expr.Compile(expression, expr.Env(&evalContext{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile expression %q: %w", expression, err)
		}

		compiled = append(compiled, CompiledExpression{Text: expression, Program: program})
	}

	return compiled, nil
}
