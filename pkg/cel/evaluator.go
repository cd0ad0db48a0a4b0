package cel

import (
	"context"
	"fmt"

	"github.com/google/cel-go/cel"
)

// Variables exposed to document expressions.
const (
	VarMessageType = "messageType"
	VarLogGroup    = "logGroup"
	VarLogStream   = "logStream"
	VarOwner       = "owner"
	VarDocument    = "document"
)

type Evaluator struct {
	env *cel.Env
}

func NewEvaluator() (*Evaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable(VarMessageType, cel.StringType),
		cel.Variable(VarLogGroup, cel.StringType),
		cel.Variable(VarLogStream, cel.StringType),
		cel.Variable(VarOwner, cel.StringType),
		cel.Variable(VarDocument, cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	return &Evaluator{env: env}, nil
}

func (e *Evaluator) ValidateFilterExpression(expression string) error {
	_, err := e.compile(expression)
	return err
}

func (e *Evaluator) compile(expression string) (*cel.Ast, error) {
	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("CEL expression validation failed: %w", issues.Err())
	}

	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("filter expression must return bool, got %v", ast.OutputType())
	}

	return ast, nil
}

// Compile builds a reusable predicate. The returned Predicate is safe for
// concurrent use.
func (e *Evaluator) Compile(expression string) (*Predicate, error) {
	ast, err := e.compile(expression)
	if err != nil {
		return nil, err
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL program: %w", err)
	}

	return &Predicate{expression: expression, program: program}, nil
}

type Predicate struct {
	expression string
	program    cel.Program
}

func (p *Predicate) Expression() string {
	return p.expression
}

// Evaluate runs the predicate against a decoded log document.
func (p *Predicate) Evaluate(ctx context.Context, document map[string]interface{}) (bool, error) {
	vars := map[string]interface{}{
		VarMessageType: stringField(document, VarMessageType),
		VarLogGroup:    stringField(document, VarLogGroup),
		VarLogStream:   stringField(document, VarLogStream),
		VarOwner:       stringField(document, VarOwner),
		VarDocument:    document,
	}

	result, _, err := p.program.ContextEval(ctx, vars)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate CEL expression: %w", err)
	}

	boolVal, ok := result.Value().(bool)
	if !ok {
		return false, fmt.Errorf("CEL expression did not return bool, got %T", result.Value())
	}

	return boolVal, nil
}

func stringField(document map[string]interface{}, key string) string {
	if s, ok := document[key].(string); ok {
		return s
	}
	return ""
}
