// Package script compiles Starlark expressions into attribute producers.
// A computed expression is evaluated with no instance in scope; a derived
// expression additionally sees the instance-so-far as the "this" struct.
package script

import (
	"fmt"
	"log/slog"
	"sync"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.starlark.net/syntax"

	"github.com/slotforge-labs/slotforge/pkg/slots"
)

// Engine turns Starlark expression sources into slots.Producer and
// slots.DependentProducer values. Safe for concurrent use; evaluation
// threads are pooled and reused.
type Engine struct {
	pool   *threadPool
	env    map[string]string
	logger *slog.Logger
}

// NewEngine creates an engine. The env mapping is exposed to every
// expression as the "env" dict. A nil logger discards all output.
func NewEngine(env map[string]string, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		pool:   newThreadPool(8),
		env:    env,
		logger: logger,
	}
}

// Compile validates a zero-argument expression and returns a producer that
// evaluates it on each invocation. Compilation fails on syntax errors;
// evaluation failures surface when the producer runs.
func (e *Engine) Compile(name, expr string) (slots.Producer, error) {
	if err := e.check(name, expr); err != nil {
		return nil, err
	}
	return func() (any, error) {
		return e.eval(name, expr, nil)
	}, nil
}

// CompileDependent validates an expression and returns a dependent producer
// that evaluates it with the instance-so-far bound to "this". Only slots
// that already hold a value appear on the struct; reading an unset slot is a
// Starlark attribute error.
func (e *Engine) CompileDependent(name, expr string) (slots.DependentProducer, error) {
	if err := e.check(name, expr); err != nil {
		return nil, err
	}
	return func(inst *slots.Instance) (any, error) {
		this, err := instanceStruct(inst)
		if err != nil {
			return nil, err
		}
		return e.eval(name, expr, starlark.StringDict{"this": this})
	}, nil
}

// check parses the expression without evaluating it.
func (e *Engine) check(name, expr string) error {
	if _, err := syntax.ParseExpr(name, expr, 0); err != nil { //nolint:staticcheck // SA1019: will migrate to ParseExprOptions later
		return &EvalError{Expr: expr, Message: err.Error()}
	}
	return nil
}

// eval runs the expression on a pooled thread with the engine globals plus
// any locals, and converts the result back to a Go value.
func (e *Engine) eval(name, expr string, locals starlark.StringDict) (any, error) {
	globals := e.globals()
	for k, v := range locals {
		globals[k] = v
	}

	thread := e.pool.get(name)
	defer e.pool.put(thread)

	result, err := starlark.Eval(thread, name, expr, globals) //nolint:staticcheck // SA1019: will migrate to EvalOptions later
	if err != nil {
		return nil, &EvalError{Expr: expr, Message: err.Error()}
	}
	return fromStarlark(result)
}

// globals builds a fresh global dict: the "env" mapping plus room for
// per-call locals.
func (e *Engine) globals() starlark.StringDict {
	envDict := starlark.NewDict(len(e.env))
	for k, v := range e.env {
		// SetKey on string keys cannot fail.
		_ = envDict.SetKey(starlark.String(k), starlark.String(v))
	}
	return starlark.StringDict{"env": envDict}
}

// instanceStruct converts the set slots of an instance into a Starlark
// struct named after the schema.
func instanceStruct(inst *slots.Instance) (starlark.Value, error) {
	dict := make(starlark.StringDict, inst.Len())
	for _, pair := range inst.Pairs() {
		v, err := toStarlark(pair.Value)
		if err != nil {
			return nil, fmt.Errorf("slot %q: %w", pair.Name, err)
		}
		dict[pair.Name] = v
	}
	return starlarkstruct.FromStringDict(starlark.String(inst.Schema().Name()), dict), nil
}

// EvalError represents a Starlark compile or evaluation failure.
type EvalError struct {
	Expr    string
	Message string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("error evaluating %q: %s", e.Expr, e.Message)
}

// threadPool reuses Starlark threads across evaluations.
type threadPool struct {
	mu      sync.Mutex
	threads []*starlark.Thread
	maxSize int
}

func newThreadPool(maxSize int) *threadPool {
	if maxSize <= 0 {
		maxSize = 8
	}
	return &threadPool{
		threads: make([]*starlark.Thread, 0, maxSize),
		maxSize: maxSize,
	}
}

func (p *threadPool) get(name string) *starlark.Thread {
	p.mu.Lock()
	defer p.mu.Unlock()

	if n := len(p.threads); n > 0 {
		thread := p.threads[n-1]
		p.threads = p.threads[:n-1]
		thread.Name = name
		return thread
	}
	return &starlark.Thread{
		Name:  name,
		Print: func(_ *starlark.Thread, _ string) {},
	}
}

func (p *threadPool) put(thread *starlark.Thread) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.threads) < p.maxSize {
		thread.Name = ""
		p.threads = append(p.threads, thread)
	}
}
