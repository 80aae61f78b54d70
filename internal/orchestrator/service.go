// Package orchestrator coordinates the services that turn a parsed registry
// into the generated module. Stages run in a fixed order over one output
// stream.
package orchestrator

import (
	"fmt"

	"github.com/griffnb/vkwrap/internal/emitter"
	"github.com/griffnb/vkwrap/internal/registry"
	"github.com/griffnb/vkwrap/internal/schema"
)

// Service generates modules from registry documents.
type Service struct {
	config *Config
}

// Config holds orchestrator configuration options.
type Config struct {
	// Overrides maps native type spellings to target types, layered over
	// the builtin table.
	Overrides map[string]string
	// Defines are identifiers treated as already defined.
	Defines []string
	// Skip holds the native names of extensions and commands to leave out.
	Skip map[string]struct{}
	// Debug receives step logging.
	Debug Debugger
}

// Debugger is the interface for debug logging.
type Debugger interface {
	Printf(format string, v ...interface{})
}

// New creates a new orchestrator service with the given configuration.
func New(config *Config) *Service {
	if config == nil {
		config = &Config{}
	}
	if config.Overrides == nil {
		config.Overrides = make(map[string]string)
	}
	if config.Skip == nil {
		config.Skip = make(map[string]struct{})
	}

	return &Service{config: config}
}

// Generate runs every stage over doc and returns the generated module.
// Schema problems are reported in Result.Warnings; the error is only set
// when a declaration cannot be written.
func (s *Service) Generate(doc *schema.Document) (*Result, error) {
	ctx := s.newContext(doc)

	stages := []struct {
		name string
		run  func() error
	}{
		{"imports", ctx.imports},
		{"initialization", ctx.initialization},
		{"handles", ctx.handles},
		{"basetypes", ctx.basetypes},
		{"bitmasks", ctx.bitmasks},
		{"enums", ctx.enums},
		{"funcpointers", ctx.funcPointers},
		{"structures", ctx.structures},
		{"commands", ctx.commands},
		{"extensions", ctx.extensions},
		{"post-initialization", ctx.postInitialization},
	}

	for idx, stage := range stages {
		ctx.printf("Orchestrator: Step %d - %s", idx+1, stage.name)
		if err := stage.run(); err != nil {
			return nil, fmt.Errorf("failed to generate %s: %w", stage.name, err)
		}
	}

	ctx.printf("Orchestrator: Generated %d definitions", len(ctx.registry.Emitted()))

	return ctx.result(), nil
}

func (s *Service) newContext(doc *schema.Document) *Context {
	reg := registry.NewService()
	if s.config.Debug != nil {
		reg.SetDebugger(s.config.Debug)
	}
	reg.SetTypeOverrides(s.config.Overrides)
	reg.Define(s.config.Defines...)

	return &Context{
		doc:      doc,
		registry: reg,
		out:      emitter.New(),
		skip:     s.config.Skip,
		debug:    s.config.Debug,
	}
}
