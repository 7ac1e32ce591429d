package ports

import (
	"context"

	"github.com/aretw0/nfalab/pkg/domain"
)

// PatternCompiler is the port adapters (HTTP, MCP) use to turn patterns into automata.
type PatternCompiler interface {
	// Compile translates and builds a pattern, or fails with a *domain.CompileError.
	Compile(ctx context.Context, pattern string) (*domain.Compilation, error)
}
