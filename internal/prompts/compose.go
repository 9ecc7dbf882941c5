package prompts

import (
	"context"
	"fmt"
	"strings"
)

// Source resolves the instructions and output specification of a stage.
// System satisfies it.
type Source interface {
	Instructions(ctx context.Context, stage Stage) (string, error)
	Spec(ctx context.Context, stage Stage) (string, error)
}

// Compose builds the system prompt for a stage from its effective instructions
// followed by its fixed output specification.
func Compose(ctx context.Context, ps Source, stage Stage) (string, error) {
	instructions, err := ps.Instructions(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load instructions for %s: %w", stage, err)
	}

	spec, err := ps.Spec(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load spec for %s: %w", stage, err)
	}

	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\n")
	sb.WriteString(spec)
	return sb.String(), nil
}
