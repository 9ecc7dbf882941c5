// Package prompts manages the model instructions used by each stage.
// Every stage ships built-in instructions; a stored prompt can override them
// while it is the active prompt for its stage.
package prompts

import (
	"strings"

	"github.com/google/uuid"
)

// Prompt represents a named instruction override for a stage.
type Prompt struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Stage        Stage     `json:"stage"`
	Instructions string    `json:"instructions"`
	Description  *string   `json:"description"`
	Active       bool      `json:"active"`
}

// CreateCommand carries the data needed to create a new prompt override.
type CreateCommand struct {
	Name         string  `json:"name"`
	Stage        Stage   `json:"stage"`
	Instructions string  `json:"instructions"`
	Description  *string `json:"description"`
}

// Validate reports ErrInvalid when the name or instructions are blank.
func (c CreateCommand) Validate() error {
	return validate(c.Name, c.Stage, c.Instructions)
}

// UpdateCommand carries the data needed to update an existing prompt override.
type UpdateCommand struct {
	Name         string  `json:"name"`
	Stage        Stage   `json:"stage"`
	Instructions string  `json:"instructions"`
	Description  *string `json:"description"`
}

// Validate reports ErrInvalid when the name or instructions are blank.
func (c UpdateCommand) Validate() error {
	return validate(c.Name, c.Stage, c.Instructions)
}

func validate(name string, stage Stage, text string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(text) == "" {
		return ErrInvalid
	}
	if _, err := ParseStage(string(stage)); err != nil {
		return err
	}
	return nil
}
