package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// DefaultColor is used when a category is created without one.
const DefaultColor = "#808080"

// Category groups tasks by area (work, health, study, etc.).
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// NewCategory builds a category with a fresh identifier. An empty color falls back to DefaultColor.
func NewCategory(name, description, color string) (Category, error) {
	category := Category{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Color:       color,
	}
	if category.Color == "" {
		category.Color = DefaultColor
	}
	if err := category.Validate(); err != nil {
		return Category{}, err
	}
	return category, nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("%w: category id is required", ErrValidation)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: category name cannot be blank", ErrValidation)
	}
	return nil
}

// HasName compares names case-insensitively.
func (c Category) HasName(name string) bool {
	return EqualFold(c.Name, name)
}

func (c Category) WithName(name string) (Category, error) {
	if strings.TrimSpace(name) == "" {
		return Category{}, fmt.Errorf("%w: category name cannot be blank", ErrValidation)
	}
	c.Name = name
	return c, nil
}

func (c Category) WithDescription(description string) Category {
	c.Description = description
	return c
}

func (c Category) WithColor(color string) Category {
	if color == "" {
		color = DefaultColor
	}
	c.Color = color
	return c
}

// DefaultCategories is the set seeded into an empty store on first run.
func DefaultCategories() []Category {
	seeds := []struct{ name, description, color string }{
		{"Work", "Work-related tasks", "#3498db"},
		{"Personal", "Personal tasks", "#2ecc71"},
		{"Shopping", "Shopping list items", "#e74c3c"},
		{"Health", "Health and fitness", "#9b59b6"},
		{"Learning", "Study and learning", "#f39c12"},
	}
	out := make([]Category, 0, len(seeds))
	for _, s := range seeds {
		out = append(out, Category{ID: uuid.NewString(), Name: s.name, Description: s.description, Color: s.color})
	}
	return out
}
