// Package catalog merges the shipped exercise library with user-created
// custom exercises and resolves tagged references against both.
package catalog

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/mvidal/gymbuddy/internal/models"
	"github.com/mvidal/gymbuddy/internal/state"
)

//go:embed seed.yaml
var seedYAML []byte

// ErrEmptyName is returned when a custom exercise has no name after trimming.
var ErrEmptyName = errors.New("exercise name is required")

// Seed parses the embedded seed library shipped with the binary.
func Seed() ([]models.Exercise, error) {
	var seed []models.Exercise
	if err := yaml.Unmarshal(seedYAML, &seed); err != nil {
		return nil, fmt.Errorf("parse seed catalog: %w", err)
	}
	return seed, nil
}

// Catalog reads the seed library and custom exercises held by the state
// root. It is read-only except for AddCustom.
type Catalog struct {
	root    *state.Root
	gateway state.Gateway
}

// New creates a catalog over the given state root.
func New(root *state.Root, g state.Gateway) *Catalog {
	return &Catalog{root: root, gateway: g}
}

// Resolve looks up the exercise a reference points at. A pure lookup:
// no side effects, and a dangling reference yields ok=false rather than
// an error (callers render a placeholder).
func (c *Catalog) Resolve(ref models.ExerciseRef) (models.Exercise, bool) {
	var list []models.Exercise
	switch ref.Source {
	case models.RefSeed:
		list = c.root.Library
	case models.RefCustom:
		list = c.root.CustomExercises
	default:
		return models.Exercise{}, false
	}
	for _, e := range list {
		if e.ID == ref.ID {
			return e, true
		}
	}
	return models.Exercise{}, false
}

// CustomExercisePayload carries the user-entered fields for a new
// custom exercise. All fields except Name are optional.
type CustomExercisePayload struct {
	Name             string
	Image            string
	BodyPart         string
	PrimaryMuscles   string
	SecondaryMuscles string
	Equipment        string
}

// AddCustom validates and appends a custom exercise, then persists.
// Existing entries are never mutated.
func (c *Catalog) AddCustom(ctx context.Context, p CustomExercisePayload) (models.Exercise, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return models.Exercise{}, ErrEmptyName
	}

	bodyPart := strings.TrimSpace(p.BodyPart)
	if bodyPart == "" {
		bodyPart = models.BodyPartUncategorized
	}

	ex := models.Exercise{
		ID:               models.NewID(models.PrefixCustomExercise),
		Name:             name,
		Image:            strings.TrimSpace(p.Image),
		BodyPart:         bodyPart,
		PrimaryMuscles:   strings.TrimSpace(p.PrimaryMuscles),
		SecondaryMuscles: strings.TrimSpace(p.SecondaryMuscles),
		Equipment:        strings.TrimSpace(p.Equipment),
	}
	c.root.CustomExercises = append(c.root.CustomExercises, ex)

	if err := c.gateway.SaveState(ctx, c.root); err != nil {
		return models.Exercise{}, fmt.Errorf("save custom exercise: %w", err)
	}
	return ex, nil
}

// BodyParts returns the distinct body-part labels across seed and
// custom exercises, locale-aware sorted with duplicates collapsed.
func (c *Catalog) BodyParts() []string {
	seen := make(map[string]struct{})
	var parts []string
	for _, e := range c.all() {
		if e.BodyPart == "" {
			continue
		}
		if _, ok := seen[e.BodyPart]; ok {
			continue
		}
		seen[e.BodyPart] = struct{}{}
		parts = append(parts, e.BodyPart)
	}
	collate.New(language.Und, collate.Loose).SortStrings(parts)
	return parts
}

// Search filters seed+custom exercises by case-insensitive name
// substring and optional body-part label. Empty arguments match all.
func (c *Catalog) Search(query, bodyPart string) []models.Exercise {
	query = strings.ToLower(strings.TrimSpace(query))
	bodyPart = strings.ToLower(strings.TrimSpace(bodyPart))

	var out []models.Exercise
	for _, e := range c.all() {
		if bodyPart != "" && !strings.Contains(strings.ToLower(e.BodyPart), bodyPart) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(e.Name), query) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// RefFor returns the tagged reference for a catalog entry id, searching
// custom exercises first so a custom entry shadowing a seed id wins.
func (c *Catalog) RefFor(id string) (models.ExerciseRef, bool) {
	for _, e := range c.root.CustomExercises {
		if e.ID == id {
			return models.ExerciseRef{Source: models.RefCustom, ID: id}, true
		}
	}
	for _, e := range c.root.Library {
		if e.ID == id {
			return models.ExerciseRef{Source: models.RefSeed, ID: id}, true
		}
	}
	return models.ExerciseRef{}, false
}

func (c *Catalog) all() []models.Exercise {
	all := make([]models.Exercise, 0, len(c.root.Library)+len(c.root.CustomExercises))
	all = append(all, c.root.Library...)
	all = append(all, c.root.CustomExercises...)
	return all
}
