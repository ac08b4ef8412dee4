package models

// RefSource tags which list an ExerciseRef resolves against.
type RefSource string

const (
	RefSeed   RefSource = "seed"
	RefCustom RefSource = "custom"
)

// ExerciseRef is a tagged reference to a catalog entry. It never embeds
// exercise data; display fields are always resolved through the catalog.
type ExerciseRef struct {
	Source RefSource `json:"source"`
	ID     string    `json:"id"`
}

// BodyPartUncategorized is the sentinel label for custom exercises
// created without a body part.
const BodyPartUncategorized = "Uncategorized"

// Exercise is a catalog entry. Seed entries are immutable and shipped
// with the binary; custom entries are user-created and append-only.
type Exercise struct {
	ID               string `json:"id" yaml:"id"`
	Name             string `json:"name" yaml:"name"`
	Image            string `json:"image,omitempty" yaml:"image,omitempty"`
	BodyPart         string `json:"bodyPart" yaml:"bodyPart"`
	PrimaryMuscles   string `json:"primaryMuscles,omitempty" yaml:"primaryMuscles,omitempty"`
	SecondaryMuscles string `json:"secondaryMuscles,omitempty" yaml:"secondaryMuscles,omitempty"`
	Equipment        string `json:"equipment,omitempty" yaml:"equipment,omitempty"`
}
