package content

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rise-gen/internal/errors"
)

// Size is a creature size category, ordered smallest to largest.
type Size int

const (
	SizeFine Size = iota
	SizeDiminutive
	SizeTiny
	SizeSmall
	SizeMedium
	SizeLarge
	SizeHuge
	SizeGargantuan
	SizeColossal
)

var sizeNames = []string{
	"fine", "diminutive", "tiny", "small", "medium",
	"large", "huge", "gargantuan", "colossal",
}

// ParseSize maps a size name onto a Size. The source books' "diminuitive"
// spelling is accepted.
func ParseSize(name string) (Size, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "diminuitive" {
		n = "diminutive"
	}
	for i, s := range sizeNames {
		if s == n {
			return Size(i), nil
		}
	}
	return SizeMedium, errors.UnknownContent("size", name)
}

func (s Size) String() string {
	if s < SizeFine || s > SizeColossal {
		return "unknown"
	}
	return sizeNames[s]
}

// Valid reports whether s is one of the nine categories.
func (s Size) Valid() bool {
	return s >= SizeFine && s <= SizeColossal
}

// Grow returns the size steps categories larger, clamped to the scale.
func (s Size) Grow(steps int) Size {
	n := s + Size(steps)
	if n < SizeFine {
		return SizeFine
	}
	if n > SizeColossal {
		return SizeColossal
	}
	return n
}

// Modifier is the accuracy, armor defense and reflex adjustment for size.
func (s Size) Modifier() int {
	return [...]int{8, 4, 2, 1, 0, -1, -2, -4, -8}[s]
}

// DamageDiceSteps is how far natural weapons move along the die ladder.
func (s Size) DamageDiceSteps() int {
	return [...]int{-4, -3, -2, -1, 0, 2, 4, 6, 8}[s]
}

// DefaultLandSpeed in feet.
func (s Size) DefaultLandSpeed() int {
	return [...]int{10, 15, 20, 25, 30, 40, 50, 60, 70}[s]
}

// Reach in feet.
func (s Size) Reach() int {
	return [...]int{0, 0, 0, 5, 5, 10, 20, 30, 40}[s]
}

// Space in feet.
func (s Size) Space() int {
	return [...]int{1, 1, 2, 5, 5, 10, 20, 30, 40}[s]
}

// UnmarshalYAML reads a size name.
func (s *Size) UnmarshalYAML(node *yaml.Node) error {
	var name string
	if err := node.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseSize(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
