package domain

import (
	"strings"
	"time"
)

// Habit is a single tracked habit. The projection store owns habits;
// the remote record service only mirrors them.
type Habit struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Icon      IconTag   `json:"icon"`
	CreatedAt time.Time `json:"created_at"`
}

// IconTag identifies one of the fixed icons the presentation layer can render.
type IconTag string

const (
	IconDroplet     IconTag = "Droplet"     // hydration
	IconDumbbell    IconTag = "Dumbbell"    // exercise
	IconBook        IconTag = "Book"        // reading
	IconBookOpen    IconTag = "BookOpen"    // studying
	IconMoon        IconTag = "Moon"        // sleep
	IconCoffee      IconTag = "Coffee"      // morning routine
	IconApple       IconTag = "Apple"       // nutrition
	IconBrain       IconTag = "Brain"       // meditation
	IconBike        IconTag = "Bike"        // cycling
	IconMusic       IconTag = "Music"       // music practice
	IconCode        IconTag = "Code"        // coding
	IconPen         IconTag = "Pen"         // writing
	IconSparkles    IconTag = "Sparkles"    // self-care
	IconHeart       IconTag = "Heart"       // wellness
	IconSmile       IconTag = "Smile"       // gratitude
	IconLeaf        IconTag = "Leaf"        // nature
	IconZap         IconTag = "Zap"         // energy
	IconTarget      IconTag = "Target"      // goals
	IconStar        IconTag = "Star"        // achievement
	IconCheckCircle IconTag = "CheckCircle" // daily task
)

// DefaultIcon is used when a record carries an unknown or empty icon tag.
const DefaultIcon = IconCheckCircle

var validIcons = map[IconTag]struct{}{
	IconDroplet: {}, IconDumbbell: {}, IconBook: {}, IconBookOpen: {},
	IconMoon: {}, IconCoffee: {}, IconApple: {}, IconBrain: {},
	IconBike: {}, IconMusic: {}, IconCode: {}, IconPen: {},
	IconSparkles: {}, IconHeart: {}, IconSmile: {}, IconLeaf: {},
	IconZap: {}, IconTarget: {}, IconStar: {}, IconCheckCircle: {},
}

// Valid reports whether the tag is one of the fixed icon identifiers.
func (i IconTag) Valid() bool {
	_, ok := validIcons[i]
	return ok
}

// NormalizeIcon coerces unknown or empty icon tags to DefaultIcon.
// Icon validity never rejects a habit; only the name is validated.
func NormalizeIcon(i IconTag) IconTag {
	if i.Valid() {
		return i
	}
	return DefaultIcon
}

// NormalizeName trims surrounding whitespace. An empty result means the
// name is invalid.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}
