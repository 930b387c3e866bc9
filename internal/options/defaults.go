package options

import "github.com/nmkale/subtide/internal/colors"

// the full option table with shipped defaults
func registerDefaults(s *Store) {
	s.declareBool("Audio/Snap/Enable", true)
	s.declareInt("Audio/Snap/Distance", 10)
	s.declareInt("Audio/Start Drag Sensitivity", 6)
	s.declareBool("Audio/Auto/Commit", true)
	s.declareBool("Audio/Auto/Scroll", true)
	s.declareBool("Audio/Auto/Focus", true)
	s.declareBool("Audio/Lock Scroll on Cursor", false)
	s.declareBool("Audio/Smooth Scrolling", true)
	s.declareInt("Audio/Lead/IN", 200)
	s.declareInt("Audio/Lead/OUT", 300)
	s.declareBool("Audio/Display/Draw/Cursor Time", true)
	s.declareBool("Audio/Display/Draw/Inactive Comments", false)
	s.declareBool("Audio/Display/Draw/Keyframes", true)
	s.declareBool("Audio/Drag Timing", true)
	s.declareBool("Audio/Spectrum", false)
	s.declareInt("Audio/Line Boundaries Thickness", 2)

	s.declareInt("Timing/Default Duration", 2000)

	s.declareColor("Colour/Audio Display/Line boundary Start", colors.New(216, 62, 62))
	s.declareColor("Colour/Audio Display/Line boundary End", colors.New(230, 146, 52))
	s.declareColor("Colour/Audio Display/Line Boundary Inactive Line", colors.New(128, 128, 128))
	s.declareColor("Colour/Audio Display/Keyframe", colors.New(82, 82, 230))
	s.declareColor("Colour/Audio Display/Play Cursor", colors.New(255, 255, 255))
	s.declareColor("Colour/Audio Display/Seconds Boundaries", colors.New(61, 79, 113))
}
