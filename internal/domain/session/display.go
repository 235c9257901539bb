package session

import "strings"

var phaseBadges = map[string]string{
	PhasePre:  "🔵 PRE",
	PhaseP1:   "1️⃣ P1",
	PhaseP2:   "2️⃣ P2",
	PhaseP3:   "3️⃣ P3",
	PhasePost: "✅ POST",
}

// PhaseBadge returns the emoji label for a phase; unknown phases are returned as-is.
func PhaseBadge(phase string) string {
	if b, ok := phaseBadges[phase]; ok {
		return b
	}
	return phase
}

// ConfidenceEmoji maps a 1-5 confidence to a traffic light.
func ConfidenceEmoji(c int) string {
	switch {
	case c >= 4:
		return "🟢"
	case c >= 3:
		return "🟡"
	default:
		return "🔴"
	}
}

// HelpfulnessStars renders h stars.
func HelpfulnessStars(h int) string {
	if h < 0 {
		h = 0
	}
	return strings.Repeat("⭐", h)
}
