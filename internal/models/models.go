package models

import (
	"strings"
	"time"
)

// Color is a section accent color. Stored as a closed enum tag; the UI maps
// tags to actual colors at the rendering boundary.
type Color string

const (
	ColorGray   Color = "gray"
	ColorRed    Color = "red"
	ColorOrange Color = "orange"
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
	ColorPurple Color = "purple"
	ColorPink   Color = "pink"
)

// Icon is a section icon tag, mapped to a glyph at the rendering boundary.
type Icon string

const (
	IconList      Icon = "list"
	IconStar      Icon = "star"
	IconHeart     Icon = "heart"
	IconCart      Icon = "cart"
	IconBook      Icon = "book"
	IconBriefcase Icon = "briefcase"
	IconHome      Icon = "home"
	IconBell      Icon = "bell"
)

// Repeat is a reminder repeat interval.
type Repeat string

const (
	RepeatNever     Repeat = "never"
	RepeatHourly    Repeat = "hourly"
	RepeatDaily     Repeat = "daily"
	RepeatWeekly    Repeat = "weekly"
	RepeatBiweekly  Repeat = "biweekly"
	RepeatMonthly   Repeat = "monthly"
	RepeatBimonthly Repeat = "bimonthly"
	RepeatYearly    Repeat = "yearly"
)

// Section is a named, colored bucket of tasks.
type Section struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     Color     `json:"color"`
	Icon      Icon      `json:"icon"`
	Editable  bool      `json:"editable"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// Task is a single to-do item. Position is a dense zero-based rank that is
// meaningful only among incomplete tasks of the same section; completed tasks
// are displayed by CompletedAt descending instead.
type Task struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	Complete  bool       `json:"complete"`
	SectionID string     `json:"section_id"`
	Position  int        `json:"position"`
	// PrevPosition is the position held at the moment the task was completed,
	// used to restore it on un-complete. Non-nil only while Complete is true.
	PrevPosition *int       `json:"prev_position,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	DueAt        *time.Time `json:"due_at,omitempty"`
	Repeat       Repeat     `json:"repeat,omitempty"`
}

// Config is the local per-user state persisted next to the database.
type Config struct {
	SelectedSectionID string `json:"selected_section_id,omitempty"`
	WidgetSize        string `json:"widget_size,omitempty"` // "small" or "medium"
}

// IsValidColor checks if a color tag is part of the closed enum.
func IsValidColor(c Color) bool {
	switch c {
	case ColorGray, ColorRed, ColorOrange, ColorYellow, ColorGreen, ColorBlue, ColorPurple, ColorPink:
		return true
	}
	return false
}

// IsValidIcon checks if an icon tag is part of the closed enum.
func IsValidIcon(i Icon) bool {
	switch i {
	case IconList, IconStar, IconHeart, IconCart, IconBook, IconBriefcase, IconHome, IconBell:
		return true
	}
	return false
}

// IsValidRepeat checks if a repeat interval is valid.
func IsValidRepeat(r Repeat) bool {
	switch r {
	case RepeatNever, RepeatHourly, RepeatDaily, RepeatWeekly, RepeatBiweekly, RepeatMonthly, RepeatBimonthly, RepeatYearly:
		return true
	}
	return false
}

// NormalizeColor converts legacy color strings to canonical form.
// Older shared-state documents carried SwiftUI-style names like ".blue";
// unknown values fall back to gray rather than erroring.
func NormalizeColor(s string) Color {
	s = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	switch s {
	case "grey":
		s = "gray"
	case "black", "white":
		// Old builds allowed these; they render poorly, map to gray.
		s = "gray"
	}
	c := Color(s)
	if !IsValidColor(c) {
		return ColorGray
	}
	return c
}

// NormalizeIcon converts a free-form icon string to canonical form,
// falling back to the list icon for unknown values.
func NormalizeIcon(s string) Icon {
	i := Icon(strings.ToLower(strings.TrimSpace(s)))
	if !IsValidIcon(i) {
		return IconList
	}
	return i
}

// NormalizeRepeat converts alternate repeat spellings to canonical form.
// Accepts "none" and "" as aliases for "never", "fortnightly" for "biweekly".
func NormalizeRepeat(s string) Repeat {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "off":
		return RepeatNever
	case "fortnightly":
		return RepeatBiweekly
	default:
		return Repeat(strings.ToLower(strings.TrimSpace(s)))
	}
}

// Interval returns the fixed seconds offset for a repeat type, or 0 for never.
// Monthly-scale intervals are calendar approximations (30.44-day month).
func (r Repeat) Interval() time.Duration {
	switch r {
	case RepeatHourly:
		return 3600 * time.Second
	case RepeatDaily:
		return 86400 * time.Second
	case RepeatWeekly:
		return 604800 * time.Second
	case RepeatBiweekly:
		return 1209600 * time.Second
	case RepeatMonthly:
		return 2629800 * time.Second
	case RepeatBimonthly:
		return 5259600 * time.Second
	case RepeatYearly:
		return 31557600 * time.Second
	}
	return 0
}

// Colors returns all valid color tags in display order.
func Colors() []Color {
	return []Color{ColorGray, ColorRed, ColorOrange, ColorYellow, ColorGreen, ColorBlue, ColorPurple, ColorPink}
}

// Icons returns all valid icon tags in display order.
func Icons() []Icon {
	return []Icon{IconList, IconStar, IconHeart, IconCart, IconBook, IconBriefcase, IconHome, IconBell}
}

// Repeats returns all valid repeat intervals in display order.
func Repeats() []Repeat {
	return []Repeat{RepeatNever, RepeatHourly, RepeatDaily, RepeatWeekly, RepeatBiweekly, RepeatMonthly, RepeatBimonthly, RepeatYearly}
}
