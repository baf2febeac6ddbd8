package prefs

import (
	"fmt"
	"strconv"
	"strings"
)

// WordsPerMinute is the reading speed used to size a story.
const WordsPerMinute = 180

// StoryKind selects how the story client builds its prompt.
type StoryKind string

const (
	StoryMadeUp  StoryKind = "made_up"
	StoryClassic StoryKind = "classic"
	StoryMixed   StoryKind = "mixed"
)

// ParseStoryKind accepts made_up, classic or mixed.
func ParseStoryKind(value string) (StoryKind, error) {
	switch kind := StoryKind(strings.ToLower(strings.TrimSpace(value))); kind {
	case StoryMadeUp, StoryClassic, StoryMixed:
		return kind, nil
	default:
		return "", fmt.Errorf("prefs: unknown story kind %q", value)
	}
}

// StoryRequest is what a story client needs from the settings.
type StoryRequest struct {
	Kind          StoryKind `json:"kind"`
	Minutes       int       `json:"minutes"`
	Words         int       `json:"words"`
	Language      string    `json:"language"`
	Themes        []string  `json:"themes"`
	Topics        []string  `json:"topics"`
	ChildName     string    `json:"childName,omitempty"`
	Modifications string    `json:"modifications,omitempty"`
}

// LengthMinutes parses labels such as "1 minute" or "12 minutes".
func LengthMinutes(label string) (int, error) {
	fields := strings.Fields(label)
	if len(fields) != 2 || (fields[1] != "minute" && fields[1] != "minutes") {
		return 0, fmt.Errorf("prefs: invalid length label %q", label)
	}
	minutes, err := strconv.Atoi(fields[0])
	if err != nil || minutes <= 0 {
		return 0, fmt.Errorf("prefs: invalid length label %q", label)
	}
	return minutes, nil
}

// EstimateWords converts a reading time into a target word count.
func EstimateWords(minutes int) int {
	return minutes * WordsPerMinute
}

// StoryRequest derives the request defaults from s. Modifications only apply
// to mixed stories.
func (s UserSettings) StoryRequest(kind StoryKind, modifications string) (StoryRequest, error) {
	minutes, err := LengthMinutes(s.DefaultLength)
	if err != nil {
		return StoryRequest{}, err
	}
	req := StoryRequest{
		Kind:      kind,
		Minutes:   minutes,
		Words:     EstimateWords(minutes),
		Language:  s.Language,
		Themes:    cloneStrings(s.SelectedThemes),
		Topics:    cloneStrings(s.SelectedTopics),
		ChildName: strings.TrimSpace(s.ChildName),
	}
	if kind == StoryMixed {
		req.Modifications = strings.TrimSpace(modifications)
	}
	return req, nil
}
