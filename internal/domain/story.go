package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Theme is the narrative theme a story is generated from.
type Theme string

const (
	ThemeAdventure  Theme = "adventure"
	ThemeFantasy    Theme = "fantasy"
	ThemeAnimals    Theme = "animals"
	ThemeFriendship Theme = "friendship"
	ThemeNature     Theme = "nature"
	ThemeSpace      Theme = "space"
	ThemeFairytale  Theme = "fairytale"
	ThemeMystery    Theme = "mystery"
)

// Themes lists every accepted theme in display order.
var Themes = []Theme{
	ThemeAdventure, ThemeFantasy, ThemeAnimals, ThemeFriendship,
	ThemeNature, ThemeSpace, ThemeFairytale, ThemeMystery,
}

func (t Theme) Valid() bool {
	for _, v := range Themes {
		if v == t {
			return true
		}
	}
	return false
}

// AgeGroup is the reader age band a story is written for.
type AgeGroup string

const (
	AgeGroupPreschool AgeGroup = "3-5"
	AgeGroupEarly     AgeGroup = "6-8"
	AgeGroupMiddle    AgeGroup = "9-12"
)

var AgeGroups = []AgeGroup{AgeGroupPreschool, AgeGroupEarly, AgeGroupMiddle}

func (a AgeGroup) Valid() bool {
	for _, v := range AgeGroups {
		if v == a {
			return true
		}
	}
	return false
}

// Story is the root aggregate. LikesCount is maintained only through the like lifecycle.
type Story struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Theme      Theme     `json:"theme"`
	AgeGroup   AgeGroup  `json:"ageGroup"`
	AuthorID   uuid.UUID `json:"authorId"`
	IsPublic   bool      `json:"isPublic"`
	LikesCount int       `json:"likesCount"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// UserSummary is the public projection of a user joined onto other entities.
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Image string    `json:"image,omitempty"`
}

type StoryWithAuthor struct {
	Story
	Author UserSummary `json:"author"`
}

// CreateStoryInput is what a user submits to generate and save a new story.
type CreateStoryInput struct {
	Title    string   `json:"title" validate:"required,max=200"`
	Theme    Theme    `json:"theme" validate:"required,theme"`
	AgeGroup AgeGroup `json:"ageGroup" validate:"required,agegroup"`
	Prompt   string   `json:"prompt" validate:"required,min=10,max=500"`
	IsPublic bool     `json:"isPublic"`
}

// UpdateStoryInput is a partial update; only title and visibility are editable.
type UpdateStoryInput struct {
	Title    *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	IsPublic *bool   `json:"isPublic,omitempty"`
}

// GenerateStoryInput is passed to the text generator.
type GenerateStoryInput struct {
	Theme         Theme    `json:"theme" validate:"required,theme"`
	AgeGroup      AgeGroup `json:"ageGroup" validate:"required,agegroup"`
	Prompt        string   `json:"prompt" validate:"required,min=10,max=500"`
	CharacterName string   `json:"characterName,omitempty" validate:"omitempty,min=1,max=50"`
}

const (
	// MaxTitleLength bounds Story.Title in characters.
	MaxTitleLength = 200

	// DefaultStoryTitle is used when the generator yields no usable title.
	DefaultStoryTitle = "História Mágica"
)

// ClampTitle trims s and cuts it to MaxTitleLength characters.
func ClampTitle(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= MaxTitleLength {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:MaxTitleLength]))
}

// GeneratedStory is the generator output. Both fields are always non-empty.
type GeneratedStory struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// NewStory is the persistence DTO for StoryRepository.Create.
type NewStory struct {
	Title    string
	Content  string
	Theme    Theme
	AgeGroup AgeGroup
	AuthorID uuid.UUID
	IsPublic bool
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// StoryFilter is shared by all story list operations.
type StoryFilter struct {
	AuthorID *uuid.UUID `json:"authorId,omitempty"`
	Theme    Theme      `json:"theme,omitempty" validate:"omitempty,theme"`
	AgeGroup AgeGroup   `json:"ageGroup,omitempty" validate:"omitempty,agegroup"`
	IsPublic *bool      `json:"isPublic,omitempty"`
	Limit    int        `json:"limit" validate:"min=0,max=100"`
	Offset   int        `json:"offset" validate:"min=0"`
}
