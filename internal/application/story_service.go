package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"vn.io.arda/contos/internal/domain"
	"vn.io.arda/contos/internal/validation"
)

// StoryService creates stories through the generator and guards author-only edits.
type StoryService struct {
	stories   domain.StoryRepository
	generator StoryGenerator
}

func NewStoryService(stories domain.StoryRepository, generator StoryGenerator) *StoryService {
	return &StoryService{stories: stories, generator: generator}
}

func (s *StoryService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Story, error) {
	return s.stories.FindByID(ctx, id)
}

func (s *StoryService) GetByIDWithAuthor(ctx context.Context, id uuid.UUID) (*domain.StoryWithAuthor, error) {
	return s.stories.FindByIDWithAuthor(ctx, id)
}

// GetAll lists stories matching filter. An invalid filter is a validation error.
func (s *StoryService) GetAll(ctx context.Context, filter domain.StoryFilter) ([]*domain.Story, error) {
	filter, err := normalizeFilter(filter)
	if err != nil {
		return nil, err
	}
	return s.stories.FindAll(ctx, filter)
}

func (s *StoryService) GetAllWithAuthor(ctx context.Context, filter domain.StoryFilter) ([]*domain.StoryWithAuthor, error) {
	filter, err := normalizeFilter(filter)
	if err != nil {
		return nil, err
	}
	return s.stories.FindAllWithAuthor(ctx, filter)
}

// GetPublicStories lists public stories; any caller-supplied visibility is ignored.
func (s *StoryService) GetPublicStories(ctx context.Context, filter domain.StoryFilter) ([]*domain.StoryWithAuthor, error) {
	public := true
	filter.IsPublic = &public
	return s.GetAllWithAuthor(ctx, filter)
}

// GetUserStories lists every story written by authorID, private ones included.
func (s *StoryService) GetUserStories(ctx context.Context, authorID uuid.UUID, filter domain.StoryFilter) ([]*domain.Story, error) {
	filter.AuthorID = &authorID
	return s.GetAll(ctx, filter)
}

func (s *StoryService) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	return s.stories.CountByAuthor(ctx, authorID)
}

// Create validates input, generates the story text and stores it. Generator
// errors, rate limiting included, are returned unchanged.
func (s *StoryService) Create(ctx context.Context, input domain.CreateStoryInput, authorID uuid.UUID, characterName string) (*domain.Story, error) {
	if err := validation.Validate(input); err != nil {
		return nil, err
	}

	gen := domain.GenerateStoryInput{
		Theme:         input.Theme,
		AgeGroup:      input.AgeGroup,
		Prompt:        input.Prompt,
		CharacterName: strings.TrimSpace(characterName),
	}
	if err := validation.Validate(gen); err != nil {
		return nil, err
	}

	generated, err := s.generator.Generate(ctx, gen)
	if err != nil {
		return nil, err
	}

	title := domain.ClampTitle(input.Title)
	if title == "" {
		title = domain.ClampTitle(generated.Title)
	}
	if title == "" {
		title = domain.DefaultStoryTitle
	}

	story, err := s.stories.Create(ctx, domain.NewStory{
		Title:    title,
		Content:  generated.Content,
		Theme:    input.Theme,
		AgeGroup: input.AgeGroup,
		AuthorID: authorID,
		IsPublic: input.IsPublic,
	})
	if err != nil {
		return nil, fmt.Errorf("create story: %w", err)
	}

	log.Info().
		Str("story", story.ID.String()).
		Str("author", authorID.String()).
		Str("theme", string(story.Theme)).
		Msg("story created")
	return story, nil
}

// Update edits title and visibility of a story owned by authorID. The title is
// trimmed before validation, so a blank title is rejected.
func (s *StoryService) Update(ctx context.Context, id uuid.UUID, input domain.UpdateStoryInput, authorID uuid.UUID) (*domain.Story, error) {
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		input.Title = &title
	}
	if err := validation.Validate(input); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, id, authorID); err != nil {
		return nil, err
	}
	return s.stories.Update(ctx, id, input)
}

func (s *StoryService) Delete(ctx context.Context, id, authorID uuid.UUID) error {
	if err := s.authorize(ctx, id, authorID); err != nil {
		return err
	}
	if err := s.stories.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Str("story", id.String()).Str("author", authorID.String()).Msg("story deleted")
	return nil
}

func (s *StoryService) authorize(ctx context.Context, id, authorID uuid.UUID) error {
	story, err := s.stories.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if story.AuthorID != authorID {
		return domain.ErrUnauthorized
	}
	return nil
}

// normalizeFilter rejects out-of-range paging and fills in the default limit.
func normalizeFilter(f domain.StoryFilter) (domain.StoryFilter, error) {
	if err := validation.Validate(f); err != nil {
		return f, err
	}
	if f.Limit == 0 {
		f.Limit = domain.DefaultPageLimit
	}
	return f, nil
}
