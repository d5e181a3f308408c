package queries

import "errors"

// GetStoriesQuery represents a query for story-shaped content in a user's
// conversation memory
type GetStoriesQuery struct {
	UserID string
}

// Validate validates the query
func (q GetStoriesQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// GetStoriesResult represents stories recovered from conversation memory
type GetStoriesResult struct {
	UserID          string `json:"user_id"`
	StoriesFound    bool   `json:"stories_found"`
	StoriesMarkdown string `json:"stories_markdown"`
	StoryCount      int    `json:"story_count"`
	Message         string `json:"message"`
}
