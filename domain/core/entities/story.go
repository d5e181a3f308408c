package entities

import (
	"regexp"
	"strconv"
	"strings"
)

// UserStory is one Jira-style user story parsed out of generated Markdown
type UserStory struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	AcceptanceCriteria []string `json:"acceptance_criteria"`
	StoryPoints        int      `json:"story_points,omitempty"`
	Priority           string   `json:"priority,omitempty"`
}

var (
	storySectionSplit = regexp.MustCompile(`\n##\s+`)
	digitsPattern     = regexp.MustCompile(`\d+`)
	priorityPattern   = regexp.MustCompile(`highest|high|medium|low|lowest`)
	bulletPrefix      = regexp.MustCompile(`^[-*•]\s*`)
	numberedPrefix    = regexp.MustCompile(`^\d+\.\s*`)
	numberedLine      = regexp.MustCompile(`^\d+\.`)
)

// ParseStories splits generated Markdown into user stories. Each `## ` section
// becomes one story: first line is the title, following lines accumulate into
// the description until an "acceptance criteria" heading switches collection to
// bulleted criteria; "story points" and "priority" lines are mined for their
// values wherever they appear.
func ParseStories(markdown string) []UserStory {
	var stories []UserStory

	for _, section := range storySectionSplit.Split(markdown, -1) {
		if strings.TrimSpace(section) == "" {
			continue
		}
		if story, ok := parseSingleStory(section); ok {
			stories = append(stories, story)
		}
	}

	return stories
}

func parseSingleStory(section string) (UserStory, bool) {
	lines := strings.Split(strings.TrimSpace(section), "\n")

	title := strings.TrimSpace(lines[0])
	if strings.HasPrefix(title, "##") {
		title = strings.TrimSpace(title[2:])
	}
	if title == "" {
		return UserStory{}, false
	}

	var descriptionLines []string
	var acceptanceCriteria []string
	storyPoints := 0
	priority := ""

	collecting := "description"
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		lower := strings.ToLower(line)
		if strings.Contains(lower, "acceptance criteria") {
			collecting = "acceptance"
			continue
		} else if strings.Contains(lower, "story points") {
			if match := digitsPattern.FindString(line); match != "" {
				storyPoints, _ = strconv.Atoi(match)
			}
			continue
		} else if strings.Contains(lower, "priority") {
			if match := priorityPattern.FindString(lower); match != "" {
				priority = capitalizePriority(match)
			}
			continue
		}

		if collecting == "description" {
			descriptionLines = append(descriptionLines, line)
		} else if isBulletLine(line) {
			acceptanceCriteria = append(acceptanceCriteria, stripBullet(line))
		}
	}

	return UserStory{
		Title:              title,
		Description:        strings.TrimSpace(strings.Join(descriptionLines, "\n")),
		AcceptanceCriteria: acceptanceCriteria,
		StoryPoints:        storyPoints,
		Priority:           priority,
	}, true
}

func isBulletLine(line string) bool {
	return strings.HasPrefix(line, "-") ||
		strings.HasPrefix(line, "*") ||
		strings.HasPrefix(line, "•") ||
		numberedLine.MatchString(line)
}

func stripBullet(line string) string {
	line = bulletPrefix.ReplaceAllString(line, "")
	return numberedPrefix.ReplaceAllString(line, "")
}

func capitalizePriority(lower string) string {
	return strings.ToUpper(lower[:1]) + lower[1:]
}
