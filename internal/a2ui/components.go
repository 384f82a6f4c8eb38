// Package a2ui builds rich UI component payloads (job cards, charts) that a
// front end renders next to the coach's replies.
package a2ui

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/career-coach/internal/db"
	"github.com/jonathan/career-coach/internal/types"
)

// Delimiter separates the text of a reply from its component payload
const Delimiter = "---a2ui_JSON---"

const (
	defaultTitle       = "Unknown Title"
	defaultLocation    = "Location TBD"
	defaultDescription = "Day rate negotiable"
)

// Badge is a short label shown on a card
type Badge struct {
	Label   string `json:"label"`
	Variant string `json:"variant"`
}

// Action is a button attached to a surface
type Action struct {
	Name    string            `json:"name"`
	Label   string            `json:"label"`
	Variant string            `json:"variant"`
	Data    map[string]string `json:"data"`
}

// CardProps are the properties of a Card component
type CardProps struct {
	Title       string  `json:"title"`
	Subtitle    string  `json:"subtitle"`
	Description string  `json:"description"`
	Badges      []Badge `json:"badges"`
	URL         *string `json:"url"`
}

// ChartPoint is one bar of a chart
type ChartPoint struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// ChartProps are the properties of a Chart component
type ChartProps struct {
	Type   string       `json:"type"`
	Title  string       `json:"title"`
	Data   []ChartPoint `json:"data"`
	XLabel string       `json:"xLabel"`
	YLabel string       `json:"yLabel"`
}

// SurfaceUpdate creates or replaces one component on the client
type SurfaceUpdate struct {
	ID        string   `json:"id"`
	Component string   `json:"component"`
	Props     any      `json:"props"`
	Actions   []Action `json:"actions,omitempty"`
}

// Component wraps a surface update
type Component struct {
	SurfaceUpdate SurfaceUpdate `json:"surfaceUpdate"`
}

// Payload is the document appended after Delimiter
type Payload struct {
	Components []Component `json:"components"`
}

// JobCard builds the card for the match at position index
func JobCard(match types.JobMatch, index int) Component {
	title := match.Title
	if title == "" {
		title = defaultTitle
	}
	company := match.Company
	if company == "" {
		company = types.DefaultCompany
	}
	location := defaultLocation
	if match.Location != nil && *match.Location != "" {
		location = *match.Location
	}
	description := defaultDescription
	if match.DayRate != nil && *match.DayRate != "" {
		description = *match.DayRate
	}

	badges := []Badge{}
	if match.Remote {
		badges = append(badges, Badge{Label: "Remote", Variant: "success"})
	}
	badges = append(badges, Badge{
		Label:   fmt.Sprintf("%d%% match", int(match.MatchScore*100+0.5)),
		Variant: "info",
	})

	data := map[string]string{"job_id": match.JobID}
	return Component{SurfaceUpdate: SurfaceUpdate{
		ID:        fmt.Sprintf("job-card-%d", index),
		Component: "Card",
		Props: CardProps{
			Title:       title,
			Subtitle:    company + " - " + location,
			Description: description,
			Badges:      badges,
			URL:         match.URL,
		},
		Actions: []Action{
			{Name: "apply_to_job", Label: "Apply Now", Variant: "primary", Data: data},
			{Name: "save_job", Label: "Save", Variant: "secondary", Data: data},
			{Name: "not_interested", Label: "Skip", Variant: "ghost", Data: data},
		},
	}}
}

// JobCards builds one card per match, numbered from 1
func JobCards(matches []types.JobMatch) []Component {
	cards := make([]Component, 0, len(matches))
	for i, m := range matches {
		cards = append(cards, JobCard(m, i+1))
	}
	return cards
}

// StatsChart builds a bar chart of jobs by role, largest first
func StatsChart(stats db.JobStats) Component {
	points := make([]ChartPoint, 0, len(stats.ByRole))
	for role, count := range stats.ByRole {
		points = append(points, ChartPoint{Label: role, Value: count})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Value != points[j].Value {
			return points[i].Value > points[j].Value
		}
		return points[i].Label < points[j].Label
	})

	return Component{SurfaceUpdate: SurfaceUpdate{
		ID:        "stats-chart",
		Component: "Chart",
		Props: ChartProps{
			Type:   "bar",
			Title:  "Jobs by Role",
			Data:   points,
			XLabel: "Role",
			YLabel: "Count",
		},
	}}
}

// SearchSummary is the plain-text description of a search result
func SearchSummary(role, location string, matches []types.JobMatch) string {
	if len(matches) == 0 {
		r := role
		if r == "" {
			r = "executive"
		}
		return fmt.Sprintf("No %s jobs found. Try another role such as CFO or CTO, or search all roles.", r)
	}

	roleText := "executive"
	if role != "" {
		roleText = strings.ToUpper(role)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d %s opportunities", len(matches), roleText)
	if location != "" {
		fmt.Fprintf(&sb, " in %s", location)
	}
	sb.WriteString(":\n\n")

	for i, m := range matches {
		loc := defaultLocation
		if m.Location != nil && *m.Location != "" {
			loc = *m.Location
		} else if m.Remote {
			loc = "Remote"
		}
		fmt.Fprintf(&sb, "%d. **%s** at %s\n", i+1, m.Title, m.Company)
		fmt.Fprintf(&sb, "   Location: %s\n", loc)
		if m.URL != nil && *m.URL != "" {
			fmt.Fprintf(&sb, "   Apply: %s\n", *m.URL)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// StatsSummary is the plain-text description of job stats
func StatsSummary(stats db.JobStats) string {
	return fmt.Sprintf("Here's the current job market overview:\n- Total Jobs: %d\n- Remote Opportunities: %d",
		stats.TotalJobs, stats.RemoteJobs)
}

// Render joins text and components into a single message using Delimiter.
// Without components the text is returned unchanged.
func Render(text string, components ...Component) (string, error) {
	if len(components) == 0 {
		return text, nil
	}
	data, err := json.MarshalIndent(Payload{Components: components}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode components: %w", err)
	}
	return text + "\n\n" + Delimiter + "\n" + string(data), nil
}
