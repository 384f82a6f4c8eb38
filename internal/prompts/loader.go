// Package prompts provides the coach prompt templates.
// Prompts are stored as JSON files and embedded at compile time.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// CoachFile holds the prompts of the chat agent
const CoachFile = "coach.json"

// cache stores parsed prompt files to avoid repeated JSON parsing
var (
	cache   = make(map[string]map[string]string)
	cacheMu sync.RWMutex
)

// Coach is the full set of prompts used by the chat agent
type Coach struct {
	SystemInstructions string `json:"system-instructions"`
	SessionContext     string `json:"session-context"`
	ToolLimitReached   string `json:"tool-limit-reached"`
}

// LoadCoach returns the coach prompts. Every prompt must be present and non-empty.
func LoadCoach() (Coach, error) {
	prompts, err := loadFile(CoachFile)
	if err != nil {
		return Coach{}, err
	}

	c := Coach{
		SystemInstructions: prompts["system-instructions"],
		SessionContext:     prompts["session-context"],
		ToolLimitReached:   prompts["tool-limit-reached"],
	}
	for key, v := range map[string]string{
		"system-instructions": c.SystemInstructions,
		"session-context":     c.SessionContext,
		"tool-limit-reached":  c.ToolLimitReached,
	} {
		if strings.TrimSpace(v) == "" {
			return Coach{}, fmt.Errorf("prompt key %q missing or empty in %s", key, CoachFile)
		}
	}
	return c, nil
}

// Get retrieves a prompt by filename and key.
// The filename should not include the path (e.g., "coach.json").
func Get(filename, key string) (string, error) {
	prompts, err := loadFile(filename)
	if err != nil {
		return "", err
	}

	prompt, exists := prompts[key]
	if !exists {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}

	return prompt, nil
}

// Format replaces placeholders in the form {{.Key}} with values from data.
// Unknown placeholders are left untouched.
func Format(template string, data map[string]string) string {
	pairs := make([]string, 0, len(data)*2)
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// loadFile loads and caches a prompt file.
func loadFile(filename string) (map[string]string, error) {
	cacheMu.RLock()
	prompts, exists := cache[filename]
	cacheMu.RUnlock()
	if exists {
		return prompts, nil
	}

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}

	if err := json.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	cacheMu.Lock()
	cache[filename] = prompts
	cacheMu.Unlock()

	return prompts, nil
}

// ClearCache clears the prompt cache. Useful for testing.
func ClearCache() {
	cacheMu.Lock()
	cache = make(map[string]map[string]string)
	cacheMu.Unlock()
}
