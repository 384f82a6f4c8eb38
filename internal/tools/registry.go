package tools

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/jonathan/career-coach/internal/schemas"
	"github.com/jonathan/career-coach/internal/types"
)

// ErrUnknownTool is returned when a tool name is not registered
var ErrUnknownTool = errors.New("unknown tool")

// Definition describes a tool for an orchestrator: its name, a description
// and the JSON Schema of its arguments.
type Definition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

type entry struct {
	def    Definition
	schema *schemas.Schema
	decode func(raw []byte) (Request, error)
}

func decodeInto[T Request](raw []byte) (Request, error) {
	var args T
	if len(raw) == 0 {
		return args, nil
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, err
	}
	return args, nil
}

func str(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func integer(desc string) map[string]any {
	return map[string]any{"type": "integer", "description": desc}
}

func object(props map[string]any, required ...string) map[string]any {
	o := map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		o["required"] = required
	}
	return o
}

var registry = buildRegistry([]Definition{
	{
		Name:        NameSearchJobs,
		Description: "Search for fractional executive jobs. Use when the user asks about job opportunities.",
		Parameters: object(map[string]any{
			"role":        str("Executive role, e.g. CFO, CTO, CMO, COO"),
			"location":    str("Location, e.g. London, Manchester, Remote"),
			"remote_only": map[string]any{"type": "boolean", "description": "Only return remote jobs"},
			"limit":       integer("Maximum number of results"),
		}),
	},
	{
		Name:        NameUpdateUserProfile,
		Description: "Update the user's profile and job preferences during onboarding.",
		Parameters: object(map[string]any{
			"name":         str("User's name"),
			"target_roles": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Roles the user is targeting"},
			"locations":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Preferred locations"},
			"remote_preference": map[string]any{
				"type":        "string",
				"enum":        []string{"remote", "hybrid", "onsite", "flexible"},
				"description": "Remote working preference",
			},
			"day_rate_min":      integer("Minimum day rate"),
			"day_rate_max":      integer("Maximum day rate"),
			"availability_days": map[string]any{"type": "integer", "minimum": 1, "maximum": 5, "description": "Days per week available"},
		}),
	},
	{
		Name:        NameAddSkill,
		Description: "Add a skill to the user's profile.",
		Parameters: object(map[string]any{
			"skill_name":       str("Name of the skill"),
			"category":         str("Skill category, e.g. leadership, finance, technology"),
			"level":            str("beginner, intermediate, advanced or expert"),
			"years_experience": map[string]any{"type": "integer", "minimum": 0, "description": "Years of experience with the skill"},
		}, "skill_name", "category"),
	},
	{
		Name:        NameAddExperience,
		Description: "Add a work experience entry to the user's profile.",
		Parameters: object(map[string]any{
			"company":      str("Company name"),
			"role":         str("Job title"),
			"start_year":   integer("Year the role started"),
			"end_year":     integer("Year the role ended; omit for a current role"),
			"is_executive": map[string]any{"type": "boolean", "description": "Whether the role was at executive level"},
			"achievements": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Key achievements"},
		}, "company", "role", "start_year"),
	},
	{
		Name:        NameAdvanceOnboarding,
		Description: "Set the onboarding step (0-5). Step 5 completes onboarding.",
		Parameters: object(map[string]any{
			"step": integer("Onboarding step"),
		}, "step"),
	},
	{
		Name:        NameShowVisualization,
		Description: "Show a panel in the UI: jobs, profile or skills.",
		Parameters: object(map[string]any{
			"visualization_type": str("One of jobs, profile, skills"),
		}, "visualization_type"),
	},
	{
		Name:        NameGetJobStats,
		Description: "Get statistics about the job market: totals, remote jobs and counts by role.",
		Parameters:  object(map[string]any{}),
	},
})

func buildRegistry(defs []Definition) map[string]entry {
	decoders := map[string]func([]byte) (Request, error){
		NameSearchJobs:        decodeInto[SearchJobsArgs],
		NameUpdateUserProfile: decodeInto[UpdateProfileArgs],
		NameAddSkill:          decodeInto[AddSkillArgs],
		NameAddExperience:     decodeInto[AddExperienceArgs],
		NameAdvanceOnboarding: decodeInto[AdvanceOnboardingArgs],
		NameShowVisualization: decodeInto[ShowVisualizationArgs],
		NameGetJobStats:       decodeInto[JobStatsArgs],
	}

	reg := make(map[string]entry, len(defs))
	for _, def := range defs {
		reg[def.Name] = entry{
			def:    def,
			schema: schemas.MustCompile(def.Name, def.Parameters),
			decode: decoders[def.Name],
		}
	}
	return reg
}

// Definitions returns all tool definitions sorted by name
func Definitions() []Definition {
	defs := make([]Definition, 0, len(registry))
	for _, e := range registry {
		defs = append(defs, e.def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Decode validates raw JSON arguments against the tool's schema and returns
// the typed request
func Decode(name string, raw []byte) (Request, error) {
	e, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	raw = dropNulls(raw)
	if err := e.schema.Validate(raw); err != nil {
		return nil, err
	}
	req, err := e.decode(normalizeIntegers(raw))
	if err != nil {
		return nil, decodeError(name, err)
	}
	return req, nil
}

// decodeError reports a decode failure of arguments that passed the schema
// as a validation error on the offending field
func decodeError(name string, err error) error {
	field := "(root)"
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		field = typeErr.Field
	}
	return &schemas.ValidationError{
		Schema: name,
		Errors: []schemas.FieldError{{Field: field, Message: err.Error()}},
	}
}

// IsInvalidArguments reports whether err was caused by bad tool arguments,
// either at schema validation or at domain validation.
func IsInvalidArguments(err error) bool {
	var schemaErr *schemas.ValidationError
	return errors.As(err, &schemaErr) || types.IsValidationError(err)
}

// DecodeMap is like Decode for arguments already parsed into a map
func DecodeMap(name string, args map[string]any) (Request, error) {
	if args == nil {
		args = map[string]any{}
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s arguments: %w", name, err)
	}
	return Decode(name, raw)
}

// dropNulls removes top-level null members so that an explicit null is
// treated the same as an absent argument. Anything that is not a JSON object
// is returned unchanged for the schema to reject.
func dropNulls(raw []byte) []byte {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		return raw
	}
	changed := false
	for k, v := range m {
		if string(v) == "null" {
			delete(m, k)
			changed = true
		}
	}
	if !changed {
		return raw
	}
	out, err := json.Marshal(m)
	if err != nil {
		return raw
	}
	return out
}

// normalizeIntegers rewrites top-level numbers with an integral value written
// in float or exponent form, such as 5.0 or 1e20, as plain integers saturated
// to the int range. Fractional numbers are left for the decoder to reject.
func normalizeIntegers(raw []byte) []byte {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil || m == nil {
		return raw
	}
	changed := false
	for k, v := range m {
		n, ok := v.(json.Number)
		if !ok {
			continue
		}
		if _, err := n.Int64(); err == nil {
			continue
		}
		// ParseFloat reports out of range values as ±Inf, which saturate below.
		f, _ := n.Float64()
		if math.IsNaN(f) || f != math.Trunc(f) {
			continue
		}
		m[k] = saturateInt(f)
		changed = true
	}
	if !changed {
		return raw
	}
	out, err := json.Marshal(m)
	if err != nil {
		return raw
	}
	return out
}

func saturateInt(f float64) int {
	switch {
	case f >= float64(math.MaxInt):
		return math.MaxInt
	case f <= float64(math.MinInt):
		return math.MinInt
	default:
		return int(f)
	}
}
