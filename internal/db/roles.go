package db

import "strings"

// rolePatterns expands a role tag into the title fragments that identify it
var rolePatterns = map[string][]string{
	"CFO":  {"CFO", "Chief Financial", "Finance Director", "FD"},
	"CMO":  {"CMO", "Chief Marketing", "Marketing Director", "VP Marketing"},
	"CTO":  {"CTO", "Chief Technology", "Tech Director", "VP Engineering"},
	"COO":  {"COO", "Chief Operating", "Operations Director"},
	"CHRO": {"CHRO", "Chief HR", "HR Director", "People Director", "Chief People"},
	"CRO":  {"CRO", "Chief Revenue", "Revenue Director", "Sales Director"},
	"CISO": {"CISO", "Chief Security", "Security Director", "InfoSec"},
	"CPO":  {"CPO", "Chief Product", "Product Director", "VP Product"},
}

// RolePatterns returns the title fragments for a role tag. Lookup is
// case-insensitive; unknown tags match literally.
func RolePatterns(role string) []string {
	if patterns, ok := rolePatterns[strings.ToUpper(strings.TrimSpace(role))]; ok {
		out := make([]string, len(patterns))
		copy(out, patterns)
		return out
	}
	return []string{role}
}

// OtherRoleBucket is the catch-all stats bucket
const OtherRoleBucket = "Other"

// roleBucketSQL buckets titles into the stats categories
const roleBucketSQL = `CASE
	WHEN title ILIKE '%CFO%' OR title ILIKE '%Chief Financial%' THEN 'CFO'
	WHEN title ILIKE '%CMO%' OR title ILIKE '%Chief Marketing%' THEN 'CMO'
	WHEN title ILIKE '%CTO%' OR title ILIKE '%Chief Technology%' THEN 'CTO'
	WHEN title ILIKE '%COO%' OR title ILIKE '%Chief Operating%' THEN 'COO'
	WHEN title ILIKE '%CHRO%' OR title ILIKE '%Chief HR%' OR title ILIKE '%Chief People%' THEN 'CHRO'
	ELSE '` + OtherRoleBucket + `'
END`
