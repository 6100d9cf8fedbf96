package genai

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/pvandewal/dayout/backend/internal/domain"
)

// InventedIDPrefix marks recommendation items the model invented to fill
// gaps, as opposed to items drawn from the aggregated candidate pool.
const InventedIDPrefix = "gen-"

// BuildPrompt renders the generation contract into a system and user prompt
// pair. The output is deterministic for a given request and candidate set:
// structured answers are serialized in sorted key order and candidates in
// the order the aggregator produced them.
func BuildPrompt(req domain.RecommendationRequest, candidates []domain.ActivityCandidate) (system, user string, err error) {
	ref := req.ReferenceDate

	var sb strings.Builder
	sb.WriteString("You are a family day-trip planner. From the candidate activities and the family's wishes, produce a single-day shortlist.\n\n")
	fmt.Fprintf(&sb, "The current date is %s, %s.\n", ref.Weekday(), ref.Format(domain.DateLayout))

	// The date-calculation contract is injected only when the user actually
	// used a relative expression, because models otherwise tend to ignore
	// long rule blocks.
	if requestUsesRelativeDates(req) {
		sb.WriteString("\nThe user used a relative date expression. Compute the exact calendar date with these rules, and do NOT default to the following day:\n")
		fmt.Fprintf(&sb, "- \"this <weekday>\" means the nearest upcoming occurrence of that weekday; today counts if it matches.\n")
		fmt.Fprintf(&sb, "- \"next <weekday>\" means the occurrence in the second upcoming week: skip the nearest occurrence.\n")
		fmt.Fprintf(&sb, "- \"tomorrow\" means %s.\n", ref.AddDate(0, 0, 1).Format(domain.DateLayout))
		fmt.Fprintf(&sb, "- Dates without a year resolve against %d.\n", ref.Year())
	}

	sb.WriteString("\nOutput contract:\n")
	sb.WriteString("- Respond with a JSON array of 5 to 10 items and nothing else.\n")
	sb.WriteString(`- Each item: {"id", "title", "description", "location": {"address", "coordinates": {"lat", "lon"}}, "date", "time", "price", "image", "matchReason"}.` + "\n")
	fmt.Fprintf(&sb, "- \"date\" must be a concrete %q calendar date. Never a phrase like \"next Saturday\".\n", "YYYY-MM-DD")
	sb.WriteString("- Latitude and longitude are mandatory for every item.\n")
	sb.WriteString("- Prefer candidates from the provided pool; keep their ids. Invent entries only to fill gaps, ")
	fmt.Fprintf(&sb, "give them ids prefixed %q and a null image.\n", InventedIDPrefix)
	system = sb.String()

	var ub strings.Builder
	ub.WriteString("Family wishes:\n")
	if req.FreeTextInterests != "" {
		fmt.Fprintf(&ub, "- Interests: %s\n", req.FreeTextInterests)
	}
	for _, k := range sortedKeys(req.StructuredAnswers) {
		fmt.Fprintf(&ub, "- %s: %s\n", k, req.StructuredAnswers[k])
	}

	ub.WriteString("\nCandidate activities:\n")
	pool, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("genai.BuildPrompt: marshal candidates: %w", err)
	}
	ub.Write(pool)
	user = ub.String()

	return system, user, nil
}

// requestUsesRelativeDates reports whether any user-supplied text contains a
// relative date expression.
func requestUsesRelativeDates(req domain.RecommendationRequest) bool {
	if domain.ContainsRelativeDate(req.FreeTextInterests) {
		return true
	}
	for _, answer := range req.StructuredAnswers {
		if domain.ContainsRelativeDate(answer) {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
