package suggest

import (
	"fmt"
	"strings"
)

// FormatInstructions is the output contract appended to every prompt.
// ParsePlaces validates completions against the same field set.
func FormatInstructions(minPlaces int) string {
	return fmt.Sprintf(`Return ONLY a single JSON object. No markdown, no code fences, no commentary before or after it.
The object must have exactly one top-level key "places" holding a list of at least %d place objects:
{
  "places": [
    {
      "name": "string",
      "lat": <number, latitude>,
      "lng": <number, longitude>,
      "description": "string",
      "estimated_cost": "string or number, in local currency",
      "popularity": "very popular" | "popular" | "moderate" | "hidden gem"
    }
  ]
}`, minPlaces)
}

// BuildPrompt renders the instruction block for one request. It is a pure function
// of its inputs; user strings are inserted verbatim.
func BuildPrompt(prefs Preferences, opts Options) string {
	return fmt.Sprintf(`You are a travel expert.
Based on the user's preferences, recommend at least %d places in the given city.
At least %d%% of these places MUST directly match the user's listed experiences.

Rules:
- If 'food' is an experience, focus on restaurants, cafes, street food, and local markets.
- If 'adventure', focus on trekking, sports, water activities, or extreme sports.
- If 'culture', focus on museums, heritage sites, local events, and art centers.
- If 'shopping', focus on markets, malls, and local craft stores.
- If multiple experiences are listed, ensure the recommendations are distributed across them proportionally.
- Include other places only if they still align with the experiences OR are exceptional hidden gems relevant to them.
- Avoid generic tourist spots unrelated to the experiences.

For each place, provide:
- name
- lat (latitude)
- lng (longitude)
- description
- estimated_cost (in local currency)
- popularity (very popular, popular, moderate, hidden gem)

%s

User preferences:
%s`, opts.MinPlaces, opts.MatchPercent(), FormatInstructions(opts.MinPlaces), renderPreferences(prefs))
}

func renderPreferences(prefs Preferences) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- location: %s\n", prefs.Location)
	fmt.Fprintf(&b, "- budget: %s\n", prefs.Budget)
	b.WriteString("- experiences:")
	if len(prefs.Experiences) == 0 {
		b.WriteString(" (none)")
	}
	for _, e := range prefs.Experiences {
		fmt.Fprintf(&b, "\n  - %s", e)
	}
	return b.String()
}
