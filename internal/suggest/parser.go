package suggest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const placesSchemaJSON = `{
  "type": "object",
  "required": ["places"],
  "properties": {
    "places": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "lat", "lng", "description", "estimated_cost", "popularity"],
        "properties": {
          "name": {"type": "string"},
          "lat": {"type": "number"},
          "lng": {"type": "number"},
          "description": {"type": "string"},
          "estimated_cost": {"type": ["string", "number"]},
          "popularity": {"type": "string"}
        }
      }
    }
  }
}`

var placesSchema = mustCompileSchema(placesSchemaJSON)

func mustCompileSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("suggest: compile places schema: %v", err))
	}
	return s
}

type placesEnvelope struct {
	Places []Place `json:"places"`
}

// ParsePlaces turns a raw completion into places. The completion must be the JSON
// object described by FormatInstructions, optionally wrapped in a markdown fence.
// Every failure wraps ErrSchema.
func ParsePlaces(text string) ([]Place, error) {
	doc := cleanJSONString(text)
	if doc == "" {
		return nil, fmt.Errorf("%w: empty completion", ErrSchema)
	}

	result, err := placesSchema.Validate(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid json: %v", ErrSchema, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrSchema, strings.Join(msgs, "; "))
	}

	var env placesEnvelope
	if err := json.Unmarshal([]byte(doc), &env); err != nil {
		return nil, fmt.Errorf("%w: decode places: %v", ErrSchema, err)
	}
	if env.Places == nil {
		env.Places = []Place{}
	}
	return env.Places, nil
}

// cleanJSONString removes a surrounding markdown code block (```json ... ```) if present.
// The language tag is matched case-insensitively.
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	if rest, ok := strings.CutPrefix(input, "```"); ok {
		input = rest
		if len(input) >= 4 && strings.EqualFold(input[:4], "json") {
			input = input[4:]
		}
	}
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
