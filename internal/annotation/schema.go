package annotation

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// documentSchema validates annotation files on import. Geometry bounds are
// enforced here so a hand-edited file cannot smuggle boxes off the page.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["document", "boxes"],
  "properties": {
    "document": {"type": "string", "minLength": 1},
    "boxes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "page_number", "rect", "role", "source"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "page_number": {"type": "integer", "minimum": 1},
          "rect": {
            "type": "object",
            "required": ["x", "y", "width", "height"],
            "properties": {
              "x": {"type": "number", "minimum": 0, "maximum": 1},
              "y": {"type": "number", "minimum": 0, "maximum": 1},
              "width": {"type": "number", "exclusiveMinimum": 0, "maximum": 1},
              "height": {"type": "number", "exclusiveMinimum": 0, "maximum": 1}
            }
          },
          "role": {
            "enum": ["text", "table", "graph", "figure", "header", "footer",
                     "caption", "parameter"]
          },
          "label": {"type": "string"},
          "confidence": {"type": "number", "minimum": 0, "maximum": 1},
          "source": {"enum": ["manual", "detected"]},
          "selected": {"type": "boolean"},
          "editing": {"type": "boolean"}
        }
      }
    }
  }
}`

var compiledSchema = jsonschema.MustCompileString("annotations.json", documentSchema)

// Document is the persisted annotation set for one PDF.
type Document struct {
	Document string `json:"document"`
	Boxes    []*Box `json:"boxes"`
}

// ValidateDocument checks raw annotation JSON against the schema and the
// geometry invariants the schema cannot express.
func ValidateDocument(raw []byte) (*Document, error) {
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("invalid annotation JSON: %w", err)
	}
	if err := compiledSchema.Validate(generic); err != nil {
		return nil, fmt.Errorf("annotation file does not match schema: %w", err)
	}

	var doc Document
	decoder := json.NewDecoder(bytes.NewReader(raw))
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode annotations: %w", err)
	}

	for _, box := range doc.Boxes {
		if !box.Rect.Valid() {
			return nil, fmt.Errorf("box %s extends beyond the page", box.ID)
		}
	}
	return &doc, nil
}
