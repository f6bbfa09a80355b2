package survey_models

type SchemaType string

const (
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeInteger SchemaType = "integer"
	TypeBoolean SchemaType = "boolean"
	TypeObject  SchemaType = "object"
	TypeArray   SchemaType = "array"
	TypeAny     SchemaType = "any"
)

// FieldRule describes one key of a schema. Constraint is a validator tag
// (e.g. "min=0,max=150"); for arrays it applies to the array and Enum and
// ItemType apply to the elements.
type FieldRule struct {
	Name       string     `json:"name"`
	Type       SchemaType `json:"type"`
	Required   bool       `json:"required"`
	Constraint string     `json:"constraint,omitempty"`
	Enum       []string   `json:"enum,omitempty"`
	ItemType   SchemaType `json:"item_type,omitempty"`
}

type Schema struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Fields      []FieldRule `json:"fields"`
}

type SchemaValidation struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}
