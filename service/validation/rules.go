package validation

// Rule is a single check applied to a payload field.
type Rule int

const (
	Required Rule = iota + 1
	StringType
	NumericType
)

func (r Rule) String() string {
	switch r {
	case Required:
		return "required"
	case StringType:
		return "string"
	case NumericType:
		return "numeric"
	default:
		return "unknown"
	}
}

// Field binds a payload key to the rules it must satisfy.
type Field struct {
	Name  string
	Rules []Rule
}

// Schema is checked in declaration order.
type Schema []Field

// Fields returns the field names declared by the schema.
func (s Schema) Fields() []string {
	names := make([]string, 0, len(s))
	for _, f := range s {
		names = append(names, f.Name)
	}
	return names
}
