package identification

// Field names a resolvable metadata value. The string form doubles as the
// template placeholder name.
type Field string

const (
	FieldName   Field = "name"
	FieldNameCN Field = "namecn"
	FieldAuthor Field = "author"
	FieldPress  Field = "press"
)

// AllFields lists every resolvable field in placeholder order.
var AllFields = []Field{FieldName, FieldNameCN, FieldAuthor, FieldPress}

// Placeholder returns the template token for the field, e.g. "{namecn}".
func (f Field) Placeholder() string {
	return "{" + string(f) + "}"
}

// ResolvedFields maps fields to their resolved values. A field without an
// entry is unresolved.
type ResolvedFields map[Field]string

// Get returns the value for f and whether it was resolved.
func (r ResolvedFields) Get(f Field) (string, bool) {
	value, ok := r[f]
	return value, ok
}

// setOnce stores value unless f already holds one. Empty values are ignored.
func (r ResolvedFields) setOnce(f Field, value string) bool {
	if value == "" {
		return false
	}
	if _, exists := r[f]; exists {
		return false
	}
	r[f] = value
	return true
}
