package models

// Identifier returns the tag ID.
func (t Tag) Identifier() string { return t.ID }

// SizeClass buckets a tag by how many posts carry it, for the tag cloud.
func (t Tag) SizeClass() string {
	switch {
	case t.PostCount > 10:
		return "lg"
	case t.PostCount > 5:
		return "md"
	default:
		return "sm"
	}
}
