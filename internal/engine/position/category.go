package position

// Category identifies a group of positions in a Registry.
// Categories are comparable and usable as map keys.
type Category struct {
	name  string
	token *categoryToken
}

type categoryToken struct {
	label string
}

// Default is the category every document tracks with the standard updater.
var Default = Named("default_category")

// Named returns the category for a caller-chosen name.
// Two calls with the same name yield equal categories.
func Named(name string) Category {
	return Category{name: name}
}

// NewPrivateCategory returns a category equal to no other category,
// including ones built by Named with the same label.
func NewPrivateCategory(label string) Category {
	return Category{name: label, token: &categoryToken{label: label}}
}

// Name returns the category's name or label.
func (c Category) Name() string {
	return c.name
}

// IsPrivate reports whether c was created by NewPrivateCategory.
func (c Category) IsPrivate() bool {
	return c.token != nil
}

// String implements fmt.Stringer.
func (c Category) String() string {
	if c.token != nil {
		return "private:" + c.name
	}
	return c.name
}
