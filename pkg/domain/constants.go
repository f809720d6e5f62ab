package domain

// Labels, attributes and class names shared by the builder, the controller and the adapters.
const (
	ShowCommentsLabel = "Show Comments"
	HideCommentsLabel = "Hide Comments"

	// AttrPostID is the data attribute carried by toggle buttons and comment sections.
	AttrPostID = "data-post-id"

	ClassHidden   = "hide"
	ClassComments = "comments"

	// SelectPlaceholder is the value of the select menu's first option.
	SelectPlaceholder = "Employees"

	// DefaultUserID is used when the selection carries no usable value.
	DefaultUserID = 1

	DefaultText = "Select an Employee to display their posts."
)

// Remote resources, as reported in FetchEvent.Resource.
const (
	ResourceUsers    = "users"
	ResourceUser     = "user"
	ResourcePosts    = "posts"
	ResourceComments = "comments"
)
