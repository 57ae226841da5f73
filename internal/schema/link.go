package schema

// Link is the payload of a link object.
type Link struct {
	Link                  string `json:"link" validate:"required,url"`
	ShowDescriptionAsLink bool   `json:"show_description_as_link"`
}

func ValidateLink(l Link) error {
	return validateStruct(l)
}

// Markdown is the payload of a markdown object.
type Markdown struct {
	RawText string `json:"raw_text" validate:"required,min=1"`
}

func ValidateMarkdown(m Markdown) error {
	return validateStruct(m)
}
