package templates

import "errors"

var (
	// ErrTemplateNotFound indicates the template name is not registered.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrTemplateLoad indicates a registered template's assets are missing or unreadable.
	ErrTemplateLoad = errors.New("failed to load template")

	// ErrInvalidFrontmatter indicates invalid YAML frontmatter.
	ErrInvalidFrontmatter = errors.New("invalid frontmatter")
)
