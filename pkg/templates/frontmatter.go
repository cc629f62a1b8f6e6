package templates

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// frontmatter is the metadata block at the top of an HTML template asset.
type frontmatter struct {
	Subject string `yaml:"subject"`
}

// parseFrontmatter splits an asset into its YAML frontmatter and body.
// Content without a leading delimiter has empty metadata.
func parseFrontmatter(content []byte) (frontmatter, string, error) {
	var meta frontmatter
	delimiter := []byte("---")

	if !bytes.HasPrefix(content, delimiter) {
		return meta, string(content), nil
	}

	afterFirst := bytes.TrimPrefix(content, delimiter)
	afterFirst = bytes.TrimLeft(afterFirst, "\n\r")
	if len(afterFirst) == 0 {
		return meta, "", fmt.Errorf("%w: no content after opening delimiter", ErrInvalidFrontmatter)
	}

	endIdx := bytes.Index(afterFirst, delimiter)
	if endIdx == -1 {
		return meta, "", fmt.Errorf("%w: closing delimiter not found", ErrInvalidFrontmatter)
	}

	header := afterFirst[:endIdx]
	bodyStart := endIdx + len(delimiter)
	// one newline after the closing delimiter belongs to it
	if bodyStart < len(afterFirst) {
		if afterFirst[bodyStart] == '\r' && bodyStart+1 < len(afterFirst) && afterFirst[bodyStart+1] == '\n' {
			bodyStart += 2
		} else if afterFirst[bodyStart] == '\n' {
			bodyStart++
		}
	}

	if len(bytes.TrimSpace(header)) > 0 {
		if err := yaml.Unmarshal(header, &meta); err != nil {
			return meta, "", fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
		}
	}

	return meta, string(afterFirst[bodyStart:]), nil
}
