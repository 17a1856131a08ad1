// Package templates lists the ATS-friendly resume templates offered to users
// and derives their embeddable preview links.
package templates

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoPreviewID is returned when a link has no usable id segment.
var ErrNoPreviewID = errors.New("template link has no document id")

const previewFormat = "https://drive.google.com/file/d/%s/preview"

const shareSuffix = "/edit?usp=sharing&ouid=102272826109592952279&rtpof=true&sd=true"

// Template is a named link to a hosted resume template.
type Template struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// Defaults returns the built-in template list in display order.
func Defaults() []Template {
	ids := []string{
		"1NWFIz-EZ1ZztZSdXfrrcdffSzG-uermd",
		"1xO7hvK-RQSb0mjXRn24ri3AiDrXx6qt8",
		"1fAukvT0lWXns3VexbZjwXyCAZGw2YptO",
		"1htdoqTPDnG-T0OpTtj8wUOIfX9PfvqhS",
		"1uTINCs71c4lL1Gcb8DQlyFYVqzOPidoS",
		"1KO9OuhY7l6dn2c5xynpCOIgbx5LWsfb0",
	}
	out := make([]Template, len(ids))
	for i, id := range ids {
		out[i] = Template{
			Name: fmt.Sprintf("Sample %d", i+1),
			URL:  "https://docs.google.com/document/d/" + id + shareSuffix,
		}
	}
	return out
}

// PreviewID returns the second-to-last "/"-delimited segment of link. The
// query string is not stripped first, so ".../d/ID/edit?usp=sharing" yields ID.
func PreviewID(link string) (string, error) {
	parts := strings.Split(link, "/")
	if len(parts) < 2 {
		return "", fmt.Errorf("%w: %q", ErrNoPreviewID, link)
	}
	id := parts[len(parts)-2]
	if id == "" {
		return "", fmt.Errorf("%w: %q", ErrNoPreviewID, link)
	}
	return id, nil
}

// PreviewURL returns the embeddable preview link for a template URL.
func PreviewURL(link string) (string, error) {
	id, err := PreviewID(link)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(previewFormat, id), nil
}

// Preview is PreviewURL for t.URL.
func (t Template) Preview() (string, error) {
	return PreviewURL(t.URL)
}
