package portfolios

import (
	"fmt"
	"net/url"
	"strings"
)

func validateFields(name, templateID string, content Content) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !IsKnownTemplate(templateID) {
		return fmt.Errorf("%w: unknown templateId %q", ErrValidation, templateID)
	}
	return validateContent(content)
}

func validateContent(content Content) error {
	if strings.TrimSpace(content.Name) == "" {
		return fmt.Errorf("%w: content.name is required", ErrValidation)
	}
	if err := checkURL("content.contact.website", content.Contact.Website); err != nil {
		return err
	}
	for i, s := range content.Social {
		if err := checkURL(fmt.Sprintf("content.social[%d].url", i), s.URL); err != nil {
			return err
		}
	}
	for i, p := range content.Projects {
		if err := checkURL(fmt.Sprintf("content.projects[%d].url", i), p.URL); err != nil {
			return err
		}
	}
	for i, c := range content.Certifications {
		if err := checkURL(fmt.Sprintf("content.certifications[%d].url", i), c.URL); err != nil {
			return err
		}
	}
	return nil
}

// checkURL accepts empty values and absolute http(s) URLs.
func checkURL(field, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: %s must be an absolute http(s) URL", ErrValidation, field)
	}
	return nil
}
