package resumes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"portfolio-backend/internal/extract"
	"portfolio-backend/internal/llm"
	"portfolio-backend/internal/portfolios"
	"portfolio-backend/internal/shared/metrics"
	"portfolio-backend/internal/shared/storage/object"
	"portfolio-backend/internal/shared/telemetry"
)

// PortfolioCreator stores a new portfolio.
type PortfolioCreator interface {
	Create(ctx context.Context, in portfolios.CreateInput) (portfolios.Portfolio, error)
}

// Interpreter turns an uploaded resume into a new portfolio.
type Interpreter struct {
	Repo       Repo
	Store      object.ObjectStore
	LLM        llm.Client
	Portfolios PortfolioCreator
	Now        func() time.Time
}

func (it *Interpreter) now() time.Time {
	if it.Now != nil {
		return it.Now()
	}
	return time.Now()
}

// Interpret extracts the text of fileID, asks the model for portfolio
// content and creates a portfolio owned by userID. It returns the new
// portfolio id.
func (it *Interpreter) Interpret(ctx context.Context, userID, fileID string) (id string, err error) {
	userID = strings.TrimSpace(userID)
	fileID = strings.TrimSpace(fileID)
	if userID == "" || fileID == "" {
		return "", fmt.Errorf("%w: userId and fileId are required", ErrValidation)
	}

	start := it.now()
	defer func() {
		metrics.ObserveResumeParse(it.now().Sub(start))
		if err != nil {
			metrics.IncResumeParseFailed()
			telemetry.Warn("resume.parse_failed", map[string]any{
				"user_id": userID,
				"file_id": fileID,
				"error":   err.Error(),
			})
		}
	}()

	f, err := it.Repo.GetByID(ctx, fileID)
	if err != nil {
		return "", err
	}
	if f.UserID != userID {
		return "", ErrNotFound
	}

	text, err := extract.ExtractText(ctx, it.Store, f.StorageKey, f.MimeType, f.FileName)
	if err != nil {
		if errors.Is(err, extract.ErrEmpty) || errors.Is(err, extract.ErrUnsupported) {
			return "", fmt.Errorf("%w: could not read text from resume", ErrValidation)
		}
		return "", fmt.Errorf("extract resume text: %w", err)
	}

	raw, err := it.LLM.Complete(ctx, llm.Request{
		System: systemPrompt,
		Prompt: buildPrompt(text),
	})
	if err != nil {
		return "", fmt.Errorf("interpret resume: %w", err)
	}

	content, err := decodeContent(raw)
	if err != nil {
		return "", err
	}
	fallback := baseName(f.FileName)
	content = sanitizeContent(content, fallback)

	name := content.Name
	if name == "" {
		name = fallback
	}
	p, err := it.Portfolios.Create(ctx, portfolios.CreateInput{
		UserID:   userID,
		Name:     name,
		Content:  content,
		ResumeID: f.ID,
	})
	if err != nil {
		return "", fmt.Errorf("create portfolio from resume: %w", err)
	}

	telemetry.Info("resume.parsed", map[string]any{
		"user_id":      userID,
		"file_id":      fileID,
		"portfolio_id": p.ID,
		"text_chars":   len(text),
	})
	return p.ID, nil
}

func decodeContent(raw string) (portfolios.Content, error) {
	body := stripCodeFences(raw)
	if start, end := strings.Index(body, "{"), strings.LastIndex(body, "}"); start >= 0 && end > start {
		body = body[start : end+1]
	}
	var content portfolios.Content
	if err := json.Unmarshal([]byte(body), &content); err != nil {
		return portfolios.Content{}, fmt.Errorf("%w: %v", ErrModelOutput, err)
	}
	return content, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func baseName(fileName string) string {
	name := strings.TrimSpace(filepath.Base(fileName))
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" || name == "." {
		return "My Portfolio"
	}
	return name
}

// sanitizeContent trims model output and repairs links so that it passes
// portfolio validation.
func sanitizeContent(c portfolios.Content, fallbackName string) portfolios.Content {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		c.Name = fallbackName
	}
	c.Title = strings.TrimSpace(c.Title)
	c.Summary = strings.TrimSpace(c.Summary)
	c.Contact.Website = normalizeURL(c.Contact.Website)

	social := c.Social[:0]
	for _, s := range c.Social {
		s.URL = normalizeURL(s.URL)
		if s.URL == "" {
			continue
		}
		social = append(social, s)
	}
	c.Social = social

	for i := range c.Projects {
		c.Projects[i].URL = normalizeURL(c.Projects[i].URL)
	}
	for i := range c.Certifications {
		c.Certifications[i].URL = normalizeURL(c.Certifications[i].URL)
	}
	return c.Normalize()
}

func normalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	return u.String()
}
