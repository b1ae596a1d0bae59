package portfolios

import "time"

// Portfolio is a published, template-rendered view of a user's resume data.
type Portfolio struct {
	ID         string
	UserID     string
	Name       string
	Content    Content
	TemplateID string
	ResumeID   string
	Views      int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Content is the structured resume data a template renders. It is stored as
// JSONB and is also the shape the resume interpreter asks the LLM for.
type Content struct {
	Name           string          `json:"name"`
	Title          string          `json:"title"`
	Summary        string          `json:"summary"`
	Contact        Contact         `json:"contact"`
	Skills         []string        `json:"skills"`
	Experience     []Experience    `json:"experience"`
	Education      []Education     `json:"education"`
	Projects       []Project       `json:"projects"`
	Certifications []Certification `json:"certifications"`
	Languages      []Language      `json:"languages"`
	Social         []SocialLink    `json:"social"`
}

type Contact struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Website  string `json:"website"`
}

type Experience struct {
	Company     string   `json:"company"`
	Role        string   `json:"role"`
	Location    string   `json:"location"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Current     bool     `json:"current"`
	Description string   `json:"description"`
	Highlights  []string `json:"highlights"`
}

type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	URL          string   `json:"url"`
	Technologies []string `json:"technologies"`
}

type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
	URL    string `json:"url"`
}

type Language struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
}

type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// Normalize replaces nil slices with empty ones so the stored JSON and API
// responses always carry arrays.
func (c Content) Normalize() Content {
	if c.Skills == nil {
		c.Skills = []string{}
	}
	if c.Experience == nil {
		c.Experience = []Experience{}
	}
	for i := range c.Experience {
		if c.Experience[i].Highlights == nil {
			c.Experience[i].Highlights = []string{}
		}
	}
	if c.Education == nil {
		c.Education = []Education{}
	}
	if c.Projects == nil {
		c.Projects = []Project{}
	}
	for i := range c.Projects {
		if c.Projects[i].Technologies == nil {
			c.Projects[i].Technologies = []string{}
		}
	}
	if c.Certifications == nil {
		c.Certifications = []Certification{}
	}
	if c.Languages == nil {
		c.Languages = []Language{}
	}
	if c.Social == nil {
		c.Social = []SocialLink{}
	}
	return c
}
