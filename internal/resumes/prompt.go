package resumes

import (
	_ "embed"
	"strings"
)

//go:embed prompts/portfolio_v1.txt
var systemPrompt string

// maxResumeChars bounds the resume text sent to the model.
const maxResumeChars = 40000

func buildPrompt(resumeText string) string {
	text := strings.TrimSpace(resumeText)
	if len(text) > maxResumeChars {
		text = strings.ToValidUTF8(text[:maxResumeChars], "")
	}
	var b strings.Builder
	b.WriteString("Resume text:\n<<<\n")
	b.WriteString(text)
	b.WriteString("\n>>>\n")
	return b.String()
}
