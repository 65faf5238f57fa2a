package outreach

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

const (
	placeholderName    = "{name}"
	placeholderCompany = "{company}"

	// fallbackName greets contacts whose name is empty.
	fallbackName = "there"
)

// DefaultSubject is the built-in subject template.
const DefaultSubject = "Software Engineering Opportunities at {company}"

// DefaultBody is the built-in body template.
const DefaultBody = `Hi {name},

I hope you're doing well!

I had the pleasure of attending the Monash University engineering networking event on July 25th, where I learned about the inspiring work happening at {company}. It left a strong impression, and I wanted to reach out personally.

I'm Rhyme, a Software Engineer with over three years of experience across fullstack and backend systems — primarily working with Java, Python, and Typescript — as well as cloud infrastructure and automation. I’m drawn to roles that blend engineering rigour with real-world impact, and I’d be genuinely excited to contribute to a team like yours.

I’ve attached my resume, and I’d really appreciate the opportunity to chat or be considered for any current or future roles that might be a fit. You can reach me by replying here or giving me a call on 0434 711 292 — I’d love to connect.

Warm regards,  
Rhyme Bulbul  
LinkedIn: https://www.linkedin.com/in/rhyme-bulbul/
`

var tokenPattern = regexp.MustCompile(`\{[A-Za-z_][A-Za-z0-9_]*\}`)

// Renderer produces the subject and body for one contact.
type Renderer struct {
	subject string
	body    string
}

// NewRenderer validates both templates. The subject must reference
// {company}; the body must reference {name} and {company}; no other
// tokens are allowed in either.
func NewRenderer(subject, body string) (*Renderer, error) {
	if err := validateTemplate("subject", subject, placeholderCompany); err != nil {
		return nil, err
	}
	if err := validateTemplate("body", body, placeholderName, placeholderCompany); err != nil {
		return nil, err
	}
	return &Renderer{subject: subject, body: body}, nil
}

// LoadRenderer builds a Renderer from optional template files, falling back
// to the built-in templates for any empty path.
func LoadRenderer(subjectPath, bodyPath string) (*Renderer, error) {
	subject, err := readTemplate(subjectPath, DefaultSubject)
	if err != nil {
		return nil, err
	}
	body, err := readTemplate(bodyPath, DefaultBody)
	if err != nil {
		return nil, err
	}
	return NewRenderer(strings.TrimRight(subject, "\r\n"), body)
}

// Render substitutes the contact's first name and company. It is pure.
func (r *Renderer) Render(name, company string) (subject, body string) {
	replacer := strings.NewReplacer(
		placeholderName, FirstName(name),
		placeholderCompany, company,
	)
	return replacer.Replace(r.subject), replacer.Replace(r.body)
}

// FirstName returns the first word of name, or "there" if name is blank.
func FirstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return fallbackName
	}
	return fields[0]
}

func validateTemplate(kind, tmpl string, required ...string) error {
	for _, token := range required {
		if !strings.Contains(tmpl, token) {
			return fmt.Errorf("%w: %s template is missing %s", ErrTemplate, kind, token)
		}
	}

	allowed := make(map[string]bool, len(required))
	for _, token := range required {
		allowed[token] = true
	}
	for _, token := range tokenPattern.FindAllString(tmpl, -1) {
		if !allowed[token] {
			return fmt.Errorf("%w: %s template has unknown placeholder %s", ErrTemplate, kind, token)
		}
	}
	return nil
}

func readTemplate(path, fallback string) (string, error) {
	if path == "" {
		return fallback, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read template %s: %w", path, err)
	}
	return string(data), nil
}
