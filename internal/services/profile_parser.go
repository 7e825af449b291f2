package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/GeonYul2/Recruitment-Auto/internal/clients/github"
	"github.com/GeonYul2/Recruitment-Auto/internal/entities"
	"github.com/go-playground/validator/v10"
)

const (
	ParseErrMissingField = "missing_field"
	ParseErrInvalidField = "invalid_field"
)

// ParseError reports which profile field made a submission unusable. A bad
// submission is skipped and logged, never fatal for the run.
type ParseError struct {
	Field string
	Kind  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("profile field %v: %v", e.Field, e.Kind)
}

// headerExpr matches the "### Label" heading lines produced by the GitHub
// issue form template; the lines until the next heading are the value.
var headerExpr = regexp.MustCompile(`^### (.+)$`)

// sectionKeys maps issue form labels to canonical field keys. Unknown labels
// pass through lowercased so extra template sections are harmless.
var sectionKeys = map[string]string{
	"GitHub 사용자명": "identity",
	"희망 직무":       "desired_roles",
	"경력 (년)":      "years_experience",
	"보유 기술":       "skills",
	"희망 근무지":      "desired_locations",
}

type ProfileParser struct {
	validate *validator.Validate
}

func NewProfileParser() *ProfileParser {
	return &ProfileParser{validate: validator.New()}
}

// Parse converts one labeled issue into a profile. Missing optional sections
// become empty sets; a missing identity or role list, or a non-numeric years
// value, yields a ParseError.
func (p *ProfileParser) Parse(issue github.Issue) (entities.Profile, error) {

	sections := splitSections(issue.Body)

	identity := sections["identity"]
	if identity == "" {
		identity = issue.User.Login
	}
	if identity == "" {
		return entities.Profile{}, &ParseError{Field: "identity", Kind: ParseErrMissingField}
	}

	roles := splitList(sections["desired_roles"])
	if len(roles) == 0 {
		return entities.Profile{}, &ParseError{Field: "desired_roles", Kind: ParseErrMissingField}
	}

	years := 0
	if raw := sections["years_experience"]; raw != "" {
		parsed, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || parsed < 0 {
			return entities.Profile{}, &ParseError{Field: "years_experience", Kind: ParseErrInvalidField}
		}
		years = parsed
	}

	profile := entities.Profile{
		IssueNumber:      issue.Number,
		Identity:         strings.TrimPrefix(identity, "@"),
		DesiredRoles:     roles,
		YearsExperience:  years,
		Skills:           splitList(sections["skills"]),
		DesiredLocations: splitList(sections["desired_locations"]),
		IssueURL:         issue.HTMLURL,
		CreatedAt:        issue.CreatedAt,
	}

	if err := p.validate.Struct(profile); err != nil {
		return entities.Profile{}, &ParseError{Field: "profile", Kind: ParseErrInvalidField}
	}

	return profile, nil
}

func splitSections(body string) map[string]string {

	sections := map[string]string{}
	var key string
	var lines []string

	flush := func() {
		if key == "" {
			return
		}
		value := strings.TrimSpace(strings.Join(lines, "\n"))
		if strings.EqualFold(value, "_No response_") {
			value = ""
		}
		sections[key] = value
	}

	for _, line := range strings.Split(normalizeNewlines(body), "\n") {
		if match := headerExpr.FindStringSubmatch(line); match != nil {
			flush()
			label := strings.TrimSpace(match[1])
			var known bool
			if key, known = sectionKeys[label]; !known {
				key = strings.ToLower(strings.ReplaceAll(label, " ", "_"))
			}
			lines = lines[:0]
			continue
		}
		lines = append(lines, line)
	}
	flush()

	return sections
}

// splitList accepts both comma-separated and one-per-line (optionally
// bulleted) values, the two shapes the issue form produces.
func splitList(value string) []string {
	var items []string
	for _, line := range strings.Split(value, "\n") {
		for _, item := range strings.Split(line, ",") {
			item = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(item), "- "))
			if item != "" {
				items = append(items, item)
			}
		}
	}
	return items
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
