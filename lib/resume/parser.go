package resume

import (
	"regexp"
	"strconv"
	"strings"
)

// Candidate is what the heuristic parser reads out of a resume.
type Candidate struct {
	Name            string   `json:"name" bson:"name"`
	Email           string   `json:"email" bson:"email"`
	Phone           string   `json:"phone" bson:"phone"`
	Skills          []string `json:"skills" bson:"skills"`
	ExperienceYears int      `json:"experience_years" bson:"experience_years"`
	Education       string   `json:"education" bson:"education"`
	PreviousRoles   []string `json:"previous_roles" bson:"previous_roles"`
	Certifications  []string `json:"certifications" bson:"certifications"`
	Summary         string   `json:"summary" bson:"summary"`
}

const maxNameLen = 120

var (
	emailPattern      = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phonePattern      = regexp.MustCompile(`(\+?\d[\d\s().-]{7,}\d)`)
	skillsLine        = regexp.MustCompile(`(?i)^\s*Skills\s*[:|-]`)
	experienceLine    = regexp.MustCompile(`(?i)^\s*(?:total\s+)?experience\s*[:|-]\s*(\d+)`)
	experiencePhrase  = regexp.MustCompile(`(?i)(\d+)\+?\s*(?:years?|yrs?)\s+(?:of\s+)?experience`)
	educationLine     = regexp.MustCompile(`(?i)^\s*education\s*[:|-]\s*(.+)$`)
	rolesLine         = regexp.MustCompile(`(?i)^\s*(?:previous\s+roles?|roles?|experience\s+as)\s*[:|-]\s*(.+)$`)
	certificationLine = regexp.MustCompile(`(?i)^\s*certifications?\s*[:|-]\s*(.+)$`)
	summaryLine       = regexp.MustCompile(`(?i)^\s*(?:summary|profile|objective)\s*[:|-]\s*(.+)$`)
	listSeparators    = strings.NewReplacer("•", ",", "|", ",", ";", ",")
)

// Parse reads a resume without any model: email and phone by pattern, labelled lines for
// skills, experience, education, roles and certifications, and the first line as the name.
func Parse(text string) Candidate {
	c := Candidate{
		Name:           "Unknown",
		Email:          emailPattern.FindString(text),
		Phone:          strings.TrimSpace(phonePattern.FindString(text)),
		Skills:         []string{},
		PreviousRoles:  []string{},
		Certifications: []string{},
	}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for _, line := range lines {
		if s := strings.TrimSpace(line); s != "" {
			c.Name = truncate(s, maxNameLen)
			break
		}
	}
	skillsFound := false
	for _, line := range lines {
		switch {
		case !skillsFound && skillsLine.MatchString(line):
			skillsFound = true
			loc := skillsLine.FindStringIndex(line)
			c.Skills = splitList(line[loc[1]:])
		case c.ExperienceYears == 0 && experienceLine.MatchString(line):
			c.ExperienceYears, _ = strconv.Atoi(experienceLine.FindStringSubmatch(line)[1])
		case c.Education == "" && educationLine.MatchString(line):
			c.Education = strings.TrimSpace(educationLine.FindStringSubmatch(line)[1])
		case len(c.PreviousRoles) == 0 && rolesLine.MatchString(line):
			c.PreviousRoles = splitList(rolesLine.FindStringSubmatch(line)[1])
		case len(c.Certifications) == 0 && certificationLine.MatchString(line):
			c.Certifications = splitList(certificationLine.FindStringSubmatch(line)[1])
		case c.Summary == "" && summaryLine.MatchString(line):
			c.Summary = strings.TrimSpace(summaryLine.FindStringSubmatch(line)[1])
		}
	}
	if c.ExperienceYears == 0 {
		if m := experiencePhrase.FindStringSubmatch(text); m != nil {
			c.ExperienceYears, _ = strconv.Atoi(m[1])
		}
	}
	return c
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(listSeparators.Replace(s), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
