package resume

import (
	"math"
	"strings"
)

const (
	RecommendHire   = "hire"
	RecommendMaybe  = "maybe"
	RecommendReject = "reject"

	maxMissingSkills = 10
	scoringReason    = "Similarity-based scoring without external AI"
)

// Requirements are the parts of a job posting the matcher compares against.
type Requirements struct {
	RequiredSkills  []string `json:"required_skills" bson:"required_skills"`
	ExperienceYears int      `json:"experience_years" bson:"experience_years"`
	Education       string   `json:"education" bson:"education"`
	Position        string   `json:"position" bson:"position"`
	Department      string   `json:"department" bson:"department"`
}

type Score struct {
	OverallScore    int      `json:"overall_score" bson:"overall_score"`
	SkillsMatch     int      `json:"skills_match" bson:"skills_match"`
	ExperienceMatch int      `json:"experience_match" bson:"experience_match"`
	EducationMatch  int      `json:"education_match" bson:"education_match"`
	Recommendation  string   `json:"recommendation" bson:"recommendation"`
	Strengths       []string `json:"strengths" bson:"strengths"`
	Weaknesses      []string `json:"weaknesses" bson:"weaknesses"`
	MissingSkills   []string `json:"missing_skills" bson:"missing_skills"`
	Reason          string   `json:"reason" bson:"reason"`
}

type Matcher struct {
	similarity Similarity
}

// NewMatcher uses TFIDFSimilarity when similarity is nil.
func NewMatcher(similarity Similarity) *Matcher {
	if similarity == nil {
		similarity = TFIDFSimilarity
	}
	return &Matcher{similarity: similarity}
}

func joinNonEmpty(parts ...string) string {
	kept := []string{}
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " \n")
}

func (m *Matcher) Score(c Candidate, req Requirements) Score {
	candidateText := joinNonEmpty(c.Summary, strings.Join(c.Skills, " "), strings.Join(c.PreviousRoles, " "), c.Education)
	jobText := joinNonEmpty(strings.Join(req.RequiredSkills, " "), req.Education, req.Position, req.Department)

	sim := 0.0
	if candidateText != "" && jobText != "" {
		sim = math.Min(1, math.Max(0, m.similarity(candidateText, jobText)))
	}
	s := Score{
		SkillsMatch:     int(math.Round(sim * 100)),
		ExperienceMatch: experienceMatch(c.ExperienceYears, req.ExperienceYears),
		EducationMatch:  educationMatch(c.Education, req.Education),
		Strengths:       []string{},
		Weaknesses:      []string{},
		MissingSkills:   MissingSkills(c.Skills, req.RequiredSkills),
		Reason:          scoringReason,
	}
	s.OverallScore = int(math.Round(0.6*float64(s.SkillsMatch) + 0.25*float64(s.ExperienceMatch) + 0.15*float64(s.EducationMatch)))
	s.Recommendation = Recommend(s.OverallScore)

	if s.SkillsMatch >= 70 {
		s.Strengths = append(s.Strengths, "strong skill alignment")
	}
	if s.ExperienceMatch >= 80 {
		s.Strengths = append(s.Strengths, "meets experience requirements")
	}
	if s.SkillsMatch < 50 {
		s.Weaknesses = append(s.Weaknesses, "low skills match")
	}
	if s.EducationMatch < 60 {
		s.Weaknesses = append(s.Weaknesses, "education below requirement")
	}
	return s
}

// Recommend is inclusive at both cut-offs: 80 hires, 60 is a maybe.
func Recommend(overall int) string {
	switch {
	case overall >= 80:
		return RecommendHire
	case overall >= 60:
		return RecommendMaybe
	default:
		return RecommendReject
	}
}

// experienceMatch is 50 when the job states no requirement.
func experienceMatch(candidate, required int) int {
	switch {
	case required <= 0:
		return 50
	case candidate >= required:
		return 100
	case candidate <= 0:
		return 0
	}
	return int(math.Round(float64(candidate) / float64(required) * 100))
}

func educationMatch(candidate, required string) int {
	required = strings.ToLower(strings.TrimSpace(required))
	if required == "" {
		return 50
	}
	if strings.Contains(strings.ToLower(candidate), strings.Fields(required)[0]) {
		return 100
	}
	return 60
}

// MissingSkills is the case-insensitive difference required - candidate, at most 10 entries.
func MissingSkills(candidate, required []string) []string {
	have := make(map[string]struct{}, len(candidate))
	for _, s := range candidate {
		have[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}
	missing := []string{}
	for _, s := range required {
		key := strings.ToLower(strings.TrimSpace(s))
		if key == "" {
			continue
		}
		if _, ok := have[key]; !ok {
			missing = append(missing, s)
			if len(missing) == maxMissingSkills {
				break
			}
		}
	}
	return missing
}
