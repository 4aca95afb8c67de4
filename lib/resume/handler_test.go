package resume

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"hr-agent-backend/lib/docstore"
	"hr-agent-backend/lib/docstore/memstore"
	llmhandler "hr-agent-backend/lib/llm"
	"hr-agent-backend/lib/notify"
	"hr-agent-backend/models"
)

const janeResume = `Jane Doe
jane@mail.com | +1 555 123 4567
Skills: Python, SQL
Experience: 2 years
Education: Bachelors in Computer Science
`

func fixedSimilarity(v float64) Similarity {
	return func(string, string) float64 { return v }
}

func seedJobs() *memstore.Store {
	store := memstore.New()
	store.Seed(docstore.JobsCollection, bson.D{
		{Key: "JobID", Value: "JOB-AI-001"},
		{Key: "Position", Value: "Data Engineer"},
		{Key: "Department", Value: "Engineering"},
		{Key: "RequiredSkills", Value: bson.A{"Python", "Java", "SQL"}},
		{Key: "ExperienceRequired", Value: 3},
		{Key: "EducationRequired", Value: "Bachelors"},
		{Key: "Status", Value: "Open"},
	})
	return store
}

func TestParse(t *testing.T) {
	t.Run(`heuristic fields check`, func(t *testing.T) {
		c := Parse(janeResume)
		require.Equal(t, "Jane Doe", c.Name)
		require.Equal(t, "jane@mail.com", c.Email)
		require.Equal(t, "+1 555 123 4567", c.Phone)
		require.Equal(t, []string{"Python", "SQL"}, c.Skills)
		require.Equal(t, 2, c.ExperienceYears)
		require.Equal(t, "Bachelors in Computer Science", c.Education)
	})

	t.Run(`bullet separated skills and empty text check`, func(t *testing.T) {
		c := Parse("\n\n  Bob\nskills - Go • Docker | Kubernetes\n5 years of experience in backend")
		require.Equal(t, "Bob", c.Name)
		require.Equal(t, []string{"Go", "Docker", "Kubernetes"}, c.Skills)
		require.Equal(t, 5, c.ExperienceYears)

		empty := Parse("")
		require.Equal(t, "Unknown", empty.Name)
		require.Empty(t, empty.Skills)
	})
}

func TestScore(t *testing.T) {
	req := Requirements{RequiredSkills: []string{"Python", "Java", "SQL"}, ExperienceYears: 3, Education: "Bachelors"}

	t.Run(`partial match is a maybe check`, func(t *testing.T) {
		s := NewMatcher(fixedSimilarity(2.0 / 3.0)).Score(Parse(janeResume), req)
		require.Equal(t, 67, s.SkillsMatch)
		require.Equal(t, 67, s.ExperienceMatch)
		require.Equal(t, 100, s.EducationMatch)
		require.Equal(t, 72, s.OverallScore)
		require.Equal(t, RecommendMaybe, s.Recommendation)
		require.Equal(t, []string{"Java"}, s.MissingSkills)
	})

	t.Run(`score bounds and missing skills subset check`, func(t *testing.T) {
		for _, sim := range []float64{-1, 0, 0.33, 1, 7} {
			for _, exp := range []int{0, 1, 3, 40} {
				c := Candidate{Skills: []string{"python", "Rust"}, ExperienceYears: exp, Education: "PhD"}
				s := NewMatcher(fixedSimilarity(sim)).Score(c, req)
				require.GreaterOrEqual(t, s.OverallScore, 0)
				require.LessOrEqual(t, s.OverallScore, 100)
				require.Subset(t, req.RequiredSkills, s.MissingSkills)
			}
		}
	})

	t.Run(`inclusive recommendation boundaries check`, func(t *testing.T) {
		require.Equal(t, RecommendHire, Recommend(80))
		require.Equal(t, RecommendMaybe, Recommend(79))
		require.Equal(t, RecommendMaybe, Recommend(60))
		require.Equal(t, RecommendReject, Recommend(59))
	})

	t.Run(`no requirements check`, func(t *testing.T) {
		require.Equal(t, 50, experienceMatch(4, 0))
		require.Equal(t, 67, experienceMatch(2, 3))
		require.Equal(t, 50, educationMatch("MSc", ""))
		require.Equal(t, 60, educationMatch("", "Masters degree"))
	})

	t.Run(`missing skills capped check`, func(t *testing.T) {
		required := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}
		require.Len(t, MissingSkills(nil, required), 10)
	})
}

func TestTFIDFSimilarity(t *testing.T) {
	t.Run(`identical and disjoint texts check`, func(t *testing.T) {
		require.InDelta(t, 1.0, TFIDFSimilarity("Python SQL developer", "python sql developer"), 1e-9)
		require.InDelta(t, 0.0, TFIDFSimilarity("Python SQL", "Java Kotlin"), 1e-9)
		require.InDelta(t, 0.0, TFIDFSimilarity("the and of", "python"), 1e-9)
	})

	t.Run(`overlap is in between check`, func(t *testing.T) {
		sim := TFIDFSimilarity("Python SQL", "Python Java SQL")
		require.Greater(t, sim, 0.0)
		require.Less(t, sim, 1.0)
		require.InDelta(t, 0.3563004293331381, sim, 1e-9)
	})

	t.Run(`shared term with smoothed idf check`, func(t *testing.T) {
		// python has idf 1, every other term and bigram 1+ln(3/2).
		require.InDelta(t, 0.20199309249791833, TFIDFSimilarity("Python developer", "python engineer"), 1e-9)
	})
}

func TestScreen(t *testing.T) {
	ctx := context.Background()
	cfg := Config{HREmail: "hr@company.com", CompanyName: "TalentFlow"}

	t.Run(`maybe notifies hr check`, func(t *testing.T) {
		store := seedJobs()
		rec := &notify.Recorder{}
		h := New(store, nil, rec, nil, NewMatcher(fixedSimilarity(2.0/3.0)), cfg)
		res, err := h.Screen(ctx, ScreenRequest{ResumeText: janeResume, JobID: "JOB-AI-001"})
		require.NoError(t, err)
		require.Equal(t, 72, res.Score.OverallScore)
		require.NotEmpty(t, res.ID)
		require.Len(t, rec.Messages, 1)
		require.Equal(t, "Manual Review Required - Jane Doe", rec.Messages[0].Subject)
		require.Equal(t, []string{"hr@company.com"}, rec.Messages[0].Recipients)

		n, err := store.CountDocuments(ctx, docstore.CandidatesCollection, bson.M{})
		require.NoError(t, err)
		require.Zero(t, n)
		list, err := h.Results(ctx, "JOB-AI-001", 0)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, "completed", docstore.GetString(list[0], "status"))
	})

	t.Run(`hire advances candidate check`, func(t *testing.T) {
		store := seedJobs()
		rec := &notify.Recorder{}
		h := New(store, nil, rec, nil, NewMatcher(fixedSimilarity(1)), cfg)
		res, err := h.Screen(ctx, ScreenRequest{ResumeText: janeResume, Department: "Engineering"})
		require.NoError(t, err)
		require.Equal(t, "JOB-AI-001", res.JobID)
		require.Equal(t, RecommendHire, res.Score.Recommendation)

		cand, err := store.FindOne(ctx, docstore.CandidatesCollection, bson.M{"Email": "jane@mail.com"})
		require.NoError(t, err)
		require.NotNil(t, cand)
		require.Equal(t, "Interview Scheduled", docstore.GetString(cand, "Status"))
		require.Equal(t, res.ID, docstore.GetString(cand, "ScreeningResult"))
		require.Equal(t, "Interview Invitation - Jane Doe", rec.Messages[0].Subject)
	})

	t.Run(`reject sends nothing check`, func(t *testing.T) {
		rec := &notify.Recorder{}
		h := New(seedJobs(), nil, rec, nil, NewMatcher(fixedSimilarity(0)), cfg)
		res, err := h.Screen(ctx, ScreenRequest{ResumeText: janeResume, JobID: "JOB-AI-001"})
		require.NoError(t, err)
		require.Equal(t, RecommendReject, res.Score.Recommendation)
		require.Empty(t, rec.Messages)
	})

	t.Run(`unknown job check`, func(t *testing.T) {
		h := New(seedJobs(), nil, &notify.Recorder{}, nil, nil, cfg)
		_, err := h.Screen(ctx, ScreenRequest{ResumeText: janeResume, JobID: "JOB-X"})
		require.ErrorIs(t, err, ErrJobNotFound)
		_, err = New(memstore.New(), nil, &notify.Recorder{}, nil, nil, cfg).Screen(ctx, ScreenRequest{ResumeText: janeResume})
		require.ErrorIs(t, err, ErrNoJobs)
	})
}

func TestHandle(t *testing.T) {
	ctx := context.Background()
	cfg := Config{HREmail: "hr@company.com", CompanyName: "TalentFlow"}

	t.Run(`job id from the model check`, func(t *testing.T) {
		llm := llmhandler.Func(func(context.Context, string) (string, error) {
			return "```json\n{\"job_id\": \"JOB-AI-001\"}\n```", nil
		})
		res := New(seedJobs(), llm, &notify.Recorder{}, nil, NewMatcher(fixedSimilarity(2.0/3.0)), cfg).Handle(ctx, "screen for JOB-AI-001\n"+janeResume)
		require.True(t, res.Success)
		require.Contains(t, res.Answer, "Recommendation: MAYBE")
		require.Contains(t, res.Answer, "Missing Skills: Java")
	})

	t.Run(`no job id check`, func(t *testing.T) {
		llm := llmhandler.Func(func(context.Context, string) (string, error) {
			return `{"job_id": null}`, nil
		})
		res := New(seedJobs(), llm, &notify.Recorder{}, nil, nil, cfg).Handle(ctx, "screen this resume")
		require.Equal(t, models.KindInputError, res.Kind)
	})
}
