package drill

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"matchhub/internal/domain/curriculum"
)

// DefaultTimeLimit applies when a quiz does not configure time_limit (seconds).
const DefaultTimeLimit = 60

// MicroQuiz is a timed multiple-choice quiz with explanations.
type MicroQuiz struct{}

// Questions returns every quiz question with ids filled in as q1, q2...
// where the definition has none. Quizzes have no per-user filter.
func (MicroQuiz) Questions(d curriculum.Drill, _ Context) []curriculum.Question {
	out := make([]curriculum.Question, len(d.Config.Questions))
	for i, q := range d.Config.Questions {
		if q.ID == "" {
			q.ID = fmt.Sprintf("q%d", i+1)
		}
		out[i] = q
	}
	return out
}

// TimeLimit returns the quiz time limit.
func TimeLimit(d curriculum.Drill) time.Duration {
	if d.Config.TimeLimit > 0 {
		return time.Duration(d.Config.TimeLimit) * time.Second
	}
	return DefaultTimeLimit * time.Second
}

// Evaluate scores the submitted answers. An expired quiz is still scored.
func (m MicroQuiz) Evaluate(d curriculum.Drill, c Context, form url.Values) (Result, error) {
	questions := m.Questions(d, c)
	if len(questions) == 0 {
		return Result{}, ErrNoQuestions
	}

	res := Result{Answers: make(map[string]any, len(questions)), Total: len(questions)}
	if !c.StartedAt.IsZero() && c.Now.After(c.StartedAt) {
		res.Elapsed = c.Now.Sub(c.StartedAt).Truncate(time.Second)
		res.Expired = res.Elapsed > TimeLimit(d)
	}

	for _, q := range questions {
		id := q.ID
		answer := strings.TrimSpace(form.Get(FieldName(id)))
		correct := answer != "" && answer == q.Correct
		if correct {
			res.CorrectCount++
		}
		res.Answers[id] = answer
		res.Items = append(res.Items, QuizItem{
			QuestionID:  id,
			Question:    q.Question,
			Answer:      answer,
			Correct:     q.Correct,
			IsCorrect:   correct,
			Explanation: q.Explanation,
		})
	}

	res.Score = res.CorrectCount * 100 / res.Total
	res.Rating = Rating(res.Score)
	res.Feedback = fmt.Sprintf("Quiz abgeschlossen: %d/%d richtig (%d%%)", res.CorrectCount, res.Total, res.Score)
	if res.Score < 60 {
		res.NextTask = "Wiederhole Begriffe mit < 60% Erfolgsrate"
	}
	return res, nil
}

// Rating maps a quiz score to an emoji.
func Rating(score int) string {
	switch {
	case score >= 80:
		return "🏆"
	case score >= 60:
		return "👍"
	default:
		return "💪"
	}
}
