package drill

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"matchhub/internal/domain/coaching"
	"matchhub/internal/domain/curriculum"
)

// PeriodCheckIn asks the configured questions during a period break and
// runs the drill's coaching rules over the answers.
type PeriodCheckIn struct{}

// Questions drops questions whose user_filter names neither the user nor
// their display name.
func (PeriodCheckIn) Questions(d curriculum.Drill, c Context) []curriculum.Question {
	var out []curriculum.Question
	for _, q := range d.Config.Questions {
		if q.VisibleTo(c.User, c.Name) {
			out = append(out, q)
		}
	}
	return out
}

// Evaluate reads one answer per visible question.
// PRE: form holds the values under FieldName(question id)
// POST: Answers holds a value for every known question type; unknown types become warnings
func (p PeriodCheckIn) Evaluate(d curriculum.Drill, c Context, form url.Values) (Result, error) {
	questions := p.Questions(d, c)
	if len(questions) == 0 {
		return Result{}, ErrNoQuestions
	}

	res := Result{Answers: make(map[string]any, len(questions))}
	for _, q := range questions {
		raw := strings.TrimSpace(form.Get(FieldName(q.ID)))
		switch q.Type {
		case curriculum.QuestionRadio, curriculum.QuestionSelect:
			v, err := pickOption(q, raw)
			if err != nil {
				return Result{}, err
			}
			res.Answers[q.ID] = v
		case curriculum.QuestionSlider:
			res.Answers[q.ID] = sliderValue(q, raw)
		case curriculum.QuestionText:
			if raw == "" && q.Required {
				return Result{}, fmt.Errorf("%w: %s", ErrRequiredAnswer, questionLabel(q))
			}
			res.Answers[q.ID] = truncate(raw, q.TextLimit())
		default:
			res.Warnings = append(res.Warnings, fmt.Sprintf("Unbekannter Question-Type: %s", q.Type))
		}
	}

	res.Feedback, res.NextTask = coaching.Evaluate(res.Answers, d.Config.CoachingRules, c.Phase)
	return res, nil
}

func pickOption(q curriculum.Question, raw string) (string, error) {
	if len(q.Options) == 0 {
		return raw, nil
	}
	if raw == "" {
		return q.Options[0], nil
	}
	for _, o := range q.Options {
		if o == raw {
			return o, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidOption, questionLabel(q))
}

func sliderValue(q curriculum.Question, raw string) int {
	lo, hi, def := q.SliderBounds()
	v, err := strconv.Atoi(raw)
	if err != nil {
		v = def
	}
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}

func questionLabel(q curriculum.Question) string {
	if q.Label != "" {
		return q.Label
	}
	if q.Question != "" {
		return q.Question
	}
	return q.ID
}
