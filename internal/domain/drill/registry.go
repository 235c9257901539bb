// Package drill turns a drill definition and a submitted form into
// check-in answers, feedback and a follow-up task.
package drill

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"sync"
	"time"

	"matchhub/internal/domain/curriculum"
)

// Domain errors
var (
	ErrUnknownDrillType = errors.New("unknown drill type")
	ErrNoQuestions      = errors.New("drill has no questions configured")
	ErrRequiredAnswer   = errors.New("answer is required")
	ErrInvalidOption    = errors.New("answer is not one of the offered options")
)

// FieldPrefix namespaces question answers inside a submitted form.
const FieldPrefix = "q_"

// FieldName returns the form field name for a question id.
func FieldName(questionID string) string {
	return FieldPrefix + questionID
}

// Context describes who runs the drill and when.
type Context struct {
	User      string
	Name      string // display name; user_filter matches it as well as User
	Phase     string
	StartedAt time.Time
	Now       time.Time
}

// QuizItem is the outcome of one quiz question.
type QuizItem struct {
	QuestionID  string `json:"question_id"`
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	Correct     string `json:"correct"`
	IsCorrect   bool   `json:"is_correct"`
	Explanation string `json:"explanation,omitempty"`
}

// Result is the evaluated submission of a drill.
type Result struct {
	Answers  map[string]any
	Feedback string
	NextTask string
	Warnings []string

	// Quiz only
	Items        []QuizItem
	CorrectCount int
	Total        int
	Score        int
	Rating       string
	Elapsed      time.Duration
	Expired      bool
}

// Handler renders and evaluates one drill type.
type Handler interface {
	// Questions returns the questions the user should see.
	Questions(d curriculum.Drill, c Context) []curriculum.Question
	// Evaluate reads the submitted form and scores it.
	Evaluate(d curriculum.Drill, c Context, form url.Values) (Result, error)
}

// Registry maps drill types to handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// DefaultRegistry returns a registry with the built-in drill types.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(curriculum.DrillTypePeriodCheckIn, PeriodCheckIn{})
	r.Register(curriculum.DrillTypeMicroQuiz, MicroQuiz{})
	return r
}

// Register adds or replaces the handler for drillType.
func (r *Registry) Register(drillType string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[drillType] = h
}

// Lookup returns the handler for drillType.
func (r *Registry) Lookup(drillType string) (Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[drillType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDrillType, drillType)
	}
	return h, nil
}

// Types lists the registered drill types, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.handlers))
	for t := range r.handlers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
