package service

import (
	"errors"
	"math/rand"

	"github.com/halvard/wordvault-api/internal/domain"
	"github.com/halvard/wordvault-api/internal/randutil"
)

// Allowed option count per question. Fixed; small collections repeat
// answers rather than shrink the option list.
const optionsPerQuestion = 4

// ErrNoWords indicates quiz generation was attempted with an empty word pool.
var ErrNoWords = errors.New("cannot generate a quiz from an empty word pool")

// QuizGenerator builds multiple-choice questions from a word pool.
// Prompts show the word text; answer options show each word's preferred
// translation. Randomness comes from the injected source so tests can be
// deterministic.
type QuizGenerator struct {
	rng *rand.Rand
}

// NewQuizGenerator creates a generator backed by the given random source.
func NewQuizGenerator(rng *rand.Rand) *QuizGenerator {
	return &QuizGenerator{rng: rng}
}

// Generate builds questionCount questions from the pool. Prompt words are
// picked with repetition when the pool is smaller than the requested count.
// Each question carries exactly four options: the prompt word's translation
// plus three drawn from the rest of the pool, repeated as needed when the
// pool is small. A single-word pool degenerates to four identical options,
// which is accepted.
func (g *QuizGenerator) Generate(words []*domain.Word, questionCount int) ([]domain.Question, error) {
	if len(words) == 0 {
		return nil, ErrNoWords
	}
	if questionCount <= 0 {
		return nil, errors.New("question count must be positive")
	}

	prompts := randutil.Pick(g.rng, words, questionCount)

	questions := make([]domain.Question, 0, questionCount)
	for _, prompt := range prompts {
		questions = append(questions, g.buildQuestion(prompt, words))
	}
	return questions, nil
}

func (g *QuizGenerator) buildQuestion(prompt *domain.Word, pool []*domain.Word) domain.Question {
	others := make([]*domain.Word, 0, len(pool))
	for _, w := range pool {
		if w.ID != prompt.ID {
			others = append(others, w)
		}
	}

	// Wrong answers come from the rest of the pool; when it cannot supply
	// three distinct words, Pick repeats. With no other words at all the
	// prompt's own translation fills every slot.
	wrongCount := optionsPerQuestion - 1
	var wrong []*domain.Word
	if len(others) > 0 {
		wrong = randutil.Pick(g.rng, others, wrongCount)
	} else {
		wrong = []*domain.Word{prompt, prompt, prompt}
	}

	options := make([]*domain.Word, 0, optionsPerQuestion)
	options = append(options, prompt)
	options = append(options, wrong...)
	randutil.Shuffle(g.rng, options)

	question := domain.Question{
		Prompt:       prompt.Text,
		PromptWordID: prompt.ID,
		Answers:      make([]domain.AnswerOption, 0, optionsPerQuestion),
	}
	question.CorrectIndex = -1
	for i, w := range options {
		question.Answers = append(question.Answers, domain.AnswerOption{
			Text:   w.PreferredTranslation(),
			WordID: w.ID,
		})
		if question.CorrectIndex < 0 && w == prompt {
			question.CorrectIndex = i
		}
	}
	return question
}
