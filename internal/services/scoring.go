package services

import "classroom-backend/internal/models"

type ScoringService struct{}

func NewScoringService() *ScoringService {
	return &ScoringService{}
}

// ScoreQuiz grades submitted answer indexes against the quiz config.
// Points count only where the answer hits the stored correct index; the
// final score is 100 * earned / possible, or 0 when nothing is scorable.
// Answers shorter than the question list earn nothing for the missing
// entries.
func (s *ScoringService) ScoreQuiz(quiz *models.QuizConfig, answers []int) float64 {
	if quiz == nil {
		return 0
	}

	total, earned := 0, 0
	for i, q := range quiz.Questions {
		total += q.Points
		if i < len(answers) && answers[i] == q.CorrectIndex {
			earned += q.Points
		}
	}
	if total == 0 {
		return 0
	}
	return 100 * float64(earned) / float64(total)
}
