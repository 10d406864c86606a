package domain

import "math"

// Score sums the points of every question whose recorded answer is judged
// correct by the comparator. It never touches the data store.
func Score(questions []Question, answers map[string]AnswerValue) int {
	total := 0
	for _, q := range questions {
		if IsCorrect(q, answers[q.ID]) {
			total += q.Points
		}
	}
	return total
}

// Percentage is round(score/totalPoints*100), or 0 for an empty quiz.
func Percentage(score, totalPoints int) int {
	if totalPoints <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(totalPoints) * 100))
}
