package domain

// Rating scale bounds shared by explicit ratings and implicit signals.
const (
	MinRating = 1.0
	MaxRating = 5.0
)

// Implicit rating assigned per interaction type when the user left no
// explicit rating. Completion is the strongest signal; a bare view the
// weakest.
var implicitRatings = map[InteractionType]float64{
	InteractionView:           2.0,
	InteractionLessonComplete: 5.0,
	InteractionQuizAttempt:    2.5,
	InteractionProjectJoin:    4.5,
	InteractionCodeExecute:    3.5,
	InteractionSimulatorUse:   3.5,
}

// EffectiveRating resolves the engagement signal for this event on the
// 1-5 rating scale. Explicit ratings win; quiz attempts with a score map
// score/20 onto the scale; everything else falls back to the per-type
// implicit rating.
func (i *Interaction) EffectiveRating() float64 {
	if i.Rating != nil {
		return clampRating(*i.Rating)
	}
	if i.Type == InteractionQuizAttempt && i.Score != nil {
		return clampRating(*i.Score / 20.0)
	}
	if r, ok := implicitRatings[i.Type]; ok {
		return r
	}
	return MinRating
}

func clampRating(r float64) float64 {
	if r < MinRating {
		return MinRating
	}
	if r > MaxRating {
		return MaxRating
	}
	return r
}
