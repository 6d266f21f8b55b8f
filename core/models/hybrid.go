package models

// Hybrid is the weighted blend of collaborative and content scores. The
// weights are configured constants, not learned.
type Hybrid struct {
	CollaborativeWeight float64
	ContentWeight       float64
}

// TrainHybrid records the blend weights, failing fast when either
// prerequisite model is missing. There is no implicit cascade training;
// the documented order is content -> collaborative -> hybrid.
func TrainHybrid(collaborative *Collaborative, content *Content, collaborativeWeight, contentWeight float64) (*Hybrid, error) {
	if collaborative == nil || content == nil {
		return nil, ErrPrerequisiteNotTrained
	}

	return &Hybrid{
		CollaborativeWeight: collaborativeWeight,
		ContentWeight:       contentWeight,
	}, nil
}

// Blend combines the two strategy scores for one item. Items present in
// only one candidate list still contribute their partial term.
func (h *Hybrid) Blend(collaborativeScore, contentScore float64) float64 {
	return collaborativeScore*h.CollaborativeWeight + contentScore*h.ContentWeight
}
