package quiz

import "math/rand"

// StudentView returns a copy of qz suitable for delivery to a learner: answer keys are
// removed and, when the quiz asks for it, questions are shuffled using seed so the same
// learner sees a stable order across reloads.
func StudentView(qz Quiz, seed int64) Quiz {
	out := qz.Clone()
	for i := range out.Questions {
		switch b := out.Questions[i].Body.(type) {
		case *Choice:
			b.Correct = nil
		case *Text:
			b.Answer = Answer{}
		case *Labeling:
			for k := range b.Pairs {
				b.Pairs[k].Answer = ""
			}
		}
	}
	if out.Settings.ShuffleQuestions && len(out.Questions) > 1 {
		r := rand.New(rand.NewSource(seed))
		r.Shuffle(len(out.Questions), func(i, j int) {
			out.Questions[i], out.Questions[j] = out.Questions[j], out.Questions[i]
		})
	}
	return out
}
