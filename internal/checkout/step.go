package checkout

import "github.com/revorbit/auto-frames/internal/models"

type Step string

const (
	StepReview       Step = "review"
	StepShipping     Step = "shipping"
	StepPayment      Step = "payment"
	StepConfirmation Step = "confirmation"
)

var (
	cartSteps   = []Step{StepReview, StepShipping, StepPayment, StepConfirmation}
	designSteps = []Step{StepShipping, StepPayment, StepConfirmation}
)

// Confirmation is reached only through a successful order submission.
func (s Step) IsTerminal() bool {
	return s == StepConfirmation
}

func (s Step) IsValid() bool {
	switch s {
	case StepReview, StepShipping, StepPayment, StepConfirmation:
		return true
	}
	return false
}

// Steps returns the wizard sequence for the origin. Design checkouts skip review.
func Steps(origin models.CheckoutOrigin) []Step {
	src := cartSteps
	if origin == models.OriginDesign {
		src = designSteps
	}

	steps := make([]Step, len(src))
	copy(steps, src)
	return steps
}

func indexOf(steps []Step, step Step) int {
	for i, s := range steps {
		if s == step {
			return i
		}
	}
	return -1
}
