package checkout

import (
	"fmt"
	"strings"

	"github.com/revorbit/auto-frames/internal/models"
)

type ValidationError struct {
	Step    Step
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("step %s is incomplete: missing %s", e.Step, strings.Join(e.Missing, ", "))
}

// ValidateStep returns the names of the required fields that are empty for the step.
// Only the shipping step has required fields; format is not checked here.
func ValidateStep(step Step, details models.ShippingDetails) []string {
	if step != StepShipping {
		return nil
	}

	required := []struct {
		name  string
		value string
	}{
		{"full_name", details.FullName},
		{"phone", details.Phone},
		{"address1", details.Address1},
		{"city", details.City},
		{"state", details.State},
		{"pincode", details.Pincode},
	}

	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}

	return missing
}
