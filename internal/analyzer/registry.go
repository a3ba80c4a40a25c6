package analyzer

import "fmt"

// NewActivator creates an activator for the given policy
func NewActivator(policy ActivationPolicy) (Activator, error) {
	switch policy {
	case ActivationFloodFill, "":
		return BorderFloodFill{}, nil
	case ActivationFillHoles:
		return HoleFill{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown activation policy %q", ErrInvalidConfiguration, policy)
	}
}
