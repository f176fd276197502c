package picking

import "log/slog"

// PickerBuilderOption is a functional option for configuring a Picker via NewPicker.
type PickerBuilderOption func(*picker)

// WithIntersector is an option builder that replaces the default GeometryIntersector.
//
// Parameters:
//   - i: the intersector used for every registry entry
//
// Returns:
//   - PickerBuilderOption: a function that applies the intersector option to a picker
func WithIntersector(i Intersector) PickerBuilderOption {
	return func(p *picker) {
		if i != nil {
			p.intersector = i
		}
	}
}

// WithLogger is an option builder that sets the logger used for pick diagnostics.
//
// Parameters:
//   - logger: the structured logger
//
// Returns:
//   - PickerBuilderOption: a function that applies the logger option to a picker
func WithLogger(logger *slog.Logger) PickerBuilderOption {
	return func(p *picker) {
		if logger != nil {
			p.logger = logger
		}
	}
}
