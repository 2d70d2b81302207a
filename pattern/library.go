package pattern

import "fmt"

var builtins = []*Pattern{
	MustNew("four-on-the-floor", []Event{
		{0, 0}, {2, 0}, {4, 0}, {6, 0},
	}),
	MustNew("offbeat", []Event{
		{1, 1}, {3, 1}, {5, 1}, {7, 1},
	}),
	MustNew("backbeat", []Event{
		{0, 0}, {2, 2}, {4, 0}, {6, 2},
	}),
	MustNew("eighths", []Event{
		{0, 3}, {0.5, 4}, {1, 3}, {1.5, 4}, {2, 3}, {2.5, 4}, {3, 3}, {3.5, 4},
		{4, 3}, {4.5, 4}, {5, 3}, {5.5, 4}, {6, 3}, {6.5, 4}, {7, 3}, {7.5, 4},
	}),
	MustNew("syncopated", []Event{
		{0, 0}, {1.5, 1}, {3, 2}, {4.5, 1}, {6, 0}, {7, 3},
	}),
	MustNew("triplet-roll", []Event{
		{0, 0}, {4, 0}, {6, 5}, {6 + 1.0/3, 5}, {6 + 2.0/3, 5}, {7, 5}, {7 + 1.0/3, 5}, {7 + 2.0/3, 5},
	}),
	MustNew("build", []Event{
		{0, 0}, {2, 0}, {4, 0}, {5, 0}, {6, 2}, {6.5, 2}, {7, 2}, {7.25, 2}, {7.5, 2}, {7.75, 2},
	}),
	MustNew("sparse", []Event{
		{0, 6}, {4.5, 7},
	}),
}

// Builtins returns the built-in patterns in a stable order.
func Builtins() []*Pattern {
	return append([]*Pattern(nil), builtins...)
}

// Names lists the built-in pattern names.
func Names() []string {
	names := make([]string, len(builtins))
	for i, p := range builtins {
		names[i] = p.name
	}
	return names
}

// Lookup finds a built-in pattern by name.
func Lookup(name string) (*Pattern, error) {
	for _, p := range builtins {
		if p.name == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPattern, name)
}
