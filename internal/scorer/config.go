package scorer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/relocate-cli/internal/model"
)

// Priority weight bounds.
const (
	MinWeight = 0
	MaxWeight = 5
)

// PriorityNames lists the seven weighted axes in scoring order.
var PriorityNames = []string{"space", "cost", "schools", "nature", "commute", "calm", "culture"}

func priorityField(p *model.Priorities, name string) *int {
	switch name {
	case "space":
		return &p.Space
	case "cost":
		return &p.Cost
	case "schools":
		return &p.Schools
	case "nature":
		return &p.Nature
	case "commute":
		return &p.Commute
	case "calm":
		return &p.Calm
	case "culture":
		return &p.Culture
	}
	return nil
}

// ApplyOverrides returns a copy of base with "name=weight" pairs applied,
// e.g. "space=5,cost=2". An empty string returns base unchanged.
func ApplyOverrides(base model.Priorities, overrides string) (model.Priorities, error) {
	out := base
	overrides = strings.TrimSpace(overrides)
	if overrides == "" {
		return out, nil
	}

	for _, part := range strings.Split(overrides, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, ok := strings.Cut(part, "=")
		if !ok {
			return base, eris.Errorf("scorer: priority override %q must be name=weight", part)
		}
		field := priorityField(&out, strings.ToLower(strings.TrimSpace(name)))
		if field == nil {
			return base, eris.Errorf("scorer: unknown priority %q (want one of %s)", name, strings.Join(PriorityNames, ", "))
		}
		w, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return base, eris.Wrapf(err, "scorer: parse weight for %s", name)
		}
		*field = w
	}

	if err := ValidatePriorities(out); err != nil {
		return base, err
	}
	return out, nil
}

// ValidatePriorities checks that every weight is within [MinWeight, MaxWeight].
func ValidatePriorities(p model.Priorities) error {
	var errs []string
	for _, name := range PriorityNames {
		w := *priorityField(&p, name)
		if w < MinWeight || w > MaxWeight {
			errs = append(errs, fmt.Sprintf("%s must be between %d and %d, got %d", name, MinWeight, MaxWeight, w))
		}
	}
	if len(errs) > 0 {
		return eris.Errorf("scorer: invalid priorities: %s", strings.Join(errs, "; "))
	}
	return nil
}
