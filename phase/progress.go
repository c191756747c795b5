package phase

type Marker string

const (
	MarkerDone    Marker = "done"
	MarkerCurrent Marker = "current"
	MarkerPending Marker = "pending"
)

type Step struct {
	Name   Name
	Label  string
	Marker Marker
}

// Progress marks every group relative to the group holding pageIndex:
// earlier groups are done, later ones pending.
func (p Partition) Progress(pageIndex int) ([]Step, error) {
	current, err := GroupForIndex(p.Lengths(), pageIndex)
	if err != nil {
		return nil, err
	}
	steps := make([]Step, 0, len(p))
	for i, g := range p {
		marker := MarkerPending
		switch {
		case i < current:
			marker = MarkerDone
		case i == current:
			marker = MarkerCurrent
		}
		label := g.Label
		if label == "" {
			label = string(g.Name)
		}
		steps = append(steps, Step{Name: g.Name, Label: label, Marker: marker})
	}
	return steps, nil
}
