// Package phase groups consecutive pages into named phases for progress
// display. A phase is derived from a page's position only.
package phase

import (
	"errors"
	"fmt"

	"github.com/tbxark/formstepper/types"
)

var ErrOutOfRange = errors.New("page index out of range")

type Name string

type Group struct {
	Name  Name
	Label string
	Pages []types.Page
}

// Partition is an ordered list of groups. Flattening it yields the page list;
// group boundaries follow only from the group lengths.
type Partition []Group

func (p Partition) Flatten() []types.Page {
	pages := make([]types.Page, 0, p.Total())
	for _, g := range p {
		pages = append(pages, g.Pages...)
	}
	return pages
}

func (p Partition) Lengths() []int {
	lengths := make([]int, 0, len(p))
	for _, g := range p {
		lengths = append(lengths, len(g.Pages))
	}
	return lengths
}

func (p Partition) Total() int {
	total := 0
	for _, g := range p {
		total += len(g.Pages)
	}
	return total
}

func (p Partition) Names() []Name {
	names := make([]Name, 0, len(p))
	for _, g := range p {
		names = append(names, g.Name)
	}
	return names
}

// IndexOf returns the position of the named group, or -1.
func (p Partition) IndexOf(name Name) int {
	for i, g := range p {
		if g.Name == name {
			return i
		}
	}
	return -1
}

// Lookup returns the name of the group containing the flat page index.
func (p Partition) Lookup(pageIndex int) (Name, error) {
	g, err := p.Group(pageIndex)
	if err != nil {
		return "", err
	}
	return g.Name, nil
}

// Group returns the group containing the flat page index.
func (p Partition) Group(pageIndex int) (Group, error) {
	i, err := GroupForIndex(p.Lengths(), pageIndex)
	if err != nil {
		return Group{}, err
	}
	return p[i], nil
}

// Range returns the half-open page range [start, end) of the named group.
func (p Partition) Range(name Name) (start, end int, ok bool) {
	for _, g := range p {
		end = start + len(g.Pages)
		if g.Name == name {
			return start, end, true
		}
		start = end
	}
	return 0, 0, false
}

// GroupForIndex maps a flat index to the group that covers it, given the
// length of every group in order. Indexes outside [0, sum(lengths)) report
// ErrOutOfRange.
func GroupForIndex(lengths []int, pageIndex int) (int, error) {
	if pageIndex < 0 {
		return -1, fmt.Errorf("%w: %d", ErrOutOfRange, pageIndex)
	}
	end := 0
	for i, n := range lengths {
		end += n
		if pageIndex < end {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %d (total %d)", ErrOutOfRange, pageIndex, end)
}
