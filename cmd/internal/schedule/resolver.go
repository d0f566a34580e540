package schedule

import (
	"fmt"
	"sort"
	"workagenda/cmd/internal/domain/entity"
)

type WorkplaceStore interface {
	FindByID(id int) (*entity.Workplace, error)
	FindByOwnerRelatedTo(ownerID, relatedID int) ([]*entity.Workplace, error)
}

// Group is a primary workplace plus its secondaries, the unit shared by the
// daily hour cap and the grace period exemption. A zero Group is empty.
type Group struct {
	members map[int]*entity.Workplace
}

func (g Group) Contains(id int) bool {
	_, ok := g.members[id]
	return ok
}

func (g Group) Len() int {
	return len(g.members)
}

// IDs returns the member ids in ascending order.
func (g Group) IDs() []int {
	ids := make([]int, 0, len(g.members))
	for id := range g.members {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Names returns the member names ordered by id. Members that could not be
// loaded are reported by id.
func (g Group) Names() []string {
	names := make([]string, 0, len(g.members))
	for _, id := range g.IDs() {
		if wp := g.members[id]; wp != nil {
			names = append(names, wp.Name)
			continue
		}
		names = append(names, fmt.Sprintf("#%d", id))
	}
	return names
}

func (g *Group) add(id int, wp *entity.Workplace) {
	if g.members == nil {
		g.members = make(map[int]*entity.Workplace)
	}
	if known, ok := g.members[id]; ok && known != nil {
		return
	}
	g.members[id] = wp
}

// Resolver computes linked workplace groups. Nothing is cached: every call
// reads the current relations.
type Resolver struct {
	Workplaces WorkplaceStore
}

func NewResolver(workplaces WorkplaceStore) *Resolver {
	return &Resolver{Workplaces: workplaces}
}

// LinkedWorkplaces returns the group of workplaceID as seen by userID. A
// workplace that does not exist or belongs to someone else yields an empty
// group.
func (r *Resolver) LinkedWorkplaces(workplaceID, userID int) (Group, error) {
	wp, err := r.Workplaces.FindByID(workplaceID)
	if err != nil {
		return Group{}, fmt.Errorf("fetch workplace %d: %w", workplaceID, err)
	}
	if wp == nil || wp.UserID != userID {
		return Group{}, nil
	}
	return r.groupOf(wp, userID)
}

func (r *Resolver) groupOf(wp *entity.Workplace, userID int) (Group, error) {
	var group Group
	group.add(wp.ID, wp)

	secondaries, err := r.Workplaces.FindByOwnerRelatedTo(userID, wp.ID)
	if err != nil {
		return Group{}, fmt.Errorf("fetch secondaries of workplace %d: %w", wp.ID, err)
	}
	for _, s := range secondaries {
		group.add(s.ID, s)
	}

	if wp.RelatedTo == nil {
		return group, nil
	}

	parentID := *wp.RelatedTo
	parent, err := r.Workplaces.FindByID(parentID)
	if err != nil {
		return Group{}, fmt.Errorf("fetch primary workplace %d: %w", parentID, err)
	}
	if parent != nil && parent.UserID != userID {
		parent = nil
	}
	group.add(parentID, parent)

	siblings, err := r.Workplaces.FindByOwnerRelatedTo(userID, parentID)
	if err != nil {
		return Group{}, fmt.Errorf("fetch secondaries of workplace %d: %w", parentID, err)
	}
	for _, s := range siblings {
		group.add(s.ID, s)
	}
	return group, nil
}
