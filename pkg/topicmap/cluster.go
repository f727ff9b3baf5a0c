package topicmap

import (
	"context"
	"slices"

	"github.com/matzehuels/topicmaps/pkg/model"
)

// Cluster is the set of topics reachable from one association by following
// connecting associations. It supports moving a connected subgraph as one.
type Cluster struct {
	vm  *Viewmodel
	ids []model.ID
}

// CreateCluster collects every topic reachable from the given association.
//
// Topics and associations are both nodes of the walk: an association links
// its two players, and a player links every association it takes part in.
// An association attached to another association therefore joins both
// components, and every association of a component yields the same topics.
// The walk uses an explicit stack and a visited set, so cycles are harmless
// and deep graphs do not grow the call stack.
func (vm *Viewmodel) CreateCluster(assocID model.ID) (*Cluster, error) {
	if _, err := vm.lookupAssociation(assocID); err != nil {
		return nil, err
	}

	adjacent := make(map[model.ID][]model.ID)
	for id, a := range vm.assocs {
		for _, p := range []model.ID{a.Role1.PlayerID, a.Role2.PlayerID} {
			adjacent[id] = append(adjacent[id], p)
			adjacent[p] = append(adjacent[p], id)
		}
	}

	c := &Cluster{vm: vm}
	visited := map[model.ID]bool{assocID: true}
	stack := []model.ID{assocID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if vm.HasTopic(id) {
			c.ids = append(c.ids, id)
		}
		for _, next := range adjacent[id] {
			if visited[next] || !vm.isMember(next) {
				continue
			}
			visited[next] = true
			stack = append(stack, next)
		}
	}
	slices.Sort(c.ids)
	return c, nil
}

// TopicIDs returns the ids of the clustered topics in ascending order.
func (c *Cluster) TopicIDs() []model.ID { return slices.Clone(c.ids) }

// Len returns the number of clustered topics.
func (c *Cluster) Len() int { return len(c.ids) }

// Contains reports whether id is part of the cluster.
func (c *Cluster) Contains(id model.ID) bool {
	_, found := slices.BinarySearch(c.ids, id)
	return found
}

// Move shifts every clustered topic by d in memory. Topics that left the
// map since the cluster was built are skipped.
func (c *Cluster) Move(d model.Point) {
	for _, id := range c.ids {
		if vt, ok := c.vm.topics[id]; ok {
			vt.Position = vt.Position.Add(d)
			c.vm.emit(EventTopicMoved, id)
		}
	}
}

// Coords returns the current positions of the clustered topics.
func (c *Cluster) Coords() []model.ClusterCoord {
	coords := make([]model.ClusterCoord, 0, len(c.ids))
	for _, id := range c.ids {
		if vt, ok := c.vm.topics[id]; ok {
			coords = append(coords, model.ClusterCoord{TopicID: id, X: vt.Position.X, Y: vt.Position.Y})
		}
	}
	return coords
}

// SetClusterPosition persists the positions of all topics in c as one batch.
func (vm *Viewmodel) SetClusterPosition(ctx context.Context, c *Cluster) error {
	coords := c.Coords()
	return vm.persist(ctx, OpSetClusterPosition, vm.info.ID, func(s Store) error {
		return s.SetClusterPosition(ctx, vm.info.ID, coords)
	})
}
