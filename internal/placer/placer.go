// Package placer implements the deterministic service-to-node placement
// algorithm of section 4.3: pre-placements are honored first, then the
// remainder is auto-placed by walking both the unplaced-service set and
// the idle-node set in sorted order, so identical inputs always produce
// identical placements.
package placer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dbench/sequencer/internal/seqerr"
	"github.com/dbench/sequencer/internal/utils"
	"github.com/dbench/sequencer/pb"
)

// Placement maps a node alias to the sorted list of service-instance
// names it must run. A node participating in the test with no services
// of its own still appears, with an empty (nil) slice.
type Placement map[string][]string

// orderedSet is a small sorted-slice-backed set, used to walk
// unplaced_services and idle_nodes in the framework-mandated canonical
// (sorted) order while supporting arbitrary removal.
type orderedSet struct {
	items  []string
	member map[string]bool
}

func newOrderedSet(items []string) *orderedSet {
	sorted := append([]string(nil), items...)
	sort.Strings(sorted)
	member := make(map[string]bool, len(sorted))
	for _, it := range sorted {
		member[it] = true
	}
	return &orderedSet{items: sorted, member: member}
}

func (s *orderedSet) contains(item string) bool { return s.member[item] }

func (s *orderedSet) remove(item string) {
	if !s.member[item] {
		return
	}
	delete(s.member, item)
	for i, it := range s.items {
		if it == item {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
}

func (s *orderedSet) popFront() (string, bool) {
	if len(s.items) == 0 {
		return "", false
	}
	item := s.items[0]
	s.remove(item)
	return item, true
}

func (s *orderedSet) remaining() []string {
	return append([]string(nil), s.items...)
}

// Place implements the placement algorithm. idleNodes is the snapshot
// of currently-known aliases (section 4.3 step 2).
func Place(idleNodes []string, desc *pb.DistributedSystemDescription) (Placement, error) {
	if desc == nil || len(desc.Services) == 0 {
		return nil, seqerr.InvalidArgumentf("distributed system description has no services")
	}

	var serviceNames []string
	for _, svc := range desc.Services {
		for i := int32(0); i < svc.Count; i++ {
			serviceNames = append(serviceNames, fmt.Sprintf("%s/%d", svc.ServerType, i))
		}
	}

	unplaced := newOrderedSet(serviceNames)
	idle := newOrderedSet(idleNodes)
	placement := make(Placement)

	for _, bundle := range desc.NodeServiceBundles {
		for _, svc := range bundle.Services {
			if !unplaced.contains(svc) {
				return nil, seqerr.NotFoundf("service %s was not found or already placed", svc)
			}
			unplaced.remove(svc)
			placement[bundle.Alias] = append(placement[bundle.Alias], svc)
		}
		if !idle.contains(bundle.Alias) {
			return nil, seqerr.NotFoundf("node %s was not found or not idle", bundle.Alias)
		}
		idle.remove(bundle.Alias)
	}

	for {
		svc, ok := unplaced.popFront()
		if !ok {
			break
		}
		alias, ok := idle.popFront()
		if !ok {
			missing := append([]string{svc}, unplaced.remaining()...)
			return nil, seqerr.NotFoundf("no idle nodes remain to place: %s", strings.Join(missing, ", "))
		}
		placement[alias] = append(placement[alias], svc)
	}

	for _, alias := range idle.remaining() {
		if _, ok := placement[alias]; !ok {
			placement[alias] = nil
		}
	}

	for alias := range placement {
		sort.Strings(placement[alias])
	}

	return placement, nil
}

// Aliases returns the placement's node aliases, sorted, for use as the
// fan-out target selection in Configure/Introduce/RunTraffic.
func (p Placement) Aliases() []string {
	aliases := utils.Keys(p)
	sort.Strings(aliases)
	return aliases
}

// FlattenedServices returns every service-instance name the placement
// covers, sorted — used by the round-trip property check against the
// merged ServiceEndpointMap.
func (p Placement) FlattenedServices() []string {
	var out []string
	for _, services := range p {
		out = append(out, services...)
	}
	sort.Strings(out)
	return out
}
