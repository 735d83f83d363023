package jellyfish

// switchset.go implements the index-stable set used both for the open-switch bookkeeping
// and for each switch's neighbor list. Members live in a slice so that uniform selection
// is a single index draw, and a position map makes membership and removal O(1).
// Removal swaps the last member into the hole, so iteration order depends only on
// the sequence of insertions and removals, never on map iteration.

type switchSet struct {
	members []int
	pos     map[int]int
}

// createSwitchSet is a constructor
func createSwitchSet(capacity int) *switchSet {
	ss := new(switchSet)
	ss.members = make([]int, 0, capacity)
	ss.pos = make(map[int]int, capacity)
	return ss
}

// len returns the number of members
func (ss *switchSet) len() int {
	return len(ss.members)
}

// contains reports membership
func (ss *switchSet) contains(id int) bool {
	_, present := ss.pos[id]
	return present
}

// add inserts id, returning false if it was already present
func (ss *switchSet) add(id int) bool {
	if ss.contains(id) {
		return false
	}
	ss.pos[id] = len(ss.members)
	ss.members = append(ss.members, id)
	return true
}

// remove deletes id, returning false if it was not present
func (ss *switchSet) remove(id int) bool {
	idx, present := ss.pos[id]
	if !present {
		return false
	}
	last := len(ss.members) - 1
	if idx != last {
		moved := ss.members[last]
		ss.members[idx] = moved
		ss.pos[moved] = idx
	}
	ss.members = ss.members[:last]
	delete(ss.pos, id)
	return true
}

// at returns the member at position idx
func (ss *switchSet) at(idx int) int {
	return ss.members[idx]
}

// pick returns a uniformly chosen member; the set must not be empty
func (ss *switchSet) pick(rng RandSource) int {
	return ss.members[randIndex(rng, len(ss.members))]
}

// items returns a copy of the members in set order
func (ss *switchSet) items() []int {
	rtn := make([]int, len(ss.members))
	copy(rtn, ss.members)
	return rtn
}
