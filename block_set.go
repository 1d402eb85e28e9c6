package roundbot

// blockSet is an insertion-ordered set of handles. Iteration order is stable
// so that a tick visits blocks deterministically.
type blockSet struct {
	ids   []BlockId
	index map[BlockId]int
}

func newBlockSet() blockSet {
	return blockSet{index: make(map[BlockId]int)}
}

func (s *blockSet) add(id BlockId) {
	if _, ok := s.index[id]; ok {
		return
	}
	s.index[id] = len(s.ids)
	s.ids = append(s.ids, id)
}

// remove tolerates ids that were never added.
func (s *blockSet) remove(id BlockId) {
	i, ok := s.index[id]
	if !ok {
		return
	}
	delete(s.index, id)
	s.ids = append(s.ids[:i], s.ids[i+1:]...)
	for j := i; j < len(s.ids); j++ {
		s.index[s.ids[j]] = j
	}
}

func (s *blockSet) has(id BlockId) bool {
	_, ok := s.index[id]
	return ok
}

func (s *blockSet) len() int { return len(s.ids) }

func (s *blockSet) list() []BlockId {
	out := make([]BlockId, len(s.ids))
	copy(out, s.ids)
	return out
}
