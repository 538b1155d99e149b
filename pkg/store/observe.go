package store

import "tableflip.dev/tally/pkg/task"

// Subscribe registers an observer of the current state. The returned channel
// immediately replays the last published value and then carries every
// subsequent successful mutation. Slow consumers are conflated to the most
// recent state rather than blocking a mutation. The cancel func removes the
// subscription and closes the channel.
func (s *Store) Subscribe() (<-chan task.State, func()) {
	ch := make(chan task.State, 1)
	ch <- s.Snapshot()

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	cancel := func() {
		s.subMu.Lock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
		s.subMu.Unlock()
	}
	return ch, cancel
}

// publish delivers a deep copy of the new state to every subscriber,
// replacing any value a subscriber has not yet consumed.
func (s *Store) publish(next task.State) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		cp := next.Clone()
		select {
		case ch <- cp:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- cp:
			default:
			}
		}
	}
}
