package session

// Stats are derived from the ledger on every read; nothing is cached.
type Stats struct {
	Count   int     `json:"count"`
	Total   float64 `json:"total"`
	Average float64 `json:"average"`
	// ByRank[r] counts entries classified at hand rank r (1..10); index 0
	// is unused. Entries without a parsed hand are not counted here.
	ByRank [11]int `json:"byRank"`
	Best   *Entry  `json:"best,omitempty"`
}

func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	var st Stats
	st.Count = len(s.entries)
	for i := range s.entries {
		e := &s.entries[i]
		st.Total += e.Amount
		if e.Hand == nil {
			continue
		}
		r := int(e.Hand.Rank)
		if r >= 1 && r <= 10 {
			st.ByRank[r]++
		}
		if st.Best == nil || e.Hand.Rank > st.Best.Hand.Rank {
			cp := *e
			st.Best = &cp
		}
	}
	if st.Count > 0 {
		st.Average = st.Total / float64(st.Count)
	}
	return st
}
