package indexer

// Status is a point-in-time summary of the indexer for health reporting.
type Status struct {
	State      string `json:"state"`
	Root       string `json:"root,omitempty"`
	Generation uint64 `json:"generation,omitempty"`
	Categories int    `json:"categories"`
	Entries    int    `json:"entries"`
	LastError  string `json:"lastError,omitempty"`
}

// Status returns the current indexer summary.
func (ix *Indexer) Status() Status {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	st := Status{
		State: ix.state.String(),
		Root:  ix.root,
	}
	if ix.snapshot != nil {
		st.Generation = ix.snapshot.Generation
		st.Categories = len(ix.snapshot.Categories)
		for _, c := range ix.snapshot.Categories {
			st.Entries += len(c.Entries)
		}
	}
	if ix.lastErr != nil {
		st.LastError = ix.lastErr.Error()
	}
	return st
}
