package detect

// Summary accounts for one Run.
type Summary struct {
	Batches    uint64           `json:"batches"`
	LastTime   uint64           `json:"last_time"`
	Truncated  bool             `json:"truncated,omitempty"`
	Interfaces []InterfaceStats `json:"interfaces"`
	Skipped    []string         `json:"skipped,omitempty"`
}

// InterfaceStats counts outcomes per sampling edge. Records + Filtered is the
// number of detected transactions.
type InterfaceStats struct {
	Name          string `json:"name"`
	Edges         uint64 `json:"edges"`
	Records       uint64 `json:"records"`
	Deasserted    uint64 `json:"deasserted"`
	Indeterminate uint64 `json:"indeterminate"`
	PayloadErrors uint64 `json:"payload_errors"`
	Filtered      uint64 `json:"filtered"`
}

func (s *Summary) Records() uint64 {
	var n uint64
	for _, st := range s.Interfaces {
		n += st.Records
	}
	return n
}

func (s *Summary) observe(t *Tracker, o Outcome) {
	st := &s.Interfaces[t.index]
	st.Edges++
	switch o.Verdict {
	case Fired:
		st.Records++
	case Deasserted:
		st.Deasserted++
	case Indeterminate:
		st.Indeterminate++
	case PayloadFailed:
		st.PayloadErrors++
	case Filtered:
		st.Filtered++
	}
}
