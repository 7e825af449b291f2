package entities

// Diff is the outcome of reconciling one source's crawl result against the
// previously persisted state.
type Diff struct {
	New      []Posting
	Updated  []Posting
	Reopened []Posting
	Closed   []Posting
}

func (d Diff) Empty() bool {
	return len(d.New) == 0 && len(d.Updated) == 0 && len(d.Reopened) == 0 && len(d.Closed) == 0
}

// Summary is the compact form persisted as run metadata.
type DiffSummary struct {
	New      int `json:"new"`
	Updated  int `json:"updated"`
	Reopened int `json:"reopened"`
	Closed   int `json:"closed"`
}

func (d Diff) Summary() DiffSummary {
	return DiffSummary{
		New:      len(d.New),
		Updated:  len(d.Updated),
		Reopened: len(d.Reopened),
		Closed:   len(d.Closed),
	}
}
