package index

// Status distinguishes the three load phases a view has to render differently.
type Status string

const (
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusFailed  Status = "failed"
)

// State is the load state of the index as seen by one view.
type State struct {
	Status Status
	Index  *Index
	Err    error
}

func Loading() State { return State{Status: StatusLoading} }

func Loaded(ix *Index) State { return State{Status: StatusLoaded, Index: ix} }

func Failed(err error) State { return State{Status: StatusFailed, Err: err} }
