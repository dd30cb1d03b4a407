package kg

// Event describes one cache operation for audit purposes.
type Event struct {
	Op      string // which operation ran
	Token   string // canonical signature token, empty for Clear
	Outcome string // what the operation observed or did
}

// Operation names.
const (
	OpHas   = "has"
	OpGet   = "get"
	OpPut   = "put"
	OpClear = "clear"
)

// Outcome values.
const (
	OutcomeHit       = "hit"
	OutcomeMiss      = "miss"
	OutcomeInserted  = "inserted"
	OutcomeDuplicate = "duplicate"
	OutcomeCleared   = "cleared"
)

// Recorder receives cache events. Implementations must be safe for
// concurrent use. Recording is best-effort from the store's point of
// view: errors are logged, never propagated to cache callers.
type Recorder interface {
	Record(Event) error
}
