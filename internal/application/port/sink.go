package port

// Sink receives the result line of a run.
type Sink interface {
	// WriteLine writes one result line followed by a newline
	WriteLine(line string) error
}
