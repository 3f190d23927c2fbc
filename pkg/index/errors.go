package index

// InvalidInputError reports malformed arguments at a core boundary: an empty
// query or negative weight during insertion, or a non-positive k when
// selecting suggestions. It is surfaced synchronously and never retried
// internally, since retrying the same input cannot succeed. Match it with
// errors.As.
type InvalidInputError struct {
	Op     string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input in " + e.Op + ": " + e.Reason
}
