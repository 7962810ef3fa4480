package types

// LookupStatus discriminates the outcome of a single case lookup. The
// title/details text keeps the sentinel phrasing the frontend already
// understands; the status lets callers branch without parsing it.
type LookupStatus string

const (
	LookupStatusOK       LookupStatus = "ok"
	LookupStatusNotFound LookupStatus = "not_found"
	LookupStatusTimeout  LookupStatus = "timeout"
	LookupStatusError    LookupStatus = "error"
)

// IsValid checks if the lookup status is valid
func (x LookupStatus) IsValid() bool {
	switch x {
	case LookupStatusOK,
		LookupStatusNotFound,
		LookupStatusTimeout,
		LookupStatusError:
		return true
	default:
		return false
	}
}

// IsFailure reports whether the lookup did not produce usable details.
func (x LookupStatus) IsFailure() bool {
	return x != LookupStatusOK
}

// String returns the string representation of the lookup status
func (x LookupStatus) String() string {
	return string(x)
}
