package types

// Clock carries the cluster timestamp an instruction observes. Handlers
// receive it from the processor rather than reading wall time directly so
// tests can pin the instant.
type Clock struct {
	UnixTimestamp int64 `json:"unixTimestamp"`
}
