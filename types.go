package wirebind

// UnknownPolicy controls how top-level keys not consumed by any field are handled.
type UnknownPolicy int

const (
	UnknownStrip       UnknownPolicy = iota // Drop unknown keys (default).
	UnknownStrict                           // Report each unknown key as an unknown_key failure.
	UnknownPassthrough                      // Copy unknown keys into the internal mapping unchanged.
)

func (p UnknownPolicy) String() string {
	switch p {
	case UnknownStrict:
		return "strict"
	case UnknownPassthrough:
		return "passthrough"
	}
	return "strip"
}

// ParseUnknownPolicy maps "strip", "strict" or "passthrough" to a policy.
// The empty string selects UnknownStrip.
func ParseUnknownPolicy(s string) (UnknownPolicy, bool) {
	switch s {
	case "", "strip":
		return UnknownStrip, true
	case "strict":
		return UnknownStrict, true
	case "passthrough":
		return UnknownPassthrough, true
	}
	return UnknownStrip, false
}
