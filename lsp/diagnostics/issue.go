package diagnostics

// Issue is one structural problem found in a command. Start and End are
// offsets in the text the command was parsed from; the caller maps them
// back to original coordinates before they cross a protocol boundary.
type Issue struct {
	Message string `json:"message"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Code    string `json:"code"`
}
