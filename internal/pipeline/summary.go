package pipeline

import "github.com/GriffinCanCode/ShareBridge/internal/share"

// Summary is the wire form of a Result, shared by the CLI's --json output
// and the share-target endpoint.
type Summary struct {
	InvocationID string `json:"invocation_id"`
	Kind         string `json:"kind,omitempty"`
	Outcome      string `json:"outcome"`
	Stage        string `json:"stage"`
	Failure      string `json:"failure,omitempty"`
	Error        string `json:"error,omitempty"`
	TargetURL    string `json:"target_url,omitempty"`
	DeepLink     string `json:"deep_link,omitempty"`
}

// Summary flattens r for encoding. Failure and Error stay empty on success.
func (r Result) Summary() Summary {
	s := Summary{
		InvocationID: r.InvocationID.String(),
		Kind:         string(r.Kind),
		Outcome:      string(r.Outcome),
		Stage:        string(r.Stage),
		TargetURL:    r.TargetURL,
		DeepLink:     r.DeepLink,
	}
	if r.Err != nil {
		s.Failure = share.KindOf(r.Err)
		s.Error = r.Err.Error()
	}
	return s
}
