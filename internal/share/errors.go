package share

import "errors"

// Failure kinds. Every pipeline error wraps exactly one of these, so callers
// match with errors.Is and log with KindOf.
var (
	ErrClassification    = errors.New("no supported attachment in share payload")
	ErrExtraction        = errors.New("could not extract a link from share payload")
	ErrDecode            = errors.New("could not decode image")
	ErrCredentialMissing = errors.New("upload token is not configured")
	ErrUploadFailure     = errors.New("image upload failed")
	ErrCallbackBuild     = errors.New("could not build callback url")
	ErrDeliveryFailure   = errors.New("no strategy could open the callback url")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrClassification, "classification"},
	{ErrExtraction, "extraction"},
	{ErrDecode, "decode"},
	{ErrCredentialMissing, "credential_missing"},
	{ErrUploadFailure, "upload"},
	{ErrCallbackBuild, "callback_build"},
	{ErrDeliveryFailure, "delivery"},
}

// KindOf returns a stable label for err's failure kind: "none" for nil and
// "unknown" for errors outside the taxonomy.
func KindOf(err error) string {
	if err == nil {
		return "none"
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "unknown"
}
