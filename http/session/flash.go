package session

const (
	// Default Flash Class
	FlashError   = "error"
	FlashInfo    = "info"
	FlashSuccess = "success"
	FlashWarning = "warning"

	// Default Flash Msg
	BadInputMsg   = "Hmm... check your form, something isn't correct."
	DefaultErrMsg = "Uh oh! We've run into an issue."
)

// A Flash is a message shown once, on the next page rendered.
type Flash struct {
	Class string `json:"class"`
	Msg   string `json:"msg"`
}
