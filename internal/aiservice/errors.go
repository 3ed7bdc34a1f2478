package aiservice

import "errors"

// ErrMissingToken means no Hugging Face token is configured.
var ErrMissingToken = errors.New("HF_TOKEN not set: export HF_TOKEN or HUGGINGFACEHUB_API_TOKEN")

// IsMissingToken reports whether err is ErrMissingToken.
func IsMissingToken(err error) bool { return errors.Is(err, ErrMissingToken) }
