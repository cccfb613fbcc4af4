package vision

import "context"

// DefaultAnalyzePrompt is used when the caller supplies no prompt.
const DefaultAnalyzePrompt = "Describe this image in detail."

// ComparePrompt is the fixed prompt for two-image comparison.
const ComparePrompt = "Compare these two images and describe their differences."

// Image is one inline image payload sent to the model.
type Image struct {
	Data     []byte
	MIMEType string
}

// Describer generates text from an ordered [prompt, image...] input. One
// outbound call per invocation; no retries.
type Describer interface {
	Describe(ctx context.Context, prompt string, images []Image) (string, error)
}
