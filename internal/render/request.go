package render

// Default render tuning applied when a request leaves a field unset.
const (
	DefaultScale         = 1.0
	DefaultAnimationTime = 5.0 // seconds
)

// Request is one render call, as received from any of the entry points.
// All fields are untrusted until Validate has passed.
type Request struct {
	// HTML is the raw template text.
	HTML string `json:"html"`
	// Width and Height are the output pixel dimensions.
	Width  int `json:"width"`
	Height int `json:"height"`
	// Scale is the painter scale factor.
	Scale float64 `json:"scale"`
	// AnimationTime is the virtual clock fed to the layout engine.
	AnimationTime float64 `json:"animation_time"`
	// FontPaths holds font file names (no directory separators) resolved
	// against the configured fonts directory. nil means no fonts.
	FontPaths []string `json:"font_paths"`
	// Data holds arbitrary caller-supplied template variables.
	Data any `json:"data"`
}

// BuildContext merges the request dimensions with the caller-supplied data
// into the template rendering context. Caller keys win over width/height.
// Data that is not a key-value mapping is nested whole under "data" so any
// top-level JSON stays representable without collision ambiguity.
func BuildContext(req *Request) map[string]any {
	ctx := map[string]any{
		"width":  req.Width,
		"height": req.Height,
	}

	switch data := req.Data.(type) {
	case nil:
	case map[string]any:
		for key, value := range data {
			ctx[key] = value
		}
	default:
		ctx["data"] = data
	}

	return ctx
}
