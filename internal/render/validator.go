package render

import (
	"math"

	"github.com/rowanvale/html2img/internal/config"
)

// Validate checks the numeric fields of a request against the configured
// limits. Checks run in a fixed order (width, height, scale, animation time)
// so the first violated bound determines the reported message. No side
// effects; callers must not assume any invariant before this has passed.
func Validate(req *Request, limits config.Limits) *Error {
	if req.Width <= 0 || req.Width > limits.MaxDimension {
		return Validationf("width must be between 1 and %d", limits.MaxDimension)
	}
	if req.Height <= 0 || req.Height > limits.MaxDimension {
		return Validationf("height must be between 1 and %d", limits.MaxDimension)
	}
	if math.IsNaN(req.Scale) || math.IsInf(req.Scale, 0) || req.Scale <= 0 || req.Scale > limits.MaxScale {
		return Validationf("scale must be within (0, %g]", limits.MaxScale)
	}
	if math.IsNaN(req.AnimationTime) || math.IsInf(req.AnimationTime, 0) ||
		req.AnimationTime < 0 || req.AnimationTime > limits.MaxAnimationTime {
		return Validationf("animation_time must be between 0 and %g seconds", limits.MaxAnimationTime)
	}
	return nil
}
