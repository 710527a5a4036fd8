package rect

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/gogpu/naga"
)

// Embedded WGSL shader source for the rectangle pipeline.

//go:embed shaders/rect.wgsl
var rectShaderSource string

// validateShaderSource statically checks the rectangle shader by compiling it
// through naga. The HAL backend receives the WGSL text as-is; running naga
// first surfaces a malformed shader as a creation-time error instead of a
// backend-dependent failure later.
func validateShaderSource() error {
	if rectShaderSource == "" {
		return errors.New("rect shader source is empty")
	}
	if _, err := naga.Compile(rectShaderSource); err != nil {
		return fmt.Errorf("compile rect shader: %w", err)
	}
	return nil
}
