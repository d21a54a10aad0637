// Package convert turns NV12 frames into displayable color.
//
// Two transforms are provided and they intentionally disagree: BT601 is the
// integer limited-range transform used by the CPU path, BT709 is the
// normalized transform run by the shader path.
package convert
