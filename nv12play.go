// Package nv12play plays raw NV12 video. A Player reads fixed size frames
// from a source, converts each one with the selected Renderer and presents
// it on a gpu.Device, pacing frames against a Clock while draining host
// events.
package nv12play
