package rect

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle provides GPU device access from the host application.
//
// The host (window shell, app framework) implements DeviceHandle and hands it
// to the renderer's integration layer. The renderer receives the device and
// does not create one: GPU resources are shared across the whole application
// and device lifetime stays with the host.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider, keeping this
// package compatible with the gpucontext ecosystem under a local name.
type DeviceHandle = gpucontext.DeviceProvider

// HasGPU reports whether the handle carries a usable GPU device. A nil handle
// or a handle returning a nil device (such as NullDeviceHandle) means the
// caller should fall back to CPU rendering.
func HasGPU(h DeviceHandle) bool {
	return h != nil && h.Device() != nil
}

// NullDeviceHandle is a DeviceHandle with no GPU behind it, for CPU-only
// paths and tests.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns the undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// Ensure NullDeviceHandle implements DeviceHandle.
var _ DeviceHandle = NullDeviceHandle{}
