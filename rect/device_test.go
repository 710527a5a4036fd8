package rect

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestHasGPUNil(t *testing.T) {
	if HasGPU(nil) {
		t.Error("expected HasGPU(nil) to be false")
	}
}

func TestNullDeviceHandle(t *testing.T) {
	var h DeviceHandle = NullDeviceHandle{}

	if HasGPU(h) {
		t.Error("expected HasGPU to be false for the null device")
	}
	if h.Device() != nil {
		t.Error("expected nil Device")
	}
	if h.Queue() != nil {
		t.Error("expected nil Queue")
	}
	if h.Adapter() != nil {
		t.Error("expected nil Adapter")
	}
	if h.SurfaceFormat() != gputypes.TextureFormatUndefined {
		t.Errorf("expected undefined surface format, got %v", h.SurfaceFormat())
	}
}
