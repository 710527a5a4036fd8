package rect

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// frameRing is the number of frame slots. Two slots let the CPU fill the next
// frame's vertex data while the GPU may still be reading the previous
// frame's buffer.
const frameRing = 2

// Renderer owns the GPU pipeline state for rectangle rendering: the compiled
// shader stages, the vertex layout, and the render pipeline bound to one
// output color format. Pipeline state is immutable once constructed; a new
// output format requires an explicit Resize.
//
// The renderer receives device and queue from the host application and does
// not create or own them.
type Renderer struct {
	device hal.Device
	queue  hal.Queue

	// format is the output color attachment format the pipeline targets.
	format gputypes.TextureFormat

	label           string
	initialCapacity int

	shader     hal.ShaderModule
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline

	// frames is the scratch buffer ring. Each slot pairs a CPU staging
	// slice with the GPU vertex buffer it uploads into.
	frames [frameRing]frameSlot
	slot   int

	// open tracks whether a frame is currently recording.
	open bool

	destroyed bool
}

// frameSlot is one entry of the frame ring.
type frameSlot struct {
	// scratch accumulates encoded vertices on the CPU. Reset to length
	// zero at BeginFrame, retained across frames to avoid reallocation.
	scratch []byte

	// vertBuf is the GPU vertex buffer for this slot, grown geometrically
	// when a frame's batch outgrows it. Nil until first use.
	vertBuf hal.Buffer

	// bufSize is the current byte size of vertBuf.
	bufSize uint64
}

// New creates a rectangle renderer targeting the given output color format.
// The shader is statically validated and compiled, and the render pipeline is
// built up front; there is no partial initialization. Failures wrap
// [ErrPipelineCreation].
//
// The device must support float32x2 and float32x3 vertex attributes and the
// requested format as a color attachment; the backend rejects the pipeline
// descriptor otherwise.
func New(device hal.Device, queue hal.Queue, format gputypes.TextureFormat, opts ...Option) (*Renderer, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	r := &Renderer{
		device:          device,
		queue:           queue,
		format:          format,
		label:           cfg.label,
		initialCapacity: cfg.initialCapacity,
	}

	if err := r.createShader(); err != nil {
		r.Destroy()
		return nil, fmt.Errorf("%w: %w", ErrPipelineCreation, err)
	}

	pipeline, err := r.buildPipeline(format)
	if err != nil {
		r.Destroy()
		return nil, fmt.Errorf("%w: %w", ErrPipelineCreation, err)
	}
	r.pipeline = pipeline

	slogger().Debug("rect: pipeline created", "format", format, "label", r.label)
	return r, nil
}

// Format returns the output color format the pipeline currently targets.
func (r *Renderer) Format() gputypes.TextureFormat {
	return r.format
}

// Resize rebuilds the pipeline for a new output color format, as required
// when the surface is reconfigured. Calling Resize with the current format is
// a no-op: the existing pipeline is kept untouched.
//
// On failure the previous pipeline remains bound and usable, and the error
// wraps [ErrPipelineCreation].
func (r *Renderer) Resize(format gputypes.TextureFormat) error {
	if r.destroyed {
		return ErrRendererDestroyed
	}
	if format == r.format && r.pipeline != nil {
		return nil
	}

	pipeline, err := r.buildPipeline(format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPipelineCreation, err)
	}
	if r.pipeline != nil {
		r.device.DestroyRenderPipeline(r.pipeline)
	}
	r.pipeline = pipeline
	r.format = format

	slogger().Debug("rect: pipeline rebuilt", "format", format)
	return nil
}

// Destroy releases all GPU resources held by the renderer in reverse creation
// order. Safe to call multiple times or on a partially constructed renderer.
func (r *Renderer) Destroy() {
	if r.destroyed {
		return
	}
	for i := range r.frames {
		if r.frames[i].vertBuf != nil {
			r.device.DestroyBuffer(r.frames[i].vertBuf)
			r.frames[i].vertBuf = nil
			r.frames[i].bufSize = 0
		}
		r.frames[i].scratch = nil
	}
	if r.pipeline != nil {
		r.device.DestroyRenderPipeline(r.pipeline)
		r.pipeline = nil
	}
	if r.pipeLayout != nil {
		r.device.DestroyPipelineLayout(r.pipeLayout)
		r.pipeLayout = nil
	}
	if r.shader != nil {
		r.device.DestroyShaderModule(r.shader)
		r.shader = nil
	}
	r.destroyed = true
}

// createShader validates and compiles the rectangle shader module and creates
// the pipeline layout. The pipeline binds no resources, so the layout is
// empty: everything the shader needs arrives through vertex attributes.
func (r *Renderer) createShader() error {
	if err := validateShaderSource(); err != nil {
		return err
	}

	shader, err := r.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  r.label + "_shader",
		Source: hal.ShaderSource{WGSL: rectShaderSource},
	})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}
	r.shader = shader

	pipeLayout, err := r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: r.label + "_pipe_layout",
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	r.pipeLayout = pipeLayout

	return nil
}

// buildPipeline creates the render pipeline for the given output format:
// triangle list, no culling (winding is CCW regardless), opaque color target
// with no blending, single sample. Rectangles draw at a fixed depth, so there
// is no depth/stencil state.
func (r *Renderer) buildPipeline(format gputypes.TextureFormat) (hal.RenderPipeline, error) {
	pipeline, err := r.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  r.label + "_pipeline",
		Layout: r.pipeLayout,
		Vertex: hal.VertexState{
			Module:     r.shader,
			EntryPoint: "vs_main",
			Buffers:    vertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     r.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    format,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create render pipeline: %w", err)
	}
	return pipeline, nil
}
