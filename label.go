package needle

// LabelKind names the GPU object a debug label is attached to.
type LabelKind uint8

const (
	LabelDevice LabelKind = iota
	LabelPipelineLayout
	LabelPipeline
	LabelCommandEncoder
	LabelRenderPass
	LabelRenderer
	LabelShader
	LabelTexture
	LabelSampler
	LabelVertexBuffer
	LabelIndexBuffer
	LabelUniformBuffer
	LabelBindGroupLayout
	LabelBindGroup
)

var labelSuffixes = [...]string{
	LabelDevice:          "Device",
	LabelPipelineLayout:  "Pipeline Layout",
	LabelPipeline:        "Pipeline",
	LabelCommandEncoder:  "Command Encoder",
	LabelRenderPass:      "Render Pass",
	LabelRenderer:        "Renderer",
	LabelShader:          "Shader",
	LabelTexture:         "Texture",
	LabelSampler:         "Sampler",
	LabelVertexBuffer:    "Vertex Buffer",
	LabelIndexBuffer:     "Index Buffer",
	LabelUniformBuffer:   "Uniform Buffer",
	LabelBindGroupLayout: "Bind Group Layout",
	LabelBindGroup:       "Bind Group",
}

// Label returns the debug label for a GPU object, e.g.
// Label(LabelVertexBuffer, "Background") is "Background Vertex Buffer".
// An empty name yields the bare suffix, except for pipelines which read
// "Render Pipeline".
func Label(kind LabelKind, name string) string {
	suffix := "Object"
	if int(kind) < len(labelSuffixes) {
		suffix = labelSuffixes[kind]
	}
	if name == "" {
		if kind == LabelPipeline {
			return "Render Pipeline"
		}
		return suffix
	}
	return name + " " + suffix
}
