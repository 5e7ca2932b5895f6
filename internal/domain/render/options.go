// Package render defines the resources the frame loop hands to the
// renderer: viewport size, feature options, and per-frame draw batches.
package render

// Extents2D is a size in pixels
type Extents2D struct {
	Width, Height uint32
}

// Viewports holds the host window size, synced once per frame
type Viewports struct {
	MainWindowSize Extents2D
}

// TonemapperType selects the HDR tonemapping curve
type TonemapperType int

const (
	TonemapperNone TonemapperType = iota
	TonemapperStephenHillACES
	TonemapperSimplifiedLumaACES
	TonemapperHejl2015
	TonemapperHable
	TonemapperFilmicALU
	TonemapperAutoExposureOld
	TonemapperMax
)

// String returns the display name of the tonemapper
func (t TonemapperType) String() string {
	switch t {
	case TonemapperNone:
		return "None"
	case TonemapperStephenHillACES:
		return "Stephen Hill ACES"
	case TonemapperSimplifiedLumaACES:
		return "SimplifiedLumaACES"
	case TonemapperHejl2015:
		return "Hejl 2015"
	case TonemapperHable:
		return "Hable"
	case TonemapperFilmicALU:
		return "Filmic ALU (Hable)"
	case TonemapperAutoExposureOld:
		return "Auto Exposure Old"
	default:
		return "Unknown"
	}
}

// RenderOptions are the user-facing toggles edited through the debug overlay.
// They are copied into the feature options every frame.
type RenderOptions struct {
	EnableMSAA             bool
	EnableHDR              bool
	EnableBloom            bool
	EnableTextures         bool
	EnableLighting         bool
	ShowSurfaces           bool
	ShowWireframes         bool
	ShowDebug3D            bool
	ShowText               bool
	ShowSkybox             bool
	ShowFeatureToggles     bool
	ShowShadows            bool
	BlurPassCount          int
	TonemapperType         TonemapperType
	EnableVisibilityUpdate bool
}

// Default2D returns options suited to flat scenes
func Default2D() RenderOptions {
	return RenderOptions{
		EnableMSAA:             false,
		EnableHDR:              false,
		EnableBloom:            false,
		EnableTextures:         true,
		EnableLighting:         true,
		ShowSurfaces:           true,
		ShowWireframes:         false,
		ShowDebug3D:            true,
		ShowText:               true,
		ShowSkybox:             true,
		ShowShadows:            true,
		ShowFeatureToggles:     false,
		BlurPassCount:          0,
		TonemapperType:         TonemapperNone,
		EnableVisibilityUpdate: true,
	}
}

// Default3D returns options suited to lit 3D scenes
func Default3D() RenderOptions {
	return RenderOptions{
		EnableMSAA:             true,
		EnableHDR:              false,
		EnableBloom:            true,
		EnableTextures:         true,
		EnableLighting:         true,
		ShowSurfaces:           true,
		ShowWireframes:         false,
		ShowDebug3D:            true,
		ShowText:               true,
		ShowSkybox:             true,
		ShowShadows:            true,
		ShowFeatureToggles:     true,
		BlurPassCount:          5,
		TonemapperType:         TonemapperAutoExposureOld,
		EnableVisibilityUpdate: true,
	}
}

// Preset returns the named option preset ("2d" or "3d").
// Unknown names fall back to 2d.
func Preset(name string) RenderOptions {
	if name == "3d" {
		return Default3D()
	}
	return Default2D()
}

// PipelineOptions is what the render pipeline reads
type PipelineOptions struct {
	EnableMSAA             bool
	EnableHDR              bool
	EnableBloom            bool
	EnableTextures         bool
	ShowSurfaces           bool
	ShowWireframes         bool
	ShowDebug3D            bool
	ShowText               bool
	ShowSkybox             bool
	ShowFeatureToggles     bool
	BlurPassCount          int
	TonemapperType         TonemapperType
	EnableVisibilityUpdate bool
}

// MeshOptions is what the mesh feature reads
type MeshOptions struct {
	ShowSurfaces   bool
	ShowShadows    bool
	EnableLighting bool
}

// RendererConfig holds renderer-wide switches
type RendererConfig struct {
	VisibilityUpdate bool
}

// DebugUIState tracks which debug windows are open
type DebugUIState struct {
	ShowRenderOptions bool
	ShowAssetList     bool
	ShowTonemapDebug  bool
}

// SyncTo copies the options into the feature option structs by value
func (o *RenderOptions) SyncTo(p *PipelineOptions, m *MeshOptions) {
	p.EnableMSAA = o.EnableMSAA
	p.EnableHDR = o.EnableHDR
	p.EnableBloom = o.EnableBloom
	p.EnableTextures = o.EnableTextures
	p.ShowSurfaces = o.ShowSurfaces
	p.ShowWireframes = o.ShowWireframes
	p.ShowDebug3D = o.ShowDebug3D
	p.ShowText = o.ShowText
	p.ShowSkybox = o.ShowSkybox
	p.ShowFeatureToggles = o.ShowFeatureToggles
	p.BlurPassCount = o.BlurPassCount
	p.TonemapperType = o.TonemapperType
	p.EnableVisibilityUpdate = o.EnableVisibilityUpdate

	m.ShowSurfaces = o.ShowSurfaces
	m.ShowShadows = o.ShowShadows
	m.EnableLighting = o.EnableLighting
}
