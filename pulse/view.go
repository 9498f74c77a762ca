package pulse

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/oliverbestmann/webgpu/wgpu"
)

// ErrUnsupportedFormat is returned if the surface can not present
// textures of the requested pixel format.
var ErrUnsupportedFormat = errors.New("surface format not supported")

// View is the display surface a Context renders to. It implements Layer.
type View struct {
	*Context

	surfaceConfig *wgpu.SurfaceConfiguration
}

var _ Layer = (*View)(nil)

// NewView configures the surface of the given context with a fixed pixel format.
// Textures of the surface can only be used as render attachments, they can not
// be sampled or read back.
func NewView(dev *Context, width, height uint32) (*View, error) {
	st := &View{Context: dev}

	// Print the available render formats
	caps := dev.Surface.GetCapabilities(dev.Adapter)
	slog.Info("Available surface formats", slog.Any("formats", caps.Formats))

	format := wgpu.TextureFormatBGRA8Unorm
	if !slices.Contains(caps.Formats, format) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	if len(caps.AlphaModes) == 0 {
		return nil, errors.New("surface reports no alpha modes")
	}

	st.surfaceConfig = &wgpu.SurfaceConfiguration{
		Usage:  wgpu.TextureUsageRenderAttachment,
		Format: format,

		// presentation is synchronized with the vertical refresh
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}

	if err := st.Configure(width, height); err != nil {
		return nil, err
	}

	return st, nil
}

func (vs *View) PixelFormat() wgpu.TextureFormat {
	return vs.surfaceConfig.Format
}

// Configure sizes the surface to the given framebuffer size.
func (vs *View) Configure(width, height uint32) error {
	if width == 0 || height == 0 {
		return fmt.Errorf("invalid surface size %dx%d", width, height)
	}

	slog.Debug("Configure surface",
		slog.Int("width", int(width)),
		slog.Int("height", int(height)),
	)

	vs.surfaceConfig.Width = width
	vs.surfaceConfig.Height = height
	vs.Surface.Configure(vs.Device, vs.surfaceConfig)

	return nil
}

func (vs *View) NextDrawable() (Drawable, bool) {
	texture, err := vs.Surface.GetCurrentTexture()
	if err != nil {
		slog.Debug("Surface texture not available", slog.String("reason", err.Error()))
		return nil, false
	}

	textureGuard := NewReleaseGuard(texture)
	defer textureGuard.Release()

	view, err := texture.TryCreateView(nil)
	if err != nil {
		slog.Warn("Create view for surface texture", slog.String("err", err.Error()))
		return nil, false
	}

	// the drawable owns the texture from now on
	textureGuard.Keep()

	drawable := &surfaceDrawable{
		surface: vs.Surface,
		texture: texture,
		view:    view,
	}

	return drawable, true
}

type surfaceDrawable struct {
	surface *wgpu.Surface
	texture *wgpu.Texture
	view    *wgpu.TextureView

	presented bool
}

func (d *surfaceDrawable) present() {
	if d.presented {
		return
	}

	d.surface.Present()
	d.presented = true
}

func (d *surfaceDrawable) Release() {
	if d.view != nil {
		d.view.Release()
		d.view = nil
	}

	// we do not need to release the screen if present was successful
	if d.texture != nil && !d.presented {
		d.texture.Release()
	}

	d.texture = nil
}
