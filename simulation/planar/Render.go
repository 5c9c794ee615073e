package planar

import (
	"github.com/fogleman/gg"
)

// worldToPixelCoord maps world (x, y) coordinates to viewport pixels.
// The camera target is centred in the viewport and the horizontal
// field of view spans twice the camera distance.
func (p *Planar) worldToPixelCoord(x, y float64) (float64, float64) {
	scale := float64(ViewportW) / (2.0 * p.camDistance)

	pixelX := float64(ViewportW)/2.0 + (x-p.camTarget.AtVec(0))*scale
	pixelY := float64(ViewportH)/2.0 - (y-p.camTarget.AtVec(1))*scale

	return pixelX, pixelY
}

// Render draws a top-down view of the current scene to a PNG file at
// path. Rendering while suppressed by NoRendering is a no-op.
func (p *Planar) Render(path string) error {
	if !p.rendering {
		return nil
	}

	scale := float64(ViewportW) / (2.0 * p.camDistance)

	dc := gg.NewContext(ViewportW, ViewportH)

	// Bodies are drawn in creation order: the plane and table form
	// the backdrop, cylinders are drawn on top
	for _, name := range p.names {
		b := p.bodies[name]

		switch b.kind {
		case plane:
			dc.SetRGBA(b.colour[0], b.colour[1], b.colour[2], b.colour[3])
			dc.Clear()

		case table:
			pos := b.b2.GetPosition()
			x, y := p.worldToPixelCoord(pos.X-b.halfLength,
				pos.Y+b.halfWidth)
			dc.DrawRectangle(x, y, 2.0*b.halfLength*scale,
				2.0*b.halfWidth*scale)
			dc.SetRGBA(b.colour[0], b.colour[1], b.colour[2], b.colour[3])
			dc.Fill()

		case cylinder:
			pos := b.b2.GetPosition()
			x, y := p.worldToPixelCoord(pos.X, pos.Y)
			dc.DrawCircle(x, y, b.radius*scale)
			dc.SetRGBA(b.colour[0], b.colour[1], b.colour[2], b.colour[3])
			dc.Fill()
		}
	}

	return dc.SavePNG(path)
}
