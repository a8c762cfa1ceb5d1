package render

const watermarkMargin = 12

// drawWatermark writes the overlay text bottom-right, dark over light
// backgrounds and light otherwise.
func (e *Engine) drawWatermark(fc *frameContext, light bool) {
	if e.watermark == "" {
		return
	}
	tw, th := fc.s.MeasureText(e.watermark)
	x := fc.w - tw - watermarkMargin
	y := fc.h - th - watermarkMargin
	c := rgba(255, 255, 255, 0.35)
	if light {
		c = rgba(0, 0, 0, 0.35)
	}
	fc.s.DrawText(e.watermark, x, y, c)
}
