package ebitenmap

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const fpsRefresh = 0.5

// fpsOverlay shows FPS and TPS in the top right corner. The text is
// redrawn every fpsRefresh seconds.
type fpsOverlay struct {
	img     *ebiten.Image
	elapsed float64
	text    string
}

func (o *fpsOverlay) update(dt float64, fps, tps float64) {
	o.elapsed += dt
	if o.text != "" && o.elapsed < fpsRefresh {
		return
	}
	o.elapsed = 0
	o.text = fpsText(fps, tps)
}

func (o *fpsOverlay) draw(screen *ebiten.Image) {
	if o.img == nil {
		// 100x32 fits "FPS: 60.0\nTPS: 60.0"
		o.img = ebiten.NewImage(100, 32)
	}
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, o.text)

	var op ebiten.DrawImageOptions
	op.GeoM.Translate(float64(screen.Bounds().Dx()-o.img.Bounds().Dx()), 0)
	screen.DrawImage(o.img, &op)
}

func fpsText(fps, tps float64) string {
	return fmt.Sprintf("FPS: %.1f\nTPS: %.1f", fps, tps)
}
