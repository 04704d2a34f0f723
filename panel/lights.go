package panel

import (
	"github.com/echoflaresat/orrery/scene"
)

// Folder and control labels of the light panel.
const (
	FolderSunLight     = "Sun light"
	FolderAmbientLight = "Ambient light"
	LabelIntensity     = "Intensity"
	LabelColor         = "Color"
	LabelShowHelper    = "Show helper"
)

// LightPanel is the panel bound to an orrery's lights.
type LightPanel struct {
	*Panel
	SunIntensity     *Number
	SunColor         *Color
	ShowHelper       *Toggle
	AmbientIntensity *Number

	helperVisible bool
}

// NewLightPanel binds the sun and ambient lights of s. The sun folder
// starts closed.
func NewLightPanel(s *scene.Scene) *LightPanel {
	lp := &LightPanel{Panel: New()}

	sun := lp.AddFolder(FolderSunLight)
	sun.Close()
	lp.SunIntensity = &Number{Name: LabelIntensity, Min: 0, Max: 5, Step: 0.1, Target: &s.Sun.Intensity}
	lp.SunColor = &Color{Name: LabelColor, Target: &s.Sun.Color}
	lp.ShowHelper = &Toggle{Name: LabelShowHelper, Target: &lp.helperVisible}
	sun.Add(lp.SunIntensity)
	sun.Add(lp.SunColor)
	sun.Add(lp.ShowHelper)

	ambient := lp.AddFolder(FolderAmbientLight)
	lp.AmbientIntensity = &Number{Name: LabelIntensity, Min: 0, Max: 10, Step: 0.1, Target: &s.Ambient.Intensity}
	ambient.Add(lp.AmbientIntensity)

	return lp
}

// HelperVisible reports whether the light helper should be drawn.
func (lp *LightPanel) HelperVisible() bool {
	return lp.helperVisible
}
