// Package panel is a small debug panel: folders of controls bound directly
// to fields of the scene's lights. Controls hold pointers and never copy or
// transform the bound values beyond clamping to their declared range.
package panel

import (
	"fmt"
	"math"

	"github.com/echoflaresat/orrery/colors"
)

// Control is a single bound widget.
type Control interface {
	Label() string
	Value() string
	// Nudge moves the value by n steps (negative n moves back).
	Nudge(n int)
}

// Adjuster is a control with a second axis of adjustment.
type Adjuster interface {
	Adjust(n int)
}

// Number binds a float64 with a range and step.
type Number struct {
	Name           string
	Min, Max, Step float64
	Target         *float64
}

func (c *Number) Label() string { return c.Name }
func (c *Number) Value() string { return fmt.Sprintf("%.1f", *c.Target) }

func (c *Number) Nudge(n int) {
	c.Set(*c.Target + float64(n)*c.Step)
}

// Set clamps v into range and snaps it to the step grid anchored at Min.
func (c *Number) Set(v float64) {
	if c.Step > 0 {
		v = c.Min + math.Round((v-c.Min)/c.Step)*c.Step
	}
	*c.Target = math.Max(c.Min, math.Min(c.Max, v))
}

// Color nudge steps: hue in degrees, saturation in [0,1].
const (
	hueStep        = 15.0
	saturationStep = 0.25
)

// Color binds a colors.Color4. Nudge rotates the hue; a grey color is
// first given one saturation step so the rotation shows. Adjust moves the
// saturation, down to grey.
type Color struct {
	Name   string
	Target *colors.Color4
}

func (c *Color) Label() string { return c.Name }
func (c *Color) Value() string { return c.Target.String() }

func (c *Color) Nudge(n int) {
	if n == 0 {
		return
	}
	if c.Target.Saturation() < 1e-6 {
		*c.Target = c.Target.WithSaturation(saturationStep)
	}
	*c.Target = c.Target.RotateHue(float64(n) * hueStep)
}

func (c *Color) Adjust(n int) {
	*c.Target = c.Target.WithSaturation(c.Target.Saturation() + float64(n)*saturationStep)
}

// SetHex parses and assigns a "#rrggbb" string.
func (c *Color) SetHex(s string) error {
	v, err := colors.Parse(s)
	if err != nil {
		return err
	}
	*c.Target = v
	return nil
}

// Toggle binds a bool and reports changes to OnChange.
type Toggle struct {
	Name     string
	Target   *bool
	OnChange func(bool)
}

func (c *Toggle) Label() string { return c.Name }

func (c *Toggle) Value() string {
	if *c.Target {
		return "on"
	}
	return "off"
}

// Nudge flips the value once per call regardless of direction.
func (c *Toggle) Nudge(int) {
	c.Set(!*c.Target)
}

func (c *Toggle) Set(v bool) {
	*c.Target = v
	if c.OnChange != nil {
		c.OnChange(v)
	}
}
