package render

import (
	"context"
	"image"
	"math"
	"runtime"
	"sort"

	"github.com/echoflaresat/orrery/colors"
	"github.com/echoflaresat/orrery/scene"
	"github.com/echoflaresat/orrery/vectors"
	"golang.org/x/sync/errgroup"
)

// Options controls output size and quality.
type Options struct {
	Width, Height int
	Supersample   int // n×n samples per pixel
	Workers       int // parallel rows; <= 0 uses GOMAXPROCS
	// ShadowSamples is the n of an n×n grid of shadow rays per shaded point.
	// 1 gives hard shadows; larger values soften the penumbra.
	ShadowSamples int
	// ShadowSoftness is the angular spread, in radians, of the shadow rays.
	ShadowSoftness float64
}

func DefaultOptions() Options {
	return Options{
		Width:          640,
		Height:         360,
		Supersample:    1,
		ShadowSamples:  2,
		ShadowSoftness: 0.01,
	}
}

// Renderer ray-casts a scene into an image.
type Renderer struct {
	opts Options
}

func NewRenderer(opts Options) *Renderer {
	r := &Renderer{}
	r.SetOptions(opts)
	return r
}

// SetOptions replaces the options, filling in defaults for zero values.
func (r *Renderer) SetOptions(opts Options) {
	def := DefaultOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.Supersample <= 0 {
		opts.Supersample = 1
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.ShadowSamples <= 0 {
		opts.ShadowSamples = 1
	}
	r.opts = opts
}

func (r *Renderer) Options() Options {
	return r.opts
}

// Resize changes the output surface size.
func (r *Renderer) Resize(width, height int) {
	o := r.opts
	o.Width, o.Height = width, height
	r.SetOptions(o)
}

// frame is the per-render snapshot shared by all workers. It is read-only.
type frame struct {
	instances     []scene.Instance
	casters       []int
	background    colors.Color4
	sun           scene.DirectionalLight
	sunDir        vectors.Vec3
	ambient       colors.Color4
	shadowOffsets [][2]float64
	lightU        vectors.Vec3
	lightV        vectors.Vec3
	softness      float64
}

func (r *Renderer) snapshot(s *scene.Scene) *frame {
	f := &frame{
		instances:  s.Instances(),
		background: s.Background,
		sun:        *s.Sun,
		sunDir:     s.Sun.Direction(),
		ambient:    s.Ambient.Radiance(),
		softness:   r.opts.ShadowSoftness,
	}
	for i, inst := range f.instances {
		if inst.Mesh.CastShadow && !inst.Mesh.Material.Transparent() {
			f.casters = append(f.casters, i)
		}
	}
	f.shadowOffsets = GenerateSupersamplingOffsets(r.opts.ShadowSamples)
	f.lightU = f.sunDir.Orthogonal()
	f.lightV = f.sunDir.Cross(f.lightU).Normalize()
	return f
}

// Render draws s as seen from cam. Rows are rendered in parallel; ctx
// cancellation stops the remaining rows and returns ctx's error.
func (r *Renderer) Render(ctx context.Context, s *scene.Scene, cam *Camera) (*image.NRGBA, error) {
	W, H := r.opts.Width, r.opts.Height
	f := r.snapshot(s)
	offsets := GenerateSupersamplingOffsets(r.opts.Supersample)
	inv := 1.0 / float64(len(offsets))

	img := image.NewNRGBA(image.Rect(0, 0, W, H))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for y := 0; y < H; y++ {
		y := y
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for x := 0; x < W; x++ {
				accum := colors.Color4{}
				for _, off := range offsets {
					dir := cam.ComputeRay(float64(x)+off[0], float64(y)+off[1], W, H)
					accum = accum.Add(f.trace(Ray{Origin: cam.Position, Direction: dir}))
				}
				img.SetNRGBA(x, y, accum.Scale(inv).Clamp01().ToNRGBA())
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return img, nil
}

// trace returns the composited color seen along ray.
func (f *frame) trace(ray Ray) colors.Color4 {
	var hits []Hit
	nearestOpaque := math.Inf(1)
	var opaque *Hit

	for i := range f.instances {
		inst := &f.instances[i]
		h, ok := intersect(ray, inst, hitEpsilon)
		if !ok {
			continue
		}
		if inst.Mesh.Material.Transparent() {
			hits = append(hits, h)
			continue
		}
		if h.T < nearestOpaque {
			nearestOpaque = h.T
			hc := h
			opaque = &hc
		}
	}

	out := f.background
	if opaque != nil {
		out = f.shade(ray, *opaque)
	}

	// composite transparent surfaces in front of the opaque hit, far to near
	sort.Slice(hits, func(i, j int) bool { return hits[i].T > hits[j].T })
	for _, h := range hits {
		if h.T >= nearestOpaque {
			continue
		}
		out = f.shade(ray, h).Over(out)
	}
	out.A = 1
	return out
}

// shade evaluates the material at h. The returned alpha is the material opacity.
func (f *frame) shade(ray Ray, h Hit) colors.Color4 {
	mat := h.Instance.Mesh.Material
	albedo := mat.Color
	if mat.Map.Valid() {
		albedo = albedo.Mul(mat.Map.Sample(h.Local))
	}
	if mat.Shading == scene.ShadingBasic {
		return albedo.WithAlpha(mat.Opacity)
	}

	n := h.Normal
	l := f.sunDir
	radiance := f.sun.Radiance()

	out := albedo.Mul(f.ambient)

	nDotL := n.Dot(l)
	if nDotL > 0 {
		vis := 1.0
		if f.sun.CastShadow && h.Instance.Mesh.ReceiveShadow {
			vis = f.visibility(h.Point.Add(n.Scale(hitEpsilon * 10)))
		}
		if vis > 0 {
			out = out.AddRGB(albedo.Mul(radiance).ScaleRGB(nDotL * vis))

			v := ray.Direction.Scale(-1)
			half := l.Add(v).Normalize()
			spec := math.Pow(Clip(n.Dot(half), 0, 1), math.Max(mat.Shininess, 1))
			out = out.AddRGB(mat.Specular.Mul(radiance).ScaleRGB(spec * vis))
		}
	}
	return out.WithAlpha(mat.Opacity)
}

// visibility is the fraction of shadow rays from p that reach the light.
func (f *frame) visibility(p vectors.Vec3) float64 {
	if len(f.casters) == 0 {
		return 1
	}
	lit := 0
	for _, off := range f.shadowOffsets {
		dir := f.sunDir
		if len(f.shadowOffsets) > 1 {
			jitter := f.lightU.Scale(off[0] * 2 * f.softness).Add(f.lightV.Scale(off[1] * 2 * f.softness))
			dir = dir.Add(jitter).Normalize()
		}
		if !f.occluded(Ray{Origin: p, Direction: dir}) {
			lit++
		}
	}
	return float64(lit) / float64(len(f.shadowOffsets))
}

func (f *frame) occluded(ray Ray) bool {
	for _, i := range f.casters {
		if _, ok := intersect(ray, &f.instances[i], hitEpsilon); ok {
			return true
		}
	}
	return false
}

// Clip clamps x into the inclusive range [min, max].
func Clip(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}

// GenerateSupersamplingOffsets returns n×n offsets in [-0.5, +0.5] for
// supersampling, as pairs (dx, dy) with pixel-center spacing.
func GenerateSupersamplingOffsets(n int) [][2]float64 {
	if n <= 0 {
		n = 1
	}
	step := 1.0 / float64(n)
	out := make([][2]float64, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			dx := (float64(i)+0.5)*step - 0.5
			dy := (float64(j)+0.5)*step - 0.5
			out = append(out, [2]float64{dx, dy})
		}
	}
	return out
}
