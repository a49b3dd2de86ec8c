package scene

import (
	"github.com/akmonengine/gimbal/entity"
	"github.com/akmonengine/gimbal/orientation"
	"github.com/go-gl/mathgl/mgl64"
)

// Particles is the placement of a particle system. Emission is left to the
// renderer; only the transform and the culling volume live here.
type Particles struct {
	entity.Base
	orientation.Orientation

	hidden      bool
	frustumCull bool
	min, max    mgl64.Vec3

	world orientation.Cache
	scene *Scene
}

func NewParticles(id uint32) *Particles {
	p := &Particles{frustumCull: true}
	p.Base = entity.NewBase(id, p.destroy)
	p.Orientation.Init(p)

	return p
}

func (p *Particles) destroy() {
	if p.scene != nil {
		p.scene.Particles.Remove(p.ID())
		p.scene = nil
	}
}

func (p *Particles) OnStateChange(change orientation.StateChange) {
	p.world.Invalidate()
}

func (p *Particles) Show()        { p.hidden = false }
func (p *Particles) Hide()        { p.hidden = true }
func (p *Particles) Hidden() bool { return p.hidden }

func (p *Particles) EnableFrustumCulling()  { p.frustumCull = true }
func (p *Particles) DisableFrustumCulling() { p.frustumCull = false }
func (p *Particles) FrustumCulling() bool   { return p.frustumCull }

// SetBounds sets the local box the particles stay in
func (p *Particles) SetBounds(min, max mgl64.Vec3) {
	p.min, p.max = min, max
}

func (p *Particles) Bounds() (min, max mgl64.Vec3) {
	return p.min, p.max
}

// WorldMatrix returns the cached binding × transformation matrix
func (p *Particles) WorldMatrix() mgl64.Mat4 {
	return p.world.Resolve(func() mgl64.Mat4 {
		m := p.ComputeTransformation()
		if p.IsBound() {
			m = p.BindingMatrix().Mul4(m)
		}
		return m
	})
}

func (p *Particles) InCameraView(cam *Camera) bool {
	center, halfSize := transformBounds(p.WorldMatrix(), p.min, p.max)
	return cam.CheckBoxInFrustum(center, halfSize)
}

func (p *Particles) visible(cam *Camera) bool {
	if p.hidden {
		return false
	}

	return !p.frustumCull || p.InCameraView(cam)
}
