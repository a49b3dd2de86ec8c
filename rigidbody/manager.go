package rigidbody

import (
	"github.com/akmonengine/gimbal/config"
	"github.com/akmonengine/gimbal/entity"
)

// Manager is the application-owned registry of rigid bodies sharing one simulation
type Manager struct {
	registry   *entity.Registry[*RigidBody]
	simulation Simulation
	defaults   config.RigidBodyConfiguration
}

func NewManager(simulation Simulation, defaults config.RigidBodyConfiguration) *Manager {
	return &Manager{
		registry:   entity.NewRegistry[*RigidBody](),
		simulation: simulation,
		defaults:   defaults,
	}
}

// NewRigidBody creates and registers a rigid body under a fresh ID
func (m *Manager) NewRigidBody() *RigidBody {
	rb := New(m.registry.NextID(), m.simulation, m.defaults)
	rb.manager = m
	// NextID never returns a used ID
	_ = m.registry.Add(rb)

	return rb
}

func (m *Manager) Get(id uint32) (*RigidBody, bool) {
	return m.registry.Get(id)
}

func (m *Manager) ByName(name string) (*RigidBody, bool) {
	return m.registry.ByName(name)
}

func (m *Manager) Len() int {
	return m.registry.Len()
}

// Each calls fn for every rigid body, in ID order
func (m *Manager) Each(fn func(rb *RigidBody)) {
	m.registry.Each(fn)
}

// Update pulls the simulated transform of every body, in ID order
func (m *Manager) Update(dt float64) {
	m.registry.Each(func(rb *RigidBody) {
		rb.Update(dt)
	})
}

func (m *Manager) remove(rb *RigidBody) {
	m.registry.Remove(rb.ID())
}
