package entity

// Referencer is anything that can be kept alive by another entity
type Referencer interface {
	AddReference()
	RemoveReference()
}

// Base carries identity and a reference count. A Base starts with one
// reference held by its creator; when the count drops to zero the release
// function runs synchronously, exactly once.
type Base struct {
	id      uint32
	name    string
	refs    int
	release func()
}

// NewBase creates a Base holding one reference
func NewBase(id uint32, release func()) Base {
	return Base{id: id, refs: 1, release: release}
}

func (b *Base) ID() uint32 {
	return b.id
}

func (b *Base) Name() string {
	return b.name
}

func (b *Base) SetName(name string) {
	b.name = name
}

// References returns the current reference count
func (b *Base) References() int {
	return b.refs
}

func (b *Base) AddReference() {
	b.refs++
}

func (b *Base) RemoveReference() {
	if b.refs <= 0 {
		return
	}

	b.refs--
	if b.refs == 0 && b.release != nil {
		release := b.release
		b.release = nil
		release()
	}
}

// Released reports whether the last reference has been dropped
func (b *Base) Released() bool {
	return b.refs == 0
}
