package ship

// Builder accumulates ship attributes. Each call to Build returns a new
// ship, so further changes to the builder never reach ships already built.
type Builder struct {
	id        int
	maxWeight float64
}

// NewBuilder returns a builder for a ship with id 0 and no capacity.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithID sets the ship id.
func (b *Builder) WithID(id int) *Builder {
	b.id = id
	return b
}

// WithMaxWeight sets the ship capacity.
func (b *Builder) WithMaxWeight(w float64) *Builder {
	b.maxWeight = w
	return b
}

// Build returns an empty ship with the accumulated attributes.
func (b *Builder) Build() *Ship {
	return New(b.id, b.maxWeight)
}
