package hwio

// Bit field access within a register array. Registers that pack one fixed
// width field per entity (GPFSEL packs ten 3 bit fields per word) are
// addressed by entity number and field width.

const WordBits = 32

// FieldSelector locates one field: the register it lives in, and its bit
// offset and width within that register.
type FieldSelector struct {
	Index int
	Shift uint
	Width uint
}

// Returns the selector for field number entity in an array of width bit
// fields. Fields never straddle registers; any bits left over at the top of
// a word are unused.
func NewFieldSelector(entity int, width int) (FieldSelector, error) {
	if width < 1 || width > WordBits {
		return FieldSelector{}, &RangeError{Kind: InvalidField, Index: width, Limit: WordBits}
	}
	if entity < 0 {
		return FieldSelector{}, &RangeError{Kind: InvalidField, Index: entity, Limit: 0}
	}

	perWord := WordBits / width
	return FieldSelector{
		Index: entity / perWord,
		Shift: uint((entity % perWord) * width),
		Width: uint(width),
	}, nil
}

// Mask of the field in register position.
func (s FieldSelector) Mask() uint32 {
	return s.valueMask() << s.Shift
}

func (s FieldSelector) valueMask() uint32 {
	return uint32((uint64(1) << s.Width) - 1)
}

// Returns word with the field replaced by value. value is truncated to the
// field width; bits outside the field are left as they are.
func (s FieldSelector) Apply(word uint32, value uint32) uint32 {
	word &^= s.Mask()
	word |= (value & s.valueMask()) << s.Shift
	return word
}

// Extracts the field from word.
func (s FieldSelector) Extract(word uint32) uint32 {
	return (word >> s.Shift) & s.valueMask()
}

// Set field number entity, of width bits, to value. This is a read, clear,
// set, write cycle on a single register. It is atomic only with respect to
// other calls on this region; see MappedRegion.
//
// Returns a *RangeError if the field lies outside the mapping, in which case
// nothing is written.
func (r *MappedRegion) SetField(entity int, width int, value uint32) error {
	sel, e := NewFieldSelector(entity, width)
	if e != nil {
		return e
	}
	return r.SetSelected(sel, value)
}

// As SetField, with a precomputed selector.
func (r *MappedRegion) SetSelected(sel FieldSelector, value uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e := r.check(sel.Index); e != nil {
		return e
	}

	old := r.getRegL(sel.Index)
	word := sel.Apply(old, value)
	r.setRegL(sel.Index, word)

	logf("reg %d: %08x -> %08x (shift %d, width %d)", sel.Index, old, word, sel.Shift, sel.Width)
	return nil
}

// Read field number entity, of width bits.
func (r *MappedRegion) GetField(entity int, width int) (uint32, error) {
	sel, e := NewFieldSelector(entity, width)
	if e != nil {
		return 0, e
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if e := r.check(sel.Index); e != nil {
		return 0, e
	}
	return sel.Extract(r.getRegL(sel.Index)), nil
}
