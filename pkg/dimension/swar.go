package dimension

// add performs Count independent two's complement additions in parallel.
//
// The carry loop is ordinary ripple addition on the whole word, except that
// carries leaving the top bit of a field are dropped by carryMask instead of
// entering the next field. carried collects every position that produced a
// carry; a field overflowed when the carry into its sign bit differs from the
// carry out of it.
func add(x, y word) (word, bool) {
	sum := x ^ y
	carry := x & y
	var carried word
	for carry != 0 {
		carried |= carry
		carry &= carryMask
		carry <<= 1
		prev := sum
		sum ^= carry
		carry &= prev
	}
	return sum, (carried^(carried<<1))&signMask == 0
}

// sub is the borrow propagating dual of add.
func sub(x, y word) (word, bool) {
	diff := x ^ y
	borrow := ^x & y
	var borrowed word
	for borrow != 0 {
		borrowed |= borrow
		borrow &= carryMask
		borrow <<= 1
		prev := diff
		diff ^= borrow
		borrow &^= prev
	}
	return diff, (borrowed^(borrowed<<1))&signMask == 0
}
