package wire

// Fixed is the protocol's signed 24.8 fixed point number.
type Fixed int32

// FixedFromFloat converts a float64 to Fixed, truncating extra precision.
func FixedFromFloat(v float64) Fixed {
	return Fixed(v * 256)
}

// FixedFromInt converts an integer to Fixed.
func FixedFromInt(v int) Fixed {
	return Fixed(v << 8)
}

// Float returns f as a float64.
func (f Fixed) Float() float64 {
	return float64(f) / 256
}

// Int returns the integer part of f.
func (f Fixed) Int() int {
	return int(f) >> 8
}
