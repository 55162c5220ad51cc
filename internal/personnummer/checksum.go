package personnummer

// Luhn verifies the check digit of a digit sequence. Digits at even positions
// (0-indexed from the start) are doubled, with 9 subtracted when the product
// exceeds 9, and the sequence is valid when the total is a multiple of 10.
//
// Any non-digit character, or an empty input, makes the sequence invalid.
func Luhn(digits string) bool {
	if digits == "" {
		return false
	}
	sum := 0
	for i := 0; i < len(digits); i++ {
		c := digits[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if i%2 == 0 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	return sum%10 == 0
}
