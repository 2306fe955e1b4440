package util

// Clamp constrains a value to a range.
func Clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Pluralize appends "s" to word unless count is exactly one.
func Pluralize(word string, count int) string {
	if count == 1 {
		return word
	}
	return word + "s"
}
