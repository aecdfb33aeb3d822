package extract

// MaskSecret renders a credential for display: "***" for values of eight
// characters or fewer, otherwise the first and last four characters around
// "***".
func MaskSecret(value string) string {
	r := []rune(value)
	if len(r) <= 8 {
		return "***"
	}
	return string(r[:4]) + "***" + string(r[len(r)-4:])
}
