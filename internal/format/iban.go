package format

// MaskIBAN hides everything but the last four characters of an IBAN. Inputs
// too short to mask render fully hidden.
func MaskIBAN(iban string) string {
	if len(iban) < 4 {
		return "****"
	}
	return "**** **** **** " + iban[len(iban)-4:]
}
