// server/internal/models/blood.go
package models

// BloodType is one of the eight ABO/Rh groups accepted by the bank.
type BloodType string

const (
	BloodTypeAPos  BloodType = "A+"
	BloodTypeANeg  BloodType = "A-"
	BloodTypeBPos  BloodType = "B+"
	BloodTypeBNeg  BloodType = "B-"
	BloodTypeOPos  BloodType = "O+"
	BloodTypeONeg  BloodType = "O-"
	BloodTypeABPos BloodType = "AB+"
	BloodTypeABNeg BloodType = "AB-"
)

// BloodTypes lists every accepted group. The order is the one used by the
// demo seeder when drawing random groups.
var BloodTypes = []BloodType{
	BloodTypeAPos, BloodTypeANeg,
	BloodTypeBPos, BloodTypeBNeg,
	BloodTypeOPos, BloodTypeONeg,
	BloodTypeABPos, BloodTypeABNeg,
}

// Valid reports whether b is one of the eight groups.
func (b BloodType) Valid() bool {
	for _, bt := range BloodTypes {
		if bt == b {
			return true
		}
	}
	return false
}
