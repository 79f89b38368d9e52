package model

// Dentition selects which anatomical tooth numbering is in effect. Numbers
// are not comparable across dentitions.
type Dentition string

const (
	DentitionPermanent Dentition = "permanentes"
	DentitionDeciduous Dentition = "deciduos"
)

func (d Dentition) Valid() bool {
	return d == DentitionPermanent || d == DentitionDeciduous
}

// Quadrant rows of the odontogram, ordered upper-right, upper-left,
// lower-left, lower-right. Permanent dentition has 8 teeth per quadrant
// (11-18/21-28/31-38/41-48), deciduous has 5 (51-55/61-65/71-75/81-85).
var (
	permanentQuadrants = [4][2]int{{11, 18}, {21, 28}, {31, 38}, {41, 48}}
	deciduousQuadrants = [4][2]int{{51, 55}, {61, 65}, {71, 75}, {81, 85}}
)

// ToothNumbers returns every valid tooth id for the dentition.
func ToothNumbers(d Dentition) []int {
	quadrants := permanentQuadrants
	if d == DentitionDeciduous {
		quadrants = deciduousQuadrants
	}
	var teeth []int
	for _, q := range quadrants {
		for n := q[0]; n <= q[1]; n++ {
			teeth = append(teeth, n)
		}
	}
	return teeth
}

// ValidTooth reports whether n exists in the dentition's numbering layout.
func ValidTooth(d Dentition, n int) bool {
	quadrants := permanentQuadrants
	if d == DentitionDeciduous {
		quadrants = deciduousQuadrants
	}
	for _, q := range quadrants {
		if n >= q[0] && n <= q[1] {
			return true
		}
	}
	return false
}
