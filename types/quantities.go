package types

/*
Quantity ordering of the elastic wave equation variables carried on each side of a fault
face. Stresses are in the fault-aligned coordinate system, so XX is the fault normal stress
and XY, XZ are the two shear tractions.
*/
const (
	XX = iota
	YY
	ZZ
	XY
	YZ
	XZ
	U
	V
	W
	NumQuantities
)

const (
	N  = XX // Fault normal stress
	T1 = XY // First shear traction
	T2 = XZ // Second shear traction
)

// Components of the symmetric stress tensor in fault coordinates: [XX, YY, ZZ, XY, YZ, XZ]
const NumStressComponents = 6
