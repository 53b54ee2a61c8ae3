package DynamicRupture

// Material is the isotropic elastic material on one side of a fault face
type Material struct {
	Rho, Vp, Vs float64 // Density and P/S wave speeds
}

func (m Material) Zp() float64 { return m.Rho * m.Vp }
func (m Material) Zs() float64 { return m.Rho * m.Vs }

/*
ImpedancesAndEta are the per face impedance coefficients of the characteristic interface
condition. Zp, Zs belong to the plus side, ZpNeig, ZsNeig to the minus side. EtaP and EtaS
are the effective (series) impedances of the two sides.
*/
type ImpedancesAndEta struct {
	Zp, Zs, ZpNeig, ZsNeig             float64
	InvZp, InvZs, InvZpNeig, InvZsNeig float64
	EtaP, EtaS, InvEtaS                float64
}

func NewImpedancesAndEta(plus, minus Material) (ie ImpedancesAndEta) {
	ie.Zp, ie.Zs = plus.Zp(), plus.Zs()
	ie.ZpNeig, ie.ZsNeig = minus.Zp(), minus.Zs()
	ie.InvZp, ie.InvZs = 1./ie.Zp, 1./ie.Zs
	ie.InvZpNeig, ie.InvZsNeig = 1./ie.ZpNeig, 1./ie.ZsNeig
	ie.EtaP = ie.Zp * ie.ZpNeig / (ie.Zp + ie.ZpNeig)
	ie.EtaS = ie.Zs * ie.ZsNeig / (ie.Zs + ie.ZsNeig)
	ie.InvEtaS = 1. / ie.EtaS
	return
}
