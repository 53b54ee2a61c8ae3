package types

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownFrictionLaw = errors.New("unknown friction law")

type FrictionLawType uint8

const (
	FL_NoFault FrictionLawType = iota
	FL_LinearSlipWeakening
	FL_RateAndStateAging
	FL_RateAndStateSlip
	FL_RateAndStateFastVelocityWeakening
)

var (
	FrictionLawNames = map[string]FrictionLawType{
		"nofault":                    FL_NoFault,
		"no-fault":                   FL_NoFault,
		"lsw":                        FL_LinearSlipWeakening,
		"linear-slip-weakening":      FL_LinearSlipWeakening,
		"rs-aging":                   FL_RateAndStateAging,
		"aging":                      FL_RateAndStateAging,
		"rs-slip":                    FL_RateAndStateSlip,
		"slip":                       FL_RateAndStateSlip,
		"rs-fast-velocity-weakening": FL_RateAndStateFastVelocityWeakening,
		"fvw":                        FL_RateAndStateFastVelocityWeakening,
	}
	FrictionLawPrintNames = []string{
		"No Fault",
		"Linear Slip Weakening",
		"Rate and State, Aging Law",
		"Rate and State, Slip Law",
		"Rate and State, Fast Velocity Weakening",
	}
)

func (ft FrictionLawType) Print() (txt string) {
	if int(ft) >= len(FrictionLawPrintNames) {
		return fmt.Sprintf("FrictionLawType(%d)", ft)
	}
	txt = FrictionLawPrintNames[ft]
	return
}

// IsRateAndState reports whether the law is solved with the nested state/slip-rate iteration.
func (ft FrictionLawType) IsRateAndState() bool {
	switch ft {
	case FL_RateAndStateAging, FL_RateAndStateSlip, FL_RateAndStateFastVelocityWeakening:
		return true
	}
	return false
}

func ParseFrictionLawType(label string) (ft FrictionLawType, err error) {
	var (
		ok bool
	)
	label = strings.ToLower(strings.TrimSpace(label))
	if ft, ok = FrictionLawNames[label]; !ok {
		err = fmt.Errorf("%w: %q", ErrUnknownFrictionLaw, label)
	}
	return
}
