package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrictionLawType(t *testing.T) {
	{ // Names resolve case and whitespace insensitive
		labels := []string{"NoFault", " lsw", "RS-Aging", "slip", "FVW"}
		flags := []FrictionLawType{FL_NoFault, FL_LinearSlipWeakening, FL_RateAndStateAging,
			FL_RateAndStateSlip, FL_RateAndStateFastVelocityWeakening}
		for i, label := range labels {
			ft, err := ParseFrictionLawType(label)
			require.NoError(t, err)
			assert.Equal(t, flags[i], ft)
		}
	}
	{ // Unknown names wrap the sentinel error
		_, err := ParseFrictionLawType("coulomb")
		assert.ErrorIs(t, err, ErrUnknownFrictionLaw)
	}
	{
		assert.True(t, FL_RateAndStateSlip.IsRateAndState())
		assert.False(t, FL_LinearSlipWeakening.IsRateAndState())
		assert.Equal(t, "No Fault", FL_NoFault.Print())
		assert.Equal(t, "FrictionLawType(99)", FrictionLawType(99).Print())
	}
	{ // Fault aligned aliases
		assert.Equal(t, 0, N)
		assert.Equal(t, 3, T1)
		assert.Equal(t, 5, T2)
		assert.Equal(t, 9, NumQuantities)
	}
}
