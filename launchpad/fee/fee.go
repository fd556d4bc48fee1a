package fee

import "math/big"

const BpsDenominator = 10_000

// Breakdown is the settlement split of one SOL trade leg.
type Breakdown struct {
	Net       uint64 // amount left after the protocol fee
	Total     uint64 // total fee charged
	Referral  uint64 // carved out of the fee for the referrer
	Creator   uint64 // accrues on the launch for the creator
	Community uint64 // routed to the community pool
}

// Compute charges feeBps on amount and splits the fee. The referral share
// (referralBps of the gross amount) comes out of the fee, never on top of it;
// the remainder splits evenly between creator and community pool.
func Compute(amount uint64, feeBps, referralBps uint16, hasReferral bool) Breakdown {
	total := mulBps(amount, feeBps)
	var referral uint64
	if hasReferral {
		referral = mulBps(amount, referralBps)
		if referral > total {
			referral = total
		}
	}
	creator := (total - referral) / 2
	community := total - referral - creator
	return Breakdown{
		Net:       amount - total,
		Total:     total,
		Referral:  referral,
		Creator:   creator,
		Community: community,
	}
}

func mulBps(amount uint64, bps uint16) uint64 {
	v := new(big.Int).Mul(new(big.Int).SetUint64(amount), big.NewInt(int64(bps)))
	return v.Div(v, big.NewInt(BpsDenominator)).Uint64()
}
