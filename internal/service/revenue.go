package service

import (
	"errors"
	"strconv"
	"strings"
)

// ErrBadPercent reports a commission value outside [0, 100] or one that is
// not a number with at most two decimals.
var ErrBadPercent = errors.New("invalid commission percent")

// SplitRevenue divides a gross amount between the platform and the listing
// owner. commissionBps is the platform's commission in basis points
// (1% == 100 bps). All arithmetic is integer cents: the platform cut is
// rounded half up and any residual cent stays with the platform, so
// platformCut + ownerCut == grossCents always.
func SplitRevenue(grossCents int64, commissionBps int64) (platformCut, ownerCut int64) {
	if grossCents <= 0 {
		return 0, grossCents
	}
	if commissionBps < 0 {
		commissionBps = 0
	}
	if commissionBps > 10000 {
		commissionBps = 10000
	}
	platformCut = (grossCents*commissionBps + 5000) / 10000
	ownerCut = grossCents - platformCut
	return platformCut, ownerCut
}

// ParsePercent converts a decimal percent string ("10", "12.5", "2.75") to
// basis points.
func ParsePercent(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrBadPercent
	}
	whole, frac, _ := strings.Cut(s, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || n < 0 {
		return 0, ErrBadPercent
	}
	bps := n * 100
	if frac != "" {
		if len(frac) > 2 {
			return 0, ErrBadPercent
		}
		for len(frac) < 2 {
			frac += "0"
		}
		f, err := strconv.ParseInt(frac, 10, 64)
		if err != nil || f < 0 {
			return 0, ErrBadPercent
		}
		bps += f
	}
	if bps > 10000 {
		return 0, ErrBadPercent
	}
	return bps, nil
}
