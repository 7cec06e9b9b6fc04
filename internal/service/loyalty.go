package service

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// LoyaltyPolicy maps the number of approved orders to a customer discount.
type LoyaltyPolicy interface {
	DiscountFor(approvedOrders int) int
}

type Tier struct {
	MinOrders int
	Percent   int
}

// TierPolicy picks the highest tier reached. An empty policy never grants a discount,
// leaving the value entirely to admins.
type TierPolicy []Tier

func (p TierPolicy) DiscountFor(approvedOrders int) int {
	pct := 0
	for _, t := range p {
		if approvedOrders >= t.MinOrders && t.Percent > pct {
			pct = t.Percent
		}
	}
	return pct
}

// ParseTiers reads "orders:percent" pairs, e.g. "5:3,10:5,20:7".
func ParseTiers(s string) (TierPolicy, error) {
	var out TierPolicy
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		orders, pct, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("loyalty tier %q: expected orders:percent", part)
		}
		n, err := strconv.Atoi(strings.TrimSpace(orders))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("loyalty tier %q: bad order count", part)
		}
		p, err := strconv.Atoi(strings.TrimSpace(pct))
		if err != nil || p < 0 || p > 100 {
			return nil, fmt.Errorf("loyalty tier %q: bad percent", part)
		}
		out = append(out, Tier{MinOrders: n, Percent: p})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MinOrders < out[j].MinOrders })
	return out, nil
}
