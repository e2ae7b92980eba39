package get_revenue_stats

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-CourtBooking/pkg/ptr"
)

// RevenueQuery параметры ?year=&month=
type RevenueQuery struct {
	Year  int
	Month *int
}

func parseQuery(q url.Values) (*RevenueQuery, error) {
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		return nil, fmt.Errorf("invalid year %q", q.Get("year"))
	}

	out := &RevenueQuery{Year: year}
	if raw := q.Get("month"); raw != "" {
		month, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid month %q", raw)
		}
		out.Month = ptr.Ptr(month)
	}
	return out, nil
}
