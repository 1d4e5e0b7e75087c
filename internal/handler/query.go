package handler

import (
	"strconv"
	"strings"

	"catalogbooking/internal/apperror"
	"catalogbooking/internal/pricing"
	"catalogbooking/internal/timeslot"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// optionalBool reads a true/false query parameter; absent means no filter.
func optionalBool(c *gin.Context, key string) (*bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperror.Newf(apperror.KindInvalidInput, "%s must be true or false", key)
	}
	return &v, nil
}

func optionalDecimal(c *gin.Context, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, apperror.Newf(apperror.KindInvalidInput, "%s must be a number", key)
	}
	return &d, nil
}

// priceParams reads units, duration, time and the comma separated addons list.
func priceParams(c *gin.Context) (pricing.Params, error) {
	var p pricing.Params
	var err error
	if p.Units, err = optionalDecimal(c, "units"); err != nil {
		return p, err
	}
	if p.Duration, err = optionalDecimal(c, "duration"); err != nil {
		return p, err
	}
	if raw := c.Query("time"); raw != "" {
		clock, err := timeslot.ParseClock(raw)
		if err != nil {
			return p, apperror.Wrap(apperror.KindInvalidInput, err, "invalid time")
		}
		p.Time = &clock
	}
	for _, raw := range strings.Split(c.Query("addons"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return p, apperror.Newf(apperror.KindInvalidInput, "invalid addon id %q", raw)
		}
		p.AddonIDs = append(p.AddonIDs, id)
	}
	return p, nil
}
