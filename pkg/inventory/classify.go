package inventory

import "time"

// DefaultNearExpiryDays is the warning window used when none is configured.
const DefaultNearExpiryDays = 3

// Classify returns the status of an item on the given day. Rules are checked
// in order and the first match wins:
//
//	EXPIRED       expiry < today
//	NEAR_EXPIRY   today <= expiry <= today+nearExpiryDays
//	INSUFFICIENT  minQuantity set and quantity < minQuantity
//	NORMAL        otherwise
func Classify(quantity float64, minQuantity *float64, expiry, today Date, nearExpiryDays int) Status {
	if nearExpiryDays < 0 {
		nearExpiryDays = 0
	}

	if expiry.Before(today) {
		return StatusExpired
	}

	if !expiry.After(today.AddDays(nearExpiryDays)) {
		return StatusNearExpiry
	}

	if minQuantity != nil && quantity < *minQuantity {
		return StatusInsufficient
	}

	return StatusNormal
}

type Classifier struct {
	NearExpiryDays int
	Now            func() time.Time
}

func NewClassifier(nearExpiryDays int) Classifier {
	return Classifier{NearExpiryDays: nearExpiryDays, Now: time.Now}
}

func (c Classifier) Today() Date {
	if c.Now == nil {
		return Today()
	}
	return DateOf(c.Now())
}

func (c Classifier) Classify(item Item) Status {
	return Classify(item.Quantity, item.MinQuantity, item.ExpiryDate, c.Today(), c.NearExpiryDays)
}

// Reclassify returns a copy of items with every status recomputed for today.
// The input slice is left untouched.
func (c Classifier) Reclassify(items []Item) []Item {
	today := c.Today()
	out := make([]Item, len(items))
	for i, item := range items {
		item.Status = Classify(item.Quantity, item.MinQuantity, item.ExpiryDate, today, c.NearExpiryDays)
		out[i] = item
	}
	return out
}
