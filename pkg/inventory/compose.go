package inventory

// Alerts groups classified items for the messages view.
type Alerts struct {
	NearExpiry   []Item `json:"nearExpiry"`
	Expired      []Item `json:"expired"`
	Insufficient []Item `json:"insufficient"`
}

type Section struct {
	Status Status
	Title  string
	Items  []Item
}

// ComposeAlerts buckets items by their resolved status. NORMAL items are
// dropped and each other item lands in exactly one bucket.
func ComposeAlerts(items []Item) Alerts {
	a := Alerts{NearExpiry: []Item{}, Expired: []Item{}, Insufficient: []Item{}}
	for _, item := range items {
		switch item.Status {
		case StatusNearExpiry:
			a.NearExpiry = append(a.NearExpiry, item)
		case StatusExpired:
			a.Expired = append(a.Expired, item)
		case StatusInsufficient:
			a.Insufficient = append(a.Insufficient, item)
		}
	}
	return a
}

// Sections returns the non-empty buckets in display order.
func (a Alerts) Sections() []Section {
	all := []Section{
		{Status: StatusNearExpiry, Title: "临期提醒", Items: a.NearExpiry},
		{Status: StatusExpired, Title: "过期提醒", Items: a.Expired},
		{Status: StatusInsufficient, Title: "库存不足", Items: a.Insufficient},
	}
	out := make([]Section, 0, len(all))
	for _, s := range all {
		if len(s.Items) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func (a Alerts) Count() int {
	return len(a.NearExpiry) + len(a.Expired) + len(a.Insufficient)
}

func (a Alerts) Empty() bool {
	return a.Count() == 0
}

type Statistics struct {
	TotalItems      int `json:"totalItems"`
	TotalCategories int `json:"totalCategories"`
	NearExpiry      int `json:"nearExpiry"`
	Insufficient    int `json:"insufficient"`
	Expired         int `json:"expired"`
}

func Summarize(items []Item) Statistics {
	st := Statistics{
		TotalItems:      len(items),
		TotalCategories: len(Categories(items)),
	}
	for _, item := range items {
		switch item.Status {
		case StatusNearExpiry:
			st.NearExpiry++
		case StatusInsufficient:
			st.Insufficient++
		case StatusExpired:
			st.Expired++
		}
	}
	return st
}
