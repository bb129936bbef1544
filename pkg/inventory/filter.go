package inventory

import (
	"fmt"
	"strings"
)

// Tab is the status selector of the inventory list.
type Tab string

const (
	TabAll          Tab = "ALL"
	TabNearExpiry   Tab = "NEAR_EXPIRY"
	TabInsufficient Tab = "INSUFFICIENT"
	TabExpired      Tab = "EXPIRED"
)

var Tabs = []Tab{TabAll, TabNearExpiry, TabInsufficient, TabExpired}

func ParseTab(s string) (Tab, error) {
	t := Tab(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case "":
		return TabAll, nil
	case TabAll, TabNearExpiry, TabInsufficient, TabExpired:
		return t, nil
	}
	return "", fmt.Errorf("unknown tab %q", s)
}

// Status returns the item status the tab selects, or false for ALL.
func (t Tab) Status() (Status, bool) {
	switch t {
	case TabNearExpiry:
		return StatusNearExpiry, true
	case TabInsufficient:
		return StatusInsufficient, true
	case TabExpired:
		return StatusExpired, true
	}
	return "", false
}

type Filter struct {
	Tab      Tab
	Category string
	Search   string
}

// Apply returns the items visible under f, in their original order. The
// input slice is never modified and an empty result is not an error.
func Apply(items []Item, f Filter) []Item {
	want, byStatus := f.Tab.Status()
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]Item, 0, len(items))
	for _, item := range items {
		if byStatus && item.Status != want {
			continue
		}
		if f.Category != "" && item.Category != f.Category {
			continue
		}
		if search != "" && !containsFold(search, item.Name, item.Category) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func containsFold(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// FilterState holds the current list selection. Category and search text are
// never active together: setting one clears the other.
type FilterState struct {
	tab      Tab
	category string
	search   string
}

func NewFilterState() *FilterState {
	return &FilterState{tab: TabAll}
}

func (s *FilterState) SelectTab(t Tab) {
	s.tab = t
}

func (s *FilterState) SelectCategory(category string) {
	s.category = category
	s.search = ""
}

func (s *FilterState) SetSearch(text string) {
	s.search = text
	s.category = ""
}

func (s *FilterState) Reset() {
	*s = FilterState{tab: TabAll}
}

func (s *FilterState) Filter() Filter {
	tab := s.tab
	if tab == "" {
		tab = TabAll
	}
	return Filter{Tab: tab, Category: s.category, Search: s.search}
}

func (s *FilterState) Apply(items []Item) []Item {
	return Apply(items, s.Filter())
}

// Categories lists the distinct non-empty categories in first-seen order.
func Categories(items []Item) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, item := range items {
		if item.Category == "" {
			continue
		}
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		out = append(out, item.Category)
	}
	return out
}

type RecipeFilter struct {
	CuisineType string
	Search      string
}

// FilterRecipes matches the cuisine type exactly and the search text against
// name and cuisine type, the same way Apply treats items.
func FilterRecipes(recipes []Recipe, f RecipeFilter) []Recipe {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]Recipe, 0, len(recipes))
	for _, r := range recipes {
		if f.CuisineType != "" && r.CuisineType != f.CuisineType {
			continue
		}
		if search != "" && !containsFold(search, r.Name, r.CuisineType) {
			continue
		}
		out = append(out, r)
	}
	return out
}
