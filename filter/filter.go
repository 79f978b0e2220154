// Package filter holds the process-wide query dimensions every data view
// reads: time window, country, store, and product group. Mutation happens
// only through the setters; Params derives the query string sent to the
// backend.
package filter

import (
	"net/url"
	"strconv"
	"sync"

	"github.com/pkg/errors"
)

// Window is the reporting window in days. Only the enumerated values are
// accepted by SetDays.
type Window int

const (
	Window3  Window = 3
	Window7  Window = 7
	Window15 Window = 15
	Window30 Window = 30
)

// Windows lists the selectable windows in display order.
var Windows = []Window{Window3, Window7, Window15, Window30}

var InvalidWindowErr = errors.New("invalid window")

// Filters is the shared filter state. The zero value is not usable; New
// starts at the 3-day window with no dimension filters, matching a fresh
// session.
type Filters struct {
	lock         sync.RWMutex
	days         Window
	country      string
	storeID      string
	productGroup string
}

func New() *Filters {
	return &Filters{days: Window3}
}

// SetDays replaces the time window. Values outside the enumerated set are
// rejected and leave the state untouched.
func (f *Filters) SetDays(days Window) error {
	switch days {
	case Window3, Window7, Window15, Window30:
	default:
		return errors.Wrapf(InvalidWindowErr, "%d days", days)
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	f.days = days
	return nil
}

func (f *Filters) SetCountry(country string) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.country = country
}

func (f *Filters) SetStore(storeID string) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.storeID = storeID
}

func (f *Filters) SetProductGroup(productGroup string) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.productGroup = productGroup
}

func (f *Filters) Days() Window {
	f.lock.RLock()
	defer f.lock.RUnlock()
	return f.days
}

// Params derives the query parameters for the current state. Empty fields
// are omitted, never sent as empty strings. Two calls with no intervening
// setter yield structurally identical values.
func (f *Filters) Params() url.Values {
	f.lock.RLock()
	defer f.lock.RUnlock()

	params := url.Values{}
	if f.days != 0 {
		params.Set("days", strconv.Itoa(int(f.days)))
	}
	if f.country != "" {
		params.Set("country", f.country)
	}
	if f.storeID != "" {
		params.Set("store_id", f.storeID)
	}
	if f.productGroup != "" {
		params.Set("product_group", f.productGroup)
	}
	return params
}
