package dlt

import (
	"fmt"
	"sort"
	"sync"
)

// Canonical field names a provider's keys are renamed to
const (
	FieldID     = "id"
	FieldResult = "result"
	FieldDate   = "date"
)

// FieldMapping renames provider-specific record keys to canonical fields.
// Several provider keys may map to the same canonical field; the first one
// present in a record wins, in Keys order.
type FieldMapping struct {
	// Keys maps a provider key to one of FieldID, FieldResult, FieldDate
	Keys map[string]string

	// Order lists provider keys by precedence
	Order []string

	// DateLayouts are tried in order when coercing the date field
	DateLayouts []string
}

var commonDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"20060102",
	"2006-01-02T15:04:05Z07:00",
}

var (
	providersMu sync.RWMutex
	providers   = map[string]FieldMapping{
		// webapi.sporttery.cn history API and mirrors of it
		"sporttery": newFieldMapping(
			"lotteryDrawNum", FieldID,
			"lotteryDrawResult", FieldResult,
			"lotteryDrawTime", FieldDate,
		),
		// older sporttery gateway payloads
		"sporttery-legacy": newFieldMapping(
			"drawNum", FieldID,
			"drawResult", FieldResult,
			"drawTime", FieldDate,
		),
		// generic open-data style feeds
		"opencode": newFieldMapping(
			"expect", FieldID,
			"issue", FieldID,
			"opencode", FieldResult,
			"openCode", FieldResult,
			"opentime", FieldDate,
			"openTime", FieldDate,
		),
	}
)

// newFieldMapping builds a mapping from alternating provider key, canonical field pairs
func newFieldMapping(pairs ...string) FieldMapping {
	m := FieldMapping{
		Keys:        make(map[string]string, len(pairs)/2),
		DateLayouts: commonDateLayouts,
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Keys[pairs[i]] = pairs[i+1]
		m.Order = append(m.Order, pairs[i])
	}
	return m
}

// RegisterProvider adds or replaces the field mapping for a provider
func RegisterProvider(name string, m FieldMapping) error {
	if name == "" {
		return fmt.Errorf("provider name cannot be empty")
	}
	for key, field := range m.Keys {
		switch field {
		case FieldID, FieldResult, FieldDate:
		default:
			return fmt.Errorf("provider %s: key %q maps to unknown field %q", name, key, field)
		}
	}
	if len(m.Order) == 0 {
		for key := range m.Keys {
			m.Order = append(m.Order, key)
		}
		sort.Strings(m.Order)
	}
	if len(m.DateLayouts) == 0 {
		m.DateLayouts = commonDateLayouts
	}

	providersMu.Lock()
	defer providersMu.Unlock()

	providers[name] = m
	return nil
}

// LookupProvider returns the field mapping registered under name
func LookupProvider(name string) (FieldMapping, error) {
	providersMu.RLock()
	defer providersMu.RUnlock()

	m, ok := providers[name]
	if !ok {
		return FieldMapping{}, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return m, nil
}

// Providers lists registered provider names in sorted order
func Providers() []string {
	providersMu.RLock()
	defer providersMu.RUnlock()

	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
