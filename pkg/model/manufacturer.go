package model

import "strings"

// knownVendors maps lowercase name fragments to canonical vendor names.
// Order matters: the first matching fragment wins.
var knownVendors = []struct {
	fragment string
	name     string
}{
	{"philips", "Philips Hue"},
	{"hue", "Philips Hue"},
	{"eve", "Eve Systems"},
	{"aqara", "Aqara"},
	{"nanoleaf", "Nanoleaf"},
	{"ecobee", "ecobee"},
	{"lifx", "LIFX"},
	{"meross", "Meross"},
	{"belkin", "Belkin"},
	{"wemo", "Belkin"},
	{"sonos", "Sonos"},
	{"ikea", "IKEA"},
	{"netatmo", "Netatmo"},
}

// InferManufacturer guesses a vendor from an advertised instance name by
// case-insensitive substring match against a fixed fragment table. The
// first match wins. Returns false when no fragment matches.
func InferManufacturer(name string) (string, bool) {
	lower := strings.ToLower(name)
	for _, v := range knownVendors {
		if strings.Contains(lower, v.fragment) {
			return v.name, true
		}
	}
	return "", false
}
