package model

// Units of measure accepted on PR items.
var validUnits = map[string]bool{
	"amp": true, "bag": true, "bar": true, "batch": true, "block": true,
	"board": true, "book": true, "bottle": true, "box": true, "bundle": true,
	"bunch": true, "can": true, "carton": true, "case": true, "cm": true,
	"cuft": true, "cum": true, "cup": true, "day": true, "dozen": true,
	"drum": true, "each": true, "envelope": true, "ft": true, "gal": true,
	"g": true, "hour": true, "in": true, "jar": true, "job": true,
	"jug": true, "kg": true, "km": true, "length": true, "liter": true,
	"lot": true, "m": true, "mg": true, "ml": true, "mm": true,
	"month": true, "pad": true, "pail": true, "pair": true, "pack": true,
	"packet": true, "panel": true, "pc": true, "plate": true, "pot": true,
	"pouch": true, "quart": true, "ream": true, "roll": true, "sack": true,
	"sachet": true, "set": true, "sheet": true, "sqft": true, "sqm": true,
	"stick": true, "strip": true, "tank": true, "tray": true, "tube": true,
	"unit": true, "volt": true, "watt": true, "yard": true, "year": true,
	"others": true,
}

// ValidUnit reports whether the unit code is accepted.
func ValidUnit(unit string) bool {
	return validUnits[unit]
}
