package fieldtype

import "github.com/shopspring/decimal"

// Absolute bounds of each field type family
const (
	NumberMin int64 = -1000000000
	NumberMax int64 = 1000000000

	DateMin = -2147483648
	DateMax = 2147483647

	DurationMin = 0
	DurationMax = 999999*60 + 59

	StringMaxLength = 250
	TextMaxLength   = 10000

	PCREMaxLength = 500

	ListItemMinValue   = 1
	ListItemMaxTextLen = 50

	// DecimalPlaces is the number of fraction digits kept by decimal fields
	DecimalPlaces = 10
)

var (
	DecimalMin = decimal.New(-1, 10)
	DecimalMax = decimal.New(1, 10)
)
