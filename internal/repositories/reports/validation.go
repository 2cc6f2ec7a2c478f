package reports

import (
	"github.com/KirkDiggler/rise-gen/internal/errors"
)

const (
	errInputNil   = "input is required"
	errIDEmpty    = "report ID cannot be empty"
	errSideEmpty  = "side cannot be empty"
	errSummaryNil = "summary is required"
)

func validateSides(red, blue []string, missingSummary bool) error {
	vb := errors.NewValidationBuilder()
	if len(red) == 0 {
		vb.Field("Red", errSideEmpty)
	}
	if len(blue) == 0 {
		vb.Field("Blue", errSideEmpty)
	}
	if missingSummary {
		vb.Field("Summary", errSummaryNil)
	}
	return vb.Build()
}
