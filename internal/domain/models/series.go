package models

// PricePoint is one observation of the series.
//
// Fields:
//   - Label: opaque, order-preserving identifier (usually a date). Not required to be unique.
//   - Price: finite price observed at Label.
type PricePoint struct {
	Label string
	Price float64
}

// Series is the ordered sequence of observations; slice order is the time axis.
// A Series handed to the trade finder must not be modified afterwards.
type Series []PricePoint

// Prices returns the price column of the series in order.
func (s Series) Prices() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Price
	}
	return out
}
