package booking

type PriceCalculator interface {
	Calculate(hourlyPrice int64, window TimeWindow) (Money, error)
}

// HourlyPriceCalculator charges every started hour at the slot's hourly rate.
type HourlyPriceCalculator struct{}

func NewHourlyPriceCalculator() *HourlyPriceCalculator {
	return &HourlyPriceCalculator{}
}

func (HourlyPriceCalculator) Calculate(hourlyPrice int64, window TimeWindow) (Money, error) {
	return NewMoney(window.BillableHours() * hourlyPrice)
}
