package model

// Qualitative field keys, in prompt order.
const (
	FieldLayoffFrequency           = "layoff_frequency"
	FieldEmployeeAttrition         = "employee_attrition"
	FieldClientConcentration       = "client_concentration"
	FieldGeographicDiversification = "geographic_diversification"
	FieldRnDSpending               = "rnd_spending"
	FieldCurrencyRisk              = "currency_risk"
	FieldGlobalITSpending          = "global_it_spending"
	FieldDigitalExposure           = "digital_exposure"
	FieldStockVolatility           = "stock_volatility"
)

// QualitativeFields lists the nine estimated metrics.
var QualitativeFields = []string{
	FieldLayoffFrequency,
	FieldEmployeeAttrition,
	FieldClientConcentration,
	FieldGeographicDiversification,
	FieldRnDSpending,
	FieldCurrencyRisk,
	FieldGlobalITSpending,
	FieldDigitalExposure,
	FieldStockVolatility,
}

// QualitativeEstimate is the parsed output of the qualitative estimator. A
// nil field means the model did not produce a usable number.
type QualitativeEstimate struct {
	LayoffFrequency           *float64 `json:"layoff_frequency"`
	EmployeeAttrition         *float64 `json:"employee_attrition"`
	ClientConcentration       *float64 `json:"client_concentration"`
	GeographicDiversification *float64 `json:"geographic_diversification"`
	RnDSpending               *float64 `json:"rnd_spending"`
	CurrencyRisk              *float64 `json:"currency_risk"`
	GlobalITSpending          *float64 `json:"global_it_spending"`
	DigitalExposure           *float64 `json:"digital_exposure"`
	StockVolatility           *float64 `json:"stock_volatility"`
}

func (q *QualitativeEstimate) ptr(field string) **float64 {
	switch field {
	case FieldLayoffFrequency:
		return &q.LayoffFrequency
	case FieldEmployeeAttrition:
		return &q.EmployeeAttrition
	case FieldClientConcentration:
		return &q.ClientConcentration
	case FieldGeographicDiversification:
		return &q.GeographicDiversification
	case FieldRnDSpending:
		return &q.RnDSpending
	case FieldCurrencyRisk:
		return &q.CurrencyRisk
	case FieldGlobalITSpending:
		return &q.GlobalITSpending
	case FieldDigitalExposure:
		return &q.DigitalExposure
	case FieldStockVolatility:
		return &q.StockVolatility
	}
	return nil
}

// Get returns the estimate for field, or nil.
func (q QualitativeEstimate) Get(field string) *float64 {
	if p := q.ptr(field); p != nil {
		return *p
	}
	return nil
}

// Set stores v under field. Unknown fields are ignored.
func (q *QualitativeEstimate) Set(field string, v *float64) {
	if p := q.ptr(field); p != nil {
		*p = v
	}
}

// Present counts the non-nil fields.
func (q QualitativeEstimate) Present() int {
	n := 0
	for _, f := range QualitativeFields {
		if q.Get(f) != nil {
			n++
		}
	}
	return n
}

// QualitativeFeatures is the resolved, never-null form of the nine metrics.
type QualitativeFeatures struct {
	LayoffFrequency           float64 `json:"layoff_frequency" yaml:"layoff_frequency"`
	EmployeeAttrition         float64 `json:"employee_attrition" yaml:"employee_attrition"`
	ClientConcentration       float64 `json:"client_concentration" yaml:"client_concentration"`
	GeographicDiversification float64 `json:"geographic_diversification" yaml:"geographic_diversification"`
	RnDSpending               float64 `json:"rnd_spending" yaml:"rnd_spending"`
	CurrencyRisk              float64 `json:"currency_risk" yaml:"currency_risk"`
	GlobalITSpending          float64 `json:"global_it_spending" yaml:"global_it_spending"`
	DigitalExposure           float64 `json:"digital_exposure" yaml:"digital_exposure"`
	StockVolatility           float64 `json:"stock_volatility" yaml:"stock_volatility"`
}

// Get returns the value stored under field.
func (q QualitativeFeatures) Get(field string) (float64, bool) {
	switch field {
	case FieldLayoffFrequency:
		return q.LayoffFrequency, true
	case FieldEmployeeAttrition:
		return q.EmployeeAttrition, true
	case FieldClientConcentration:
		return q.ClientConcentration, true
	case FieldGeographicDiversification:
		return q.GeographicDiversification, true
	case FieldRnDSpending:
		return q.RnDSpending, true
	case FieldCurrencyRisk:
		return q.CurrencyRisk, true
	case FieldGlobalITSpending:
		return q.GlobalITSpending, true
	case FieldDigitalExposure:
		return q.DigitalExposure, true
	case FieldStockVolatility:
		return q.StockVolatility, true
	}
	return 0, false
}

// Set stores v under field. Unknown fields are ignored.
func (q *QualitativeFeatures) Set(field string, v float64) {
	switch field {
	case FieldLayoffFrequency:
		q.LayoffFrequency = v
	case FieldEmployeeAttrition:
		q.EmployeeAttrition = v
	case FieldClientConcentration:
		q.ClientConcentration = v
	case FieldGeographicDiversification:
		q.GeographicDiversification = v
	case FieldRnDSpending:
		q.RnDSpending = v
	case FieldCurrencyRisk:
		q.CurrencyRisk = v
	case FieldGlobalITSpending:
		q.GlobalITSpending = v
	case FieldDigitalExposure:
		q.DigitalExposure = v
	case FieldStockVolatility:
		q.StockVolatility = v
	}
}
