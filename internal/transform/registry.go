package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rgehrsitz/myga/internal/domain"
	"github.com/shopspring/decimal"
)

// TransformFactory builds a transform from "key=value" parameters.
type TransformFactory func(params map[string]string) (RunTransform, error)

// TransformRegistry maps transform names, as written on the command line, to factories.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

var builtInFactories = map[string]TransformFactory{
	"set_product":         createSetProduct,
	"set_issue_age":       createSetIssueAge,
	"set_premium":         createSetPremium,
	"set_withdrawal":      createSetWithdrawal,
	"set_annuitize":       createSetAnnuitize,
	"set_rates":           createSetCreditingRates,
	"shift_renewal_rate":  createShiftRenewalRate,
	"set_mva_rates":       createSetMVARates,
	"shift_index_rate":    createShiftIndexRate,
	"set_discount_rate":   createSetDiscountRate,
	"set_last_year_basis": createSetLastYearBasis,
}

// NewTransformRegistry returns a registry holding every built-in transform.
func NewTransformRegistry() *TransformRegistry {
	r := &TransformRegistry{factories: make(map[string]TransformFactory, len(builtInFactories))}
	for name, f := range builtInFactories {
		r.Register(name, f)
	}
	return r
}

// Register adds or replaces a factory.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create builds the named transform.
func (r *TransformRegistry) Create(name string, params map[string]string) (RunTransform, error) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown transform: %s (known: %s)", name, strings.Join(r.List(), ", "))
	}
	return factory(params)
}

// List returns the registered names, sorted.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses "name:key=value,key=value", for example
// "set_withdrawal:method=pct_of_boy_av,value=0.10". Spaces around names and values are ignored.
func (r *TransformRegistry) ParseTransformSpec(spec string) (RunTransform, error) {
	name, rest, ok := strings.Cut(spec, ":")
	if !ok {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	params := make(map[string]string)
	if rest = strings.TrimSpace(rest); rest != "" {
		for _, pair := range strings.Split(rest, ",") {
			k, v, ok := strings.Cut(pair, "=")
			if !ok {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", pair)
			}
			params[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}
	return r.Create(strings.TrimSpace(name), params)
}

// ParseTransformSpecs parses specs in order, stopping at the first bad one.
func (r *TransformRegistry) ParseTransformSpecs(specs []string) ([]RunTransform, error) {
	out := make([]RunTransform, len(specs))
	for i, s := range specs {
		t, err := r.ParseTransformSpec(s)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func requireParam(transform string, params map[string]string, key string) (string, error) {
	v, ok := params[key]
	if !ok || v == "" {
		return "", fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	return v, nil
}

func decimalParam(transform string, params map[string]string, key string) (decimal.Decimal, error) {
	s, err := requireParam(transform, params, key)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

func optionalDecimalParam(params map[string]string, key string) (*decimal.Decimal, error) {
	s, ok := params[key]
	if !ok || s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return &d, nil
}

// Factory functions for each transform

func createSetProduct(params map[string]string) (RunTransform, error) {
	code, err := requireParam("set_product", params, "code")
	if err != nil {
		return nil, err
	}
	return &SetProduct{ProductCode: code}, nil
}

func createSetIssueAge(params map[string]string) (RunTransform, error) {
	ageStr, err := requireParam("set_issue_age", params, "age")
	if err != nil {
		return nil, err
	}
	age, err := strconv.Atoi(ageStr)
	if err != nil {
		return nil, fmt.Errorf("invalid age value: %w", err)
	}
	return &SetIssueAge{Age: age}, nil
}

func createSetPremium(params map[string]string) (RunTransform, error) {
	amount, err := decimalParam("set_premium", params, "amount")
	if err != nil {
		return nil, err
	}
	return &SetPremium{Premium: amount}, nil
}

func createSetWithdrawal(params map[string]string) (RunTransform, error) {
	methodStr, err := requireParam("set_withdrawal", params, "method")
	if err != nil {
		return nil, err
	}
	method, err := domain.ParseWithdrawalMethod(methodStr)
	if err != nil {
		return nil, err
	}
	value := decimal.Zero
	if method != domain.WithdrawalPriorYearInterest {
		value, err = decimalParam("set_withdrawal", params, "value")
		if err != nil {
			return nil, err
		}
	}
	return &SetWithdrawal{Method: method, Value: value}, nil
}

func createSetAnnuitize(params map[string]string) (RunTransform, error) {
	enabled := true
	if s, ok := params["enabled"]; ok {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("invalid enabled value: %w", err)
		}
		enabled = b
	}
	years := 0
	if s, ok := params["years"]; ok {
		y, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid years value: %w", err)
		}
		years = y
	}
	return &SetAnnuitize{Enabled: enabled, InstallmentYears: years}, nil
}

func createSetCreditingRates(params map[string]string) (RunTransform, error) {
	initial, err := optionalDecimalParam(params, "initial")
	if err != nil {
		return nil, err
	}
	renewal, err := optionalDecimalParam(params, "renewal")
	if err != nil {
		return nil, err
	}
	if initial == nil && renewal == nil {
		return nil, fmt.Errorf("set_rates requires 'initial' or 'renewal' parameter")
	}
	return &SetCreditingRates{InitialRate: initial, RenewalRate: renewal}, nil
}

func createShiftRenewalRate(params map[string]string) (RunTransform, error) {
	delta, err := decimalParam("shift_renewal_rate", params, "delta")
	if err != nil {
		return nil, err
	}
	return &ShiftRenewalRate{Delta: delta}, nil
}

func createSetMVARates(params map[string]string) (RunTransform, error) {
	initial, err := decimalParam("set_mva_rates", params, "initial")
	if err != nil {
		return nil, err
	}
	current, err := decimalParam("set_mva_rates", params, "current")
	if err != nil {
		return nil, err
	}
	return &SetMVARates{InitialIndexRate: initial, CurrentIndexRate: current}, nil
}

func createShiftIndexRate(params map[string]string) (RunTransform, error) {
	delta, err := decimalParam("shift_index_rate", params, "delta")
	if err != nil {
		return nil, err
	}
	return &ShiftIndexRate{Delta: delta}, nil
}

func createSetDiscountRate(params map[string]string) (RunTransform, error) {
	rate, err := decimalParam("set_discount_rate", params, "rate")
	if err != nil {
		return nil, err
	}
	annuity, err := optionalDecimalParam(params, "annuity_rate")
	if err != nil {
		return nil, err
	}
	return &SetDiscountRate{Rate: rate, AnnuityRate: annuity}, nil
}

func createSetLastYearBasis(params map[string]string) (RunTransform, error) {
	basisStr, err := requireParam("set_last_year_basis", params, "basis")
	if err != nil {
		return nil, err
	}
	basis, err := domain.ParseContinuationBasis(basisStr)
	if err != nil {
		return nil, err
	}
	return &SetLastYearBasis{Basis: basis}, nil
}
