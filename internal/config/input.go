package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rpgo/networth-projector/internal/calculation"
	"github.com/rpgo/networth-projector/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidPlan wraps every plan validation failure
	ErrInvalidPlan = errors.New("invalid plan")
	// ErrUnknownJurisdiction flags a jurisdiction code with no tax table
	ErrUnknownJurisdiction = errors.New("unknown jurisdiction")
)

var hundred = decimal.NewFromInt(100)

// InputParser handles parsing of plan files
type InputParser struct {
	taxes *calculation.TaxCalculator
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{taxes: calculation.NewTaxCalculator()}
}

// LoadFromFile loads a plan from a YAML or JSON file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Plan, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	plan, err := ip.ParsePlan(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return plan, nil
}

// ParsePlan decodes and validates a plan document. JSON is accepted as a YAML subset.
func (ip *InputParser) ParsePlan(data []byte) (*domain.Plan, error) {
	var plan domain.Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse plan: %w", err)
	}
	if err := ip.ValidatePlan(&plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// ValidatePlan reports every problem with the plan at once. The error wraps
// ErrInvalidPlan, and ErrUnknownJurisdiction when the jurisdiction has no table.
func (ip *InputParser) ValidatePlan(plan *domain.Plan) error {
	if plan == nil {
		return fmt.Errorf("%w: plan is empty", ErrInvalidPlan)
	}

	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	switch plan.PlanType {
	case domain.PlanIndividual, domain.PlanCouple:
	default:
		add("plan_type must be 'individual' or 'couple', got %q", plan.PlanType)
	}

	errs = append(errs, validatePerson("person1", plan.Person1)...)
	if plan.IsCouple() {
		errs = append(errs, validatePerson("person2", plan.Person2)...)
	}

	owner := func(field string, o domain.Owner) {
		switch o {
		case domain.Person1, "":
		case domain.Person2:
			if !plan.IsCouple() {
				add("%s: individual plan cannot reference person2", field)
			}
		default:
			add("%s: owner must be 'person1' or 'person2', got %q", field, o)
		}
	}

	for i, a := range plan.RetirementAccounts {
		field := fmt.Sprintf("retirement_accounts[%d]", i)
		owner(field+".owner", a.Owner)
		switch a.Type {
		case domain.AccountTraditional, domain.Account401k, domain.Account403b, domain.AccountIRA,
			domain.AccountRoth, domain.AccountRoth401k:
		default:
			add("%s.type: unknown account type %q", field, a.Type)
		}
		if a.Balance.IsNegative() {
			add("%s.balance cannot be negative", field)
		}
		if a.AnnualContribution.IsNegative() {
			add("%s.annual_contribution cannot be negative", field)
		}
		if !percentage(a.EmployerMatchPct) {
			add("%s.employer_match_pct must be between 0 and 100", field)
		}
	}

	for i, a := range plan.InvestmentAccounts {
		field := fmt.Sprintf("investment_accounts[%d]", i)
		owner(field+".owner", a.Owner)
		if a.Balance.IsNegative() {
			add("%s.balance cannot be negative", field)
		}
		if a.AnnualContribution.IsNegative() {
			add("%s.annual_contribution cannot be negative", field)
		}
		if !percentage(a.StockAllocationPct) || !percentage(a.BondAllocationPct) {
			add("%s: allocation percentages must be between 0 and 100", field)
		} else if sum := a.StockAllocationPct.Add(a.BondAllocationPct); !sum.IsZero() && !sum.Equal(hundred) {
			add("%s: stock and bond allocation must sum to 100, got %s", field, sum)
		}
	}

	for i, p := range plan.Pensions {
		field := fmt.Sprintf("pensions[%d]", i)
		owner(field+".owner", p.Owner)
		if p.MonthlyAmount.IsNegative() {
			add("%s.monthly_amount cannot be negative", field)
		}
		if p.EndAge > 0 && p.EndAge < p.StartAge {
			add("%s: end_age %d is before start_age %d", field, p.EndAge, p.StartAge)
		}
		if !percentage(p.SurvivorPct) {
			add("%s.survivor_pct must be between 0 and 100", field)
		}
	}

	for i, o := range plan.OtherIncome {
		field := fmt.Sprintf("other_income[%d]", i)
		owner(field+".owner", o.Owner)
		if o.MonthlyAmount.IsNegative() {
			add("%s.monthly_amount cannot be negative", field)
		}
		if o.EndAge > 0 && o.EndAge < o.StartAge {
			add("%s: end_age %d is before start_age %d", field, o.EndAge, o.StartAge)
		}
	}

	for i, e := range plan.ExpensePeriods {
		field := fmt.Sprintf("expense_periods[%d]", i)
		owner(field+".start_age_ref", e.StartAgeRef)
		owner(field+".end_age_ref", e.EndAgeRef)
		if e.MonthlyAmount.IsNegative() {
			add("%s.monthly_amount cannot be negative", field)
		}
	}

	for i, g := range plan.Gifts {
		field := fmt.Sprintf("gifts[%d]", i)
		owner(field+".owner", g.Owner)
		if g.Amount.IsNegative() {
			add("%s.amount cannot be negative", field)
		}
		switch g.Recurrence {
		case domain.GiftOneTime, "":
			if g.Age <= 0 {
				add("%s: one-time gift needs an age", field)
			}
		case domain.GiftAnnual:
			if g.EndAge > 0 && g.EndAge < g.StartAge {
				add("%s: end_age %d is before start_age %d", field, g.EndAge, g.StartAge)
			}
		default:
			add("%s.recurrence must be 'one_time' or 'annual', got %q", field, g.Recurrence)
		}
	}

	for i, ld := range plan.LegacyDisbursements {
		if !percentage(ld.Percentage) {
			add("legacy_disbursements[%d].percentage must be between 0 and 100", i)
		}
	}

	if plan.InflationRatePct.LessThan(decimal.NewFromInt(-10)) {
		add("inflation_rate_pct cannot be less than -10%% (extreme deflation)")
	}
	if plan.AverageReturnPct.LessThanOrEqual(decimal.NewFromInt(-100)) {
		add("average_return_pct must be greater than -100%%")
	}
	if !percentage(plan.WithdrawalRatePct) {
		add("withdrawal_rate_pct must be between 0 and 100")
	}
	if plan.LegacyAmount.IsNegative() {
		add("legacy_amount cannot be negative")
	}
	if plan.RMDStartAge < 0 {
		add("rmd_start_age cannot be negative")
	}
	if ac := plan.AssetClasses; ac != nil {
		if ac.StockStdDevPct.IsNegative() || ac.BondStdDevPct.IsNegative() {
			add("asset_classes: standard deviations cannot be negative")
		}
	}
	if ft := plan.FatTails; ft != nil && ft.Enabled && ft.DegreesOfFreedom <= 2 {
		add("fat_tails.degrees_of_freedom must be greater than 2, got %g", ft.DegreesOfFreedom)
	}

	if !ip.taxes.KnownJurisdiction(plan.Jurisdiction) {
		var codes []string
		for _, j := range ip.taxes.Jurisdictions() {
			codes = append(codes, j.Code)
		}
		errs = append(errs, fmt.Errorf("%w %q (supported: %s)", ErrUnknownJurisdiction, plan.Jurisdiction, strings.Join(codes, ", ")))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidPlan, errors.Join(errs...))
}

func validatePerson(field string, p domain.Person) []error {
	var errs []error
	if p.CurrentAge < 0 || p.CurrentAge > 120 {
		errs = append(errs, fmt.Errorf("%s.current_age must be between 0 and 120", field))
	}
	if p.LifeExpectancy < p.CurrentAge {
		errs = append(errs, fmt.Errorf("%s.life_expectancy %d is below current_age %d", field, p.LifeExpectancy, p.CurrentAge))
	}
	if p.RetirementAge < 0 {
		errs = append(errs, fmt.Errorf("%s.retirement_age cannot be negative", field))
	}
	if p.CurrentSalary.IsNegative() {
		errs = append(errs, fmt.Errorf("%s.current_salary cannot be negative", field))
	}
	if p.SSClaimingAge != 0 && (p.SSClaimingAge < 62 || p.SSClaimingAge > 70) {
		errs = append(errs, fmt.Errorf("%s.ss_claiming_age must be between 62 and 70", field))
	}
	return errs
}

func percentage(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(hundred)
}

// CreateExamplePlan returns a representative couple plan
func (ip *InputParser) CreateExamplePlan() *domain.Plan {
	return &domain.Plan{
		Name:      "Example household",
		PlanType:  domain.PlanCouple,
		StartYear: 2025,
		Person1: domain.Person{
			Name:           "Jordan",
			CurrentAge:     62,
			RetirementAge:  65,
			LifeExpectancy: 92,
			CurrentSalary:  decimal.NewFromInt(110000),
			SSClaimingAge:  67,
		},
		Person2: domain.Person{
			Name:           "Riley",
			CurrentAge:     60,
			RetirementAge:  63,
			LifeExpectancy: 95,
			CurrentSalary:  decimal.NewFromInt(85000),
			SSClaimingAge:  66,
		},
		RetirementAccounts: []domain.RetirementAccount{
			{Name: "Jordan 401k", Owner: domain.Person1, Type: domain.Account401k, Balance: decimal.NewFromInt(620000),
				AnnualContribution: decimal.NewFromInt(23000), EmployerMatchPct: decimal.NewFromInt(50)},
			{Name: "Riley IRA", Owner: domain.Person2, Type: domain.AccountIRA, Balance: decimal.NewFromInt(310000),
				AnnualContribution: decimal.NewFromInt(7000)},
			{Name: "Riley Roth", Owner: domain.Person2, Type: domain.AccountRoth, Balance: decimal.NewFromInt(90000)},
		},
		InvestmentAccounts: []domain.InvestmentAccount{
			{Name: "Joint brokerage", Owner: domain.Person1, Balance: decimal.NewFromInt(180000),
				StockAllocationPct: decimal.NewFromInt(70), BondAllocationPct: decimal.NewFromInt(30)},
		},
		Pensions: []domain.Pension{
			{Name: "Riley district pension", Owner: domain.Person2, StartAge: 63, MonthlyAmount: decimal.NewFromInt(1400),
				COLAPct: decimal.NewFromInt(1), Taxable: true, SurvivorPct: decimal.NewFromInt(50)},
		},
		OtherIncome: []domain.OtherIncome{
			{Name: "Consulting", Owner: domain.Person1, StartAge: 65, EndAge: 69, MonthlyAmount: decimal.NewFromInt(1500), Taxable: true},
		},
		ExpensePeriods: []domain.ExpensePeriod{
			{Name: "Active years", MonthlyAmount: decimal.NewFromInt(7500), StartAge: 65, StartAgeRef: domain.Person1, EndAge: 79, EndAgeRef: domain.Person1},
			{Name: "Later years", MonthlyAmount: decimal.NewFromInt(6000), StartAge: 80, StartAgeRef: domain.Person1, EndAgeRef: domain.Person2},
		},
		Gifts: []domain.Gift{
			{Name: "Grandchildren college", Owner: domain.Person1, Amount: decimal.NewFromInt(10000), Recurrence: domain.GiftAnnual,
				StartAge: 66, EndAge: 75, InflationAdjusted: true},
		},
		LegacyDisbursements: []domain.LegacyDisbursement{
			{Beneficiary: "Children", Percentage: decimal.NewFromInt(90)},
			{Beneficiary: "Food bank", Percentage: decimal.NewFromInt(10)},
		},
		InflationRatePct:  decimal.NewFromFloat(2.5),
		AverageReturnPct:  decimal.NewFromInt(6),
		WithdrawalRatePct: decimal.NewFromInt(4),
		LegacyAmount:      decimal.NewFromInt(250000),
		Jurisdiction:      "PA",
	}
}
