package calculation

import (
	"fmt"
	"sync"

	"github.com/rpgo/networth-projector/internal/domain"
	"github.com/shopspring/decimal"
)

func money(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// coupleWithRetirementAccounts is a retired couple aged 65/60 with $1M each in
// traditional accounts and $6,000/month of expenses
func coupleWithRetirementAccounts() *domain.Plan {
	return &domain.Plan{
		Name:      "retired couple",
		PlanType:  domain.PlanCouple,
		StartYear: 2025,
		Person1:   domain.Person{Name: "Alex", CurrentAge: 65, RetirementAge: 65, LifeExpectancy: 95},
		Person2:   domain.Person{Name: "Sam", CurrentAge: 60, RetirementAge: 60, LifeExpectancy: 95},
		RetirementAccounts: []domain.RetirementAccount{
			{Name: "Alex IRA", Owner: domain.Person1, Type: domain.AccountTraditional, Balance: money(1000000)},
			{Name: "Sam 401k", Owner: domain.Person2, Type: domain.Account401k, Balance: money(1000000)},
		},
		ExpensePeriods: []domain.ExpensePeriod{
			{Name: "Living", MonthlyAmount: money(6000), StartAgeRef: domain.Person1, EndAgeRef: domain.Person1},
		},
		InflationRatePct:  money(3),
		AverageReturnPct:  money(6),
		WithdrawalRatePct: money(4),
	}
}

// shortOnSavingsCouple has $100k each and $3,000/month of expenses
func shortOnSavingsCouple() *domain.Plan {
	p := coupleWithRetirementAccounts()
	p.Name = "short on savings"
	p.RetirementAccounts[0].Balance = money(100000)
	p.RetirementAccounts[1].Balance = money(100000)
	p.ExpensePeriods[0].MonthlyAmount = money(3000)
	return p
}

// shortHorizonCouple keeps Monte Carlo tests fast: both 85, six simulated
// years (90 - 85) with person2 gone for the last two
func shortHorizonCouple() *domain.Plan {
	p := coupleWithRetirementAccounts()
	p.Name = "short horizon"
	p.Person1.CurrentAge, p.Person1.LifeExpectancy = 85, 90
	p.Person2.CurrentAge, p.Person2.LifeExpectancy = 85, 88
	p.RetirementAccounts[0].Balance = money(300000)
	p.RetirementAccounts[1].Balance = money(200000)
	p.InvestmentAccounts = []domain.InvestmentAccount{
		{Name: "Joint brokerage", Owner: domain.Person1, Balance: money(100000), StockAllocationPct: money(70), BondAllocationPct: money(30)},
	}
	p.ExpensePeriods[0].MonthlyAmount = money(5000)
	return p
}

// recordingLogger captures warnings and errors for assertions
type recordingLogger struct {
	mu       sync.Mutex
	warnings []string
	errors   []string
}

func (r *recordingLogger) Debugf(string, ...any) {}
func (r *recordingLogger) Infof(string, ...any)  {}

func (r *recordingLogger) Warnf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

func (r *recordingLogger) Errorf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}
