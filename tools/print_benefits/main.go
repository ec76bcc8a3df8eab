package main

import (
	"fmt"

	"github.com/rpgo/networth-projector/internal/calculation"
	"github.com/rpgo/networth-projector/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// Prints the Social Security and RMD helper outputs for a few sample households,
// useful when checking table changes by eye.
func main() {
	ss := calculation.NewSocialSecurityEstimator()
	fmt.Println("Social Security monthly benefit by claiming age:")
	for _, salary := range []int64{40000, 85000, 160000} {
		s := decimal.NewFromInt(salary)
		fmt.Printf("  salary %7d:", salary)
		for _, age := range []int{62, 67, 70} {
			fmt.Printf("  %d=%s", age, ss.MonthlyBenefit(s, age).StringFixed(2))
		}
		fmt.Println()
	}

	fmt.Println("First-year RMD on a $500,000 balance:")
	for _, birthYear := range []int{1950, 1955, 1960} {
		start := dateutil.RMDStartAge(birthYear)
		rmd := calculation.CalculateRMD(decimal.NewFromInt(500000), start, start)
		fmt.Printf("  born %d: start age %d, divisor %s, RMD %s\n",
			birthYear, start, calculation.RMDDivisor(start).String(), rmd.StringFixed(2))
	}
}
