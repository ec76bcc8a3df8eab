package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlan_HorizonYears(t *testing.T) {
	person := func(age, le int) Person { return Person{CurrentAge: age, LifeExpectancy: le} }

	testCases := []struct {
		desc     string
		plan     Plan
		expected int
	}{
		{
			desc:     "individual",
			plan:     Plan{PlanType: PlanIndividual, Person1: person(67, 90)},
			expected: 23,
		},
		{
			desc:     "individual ignores person2",
			plan:     Plan{PlanType: PlanIndividual, Person1: person(67, 90), Person2: person(30, 100)},
			expected: 23,
		},
		{
			desc:     "older spouse outlives younger",
			plan:     Plan{PlanType: PlanCouple, Person1: person(65, 92), Person2: person(60, 88)},
			expected: 32,
		},
		{
			desc:     "younger spouse lives longest",
			plan:     Plan{PlanType: PlanCouple, Person1: person(65, 90), Person2: person(60, 95)},
			expected: 35,
		},
		{
			desc:     "already past life expectancy",
			plan:     Plan{PlanType: PlanIndividual, Person1: person(95, 90)},
			expected: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.plan.HorizonYears())
		})
	}
}
