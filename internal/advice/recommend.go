package advice

import (
	"strings"

	"github.com/theirongolddev/budget/internal/model"
)

var (
	urgentLines = []string{
		"• ⚠️ Your expenses are very high relative to income",
		"• Consider immediate expense reduction",
		"• Look for additional income sources",
	}
	moderateLines = []string{
		"• Try to reduce non-essential expenses",
		"• Aim to save at least 20% of your income",
		"• Review and cancel unused subscriptions",
	}
	positiveLines = []string{
		"• Good job managing expenses!",
		"• Consider investing your savings",
		"• Build an emergency fund if not already done",
	}
	lowSavingsLines = []string{
		"• Start with small savings goals",
		"• Use automatic savings transfers",
	}
	highSavingsLines = []string{
		"• Consider long-term investments",
		"• Maintain your excellent saving habits",
	}
)

// recommendations depends only on its arguments. An empty string element
// renders as a blank separator line.
func recommendations(expenseRatio, savingsRate float64, changes []Change) []string {
	var out []string

	switch {
	case expenseRatio > 90:
		out = append(out, urgentLines...)
	case expenseRatio > 70:
		out = append(out, moderateLines...)
	default:
		out = append(out, positiveLines...)
	}

	switch {
	case savingsRate < 10:
		out = append(out, lowSavingsLines...)
	case savingsRate > 30:
		out = append(out, highSavingsLines...)
	}

	var increased []string
	for _, c := range changes {
		if c.Increased() {
			increased = append(increased, c.Category)
		}
	}
	if len(increased) > 0 {
		out = append(out,
			"",
			"📊 Based on recent changes:",
			"• Focus on reducing expenses in: "+strings.Join(increased, ", "),
		)
	}

	return out
}

type tip struct {
	rising string
	steady string
}

// tips has an entry for every category except OTHER.
var tips = map[model.Category]tip{
	model.CategoryFood: {
		rising: "Spending increasing! Try meal planning and bulk buying",
		steady: "Cook meals at home, plan weekly menus, buy in bulk",
	},
	model.CategoryTransportation: {
		rising: "Consider carpooling or public transport to reduce costs",
		steady: "Look for fuel-efficient routes and maintain your vehicle",
	},
	model.CategoryShopping: {
		rising: "Track your purchases and stick to essentials",
		steady: "Make a list, wait for sales, avoid impulse purchases",
	},
	model.CategoryEntertainment: {
		rising: "Look for free activities and entertainment options",
		steady: "Look for free local events, use streaming services wisely",
	},
	model.CategoryUtilities: {
		rising: "Check for energy leaks and optimize usage",
		steady: "Use energy-efficient appliances, monitor usage",
	},
	model.CategoryHealth: {
		rising: "Review insurance coverage and preventive care options",
		steady: "Consider preventive care, compare insurance options",
	},
	model.CategoryEducation: {
		rising: "Look for scholarships and financial aid options",
		steady: "Look for scholarships, online courses, free resources",
	},
	model.CategoryTravel: {
		rising: "Plan ahead and look for travel deals",
		steady: "Book in advance, use travel rewards, compare prices",
	},
	model.CategoryHousing: {
		rising: "Review utilities and maintenance costs",
		steady: "Regular maintenance can prevent costly repairs",
	},
}

// categoryTips emits one line per current category with a known tip, in
// snapshot order. Names are matched upper-cased; OTHER and unknown names
// are skipped.
func categoryTips(categories []model.CategoryTotal, changes []Change) []string {
	rising := make(map[string]bool, len(changes))
	for _, c := range changes {
		if c.Increased() {
			rising[c.Category] = true
		}
	}

	var out []string
	for _, c := range categories {
		cat := model.Category(strings.ToUpper(c.Category))
		t, ok := tips[cat]
		if !ok {
			continue
		}
		if rising[c.Category] {
			out = append(out, "• "+cat.DisplayName()+": ⚠️ "+t.rising)
		} else {
			out = append(out, "• "+cat.DisplayName()+": "+t.steady)
		}
	}
	return out
}
