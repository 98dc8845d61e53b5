package advisor

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/budget/internal/advice"
	"github.com/theirongolddev/budget/internal/money"
)

func budgetPrompt(s advice.Snapshot) string {
	var breakdown []string
	for _, c := range s.Categories {
		breakdown = append(breakdown, fmt.Sprintf("- %s: ₹%s", c.Category, money.Fixed2(c.Amount)))
	}
	return fmt.Sprintf(`As a financial advisor, analyze my monthly budget:
Monthly Income: ₹%s
Total Expenses: ₹%s

Expense Breakdown:
%s

Please provide:
1. Analysis of spending patterns
2. Suggestions for better budget allocation
3. Specific tips for reducing expenses
4. Savings recommendations`,
		money.Fixed2(s.MonthlyIncome), money.Fixed2(s.TotalExpenses), strings.Join(breakdown, "\n"))
}

func expensePrompt(merchant string, amount float64, category string) string {
	return fmt.Sprintf(`Analyze this expense:
Transaction: %s
Amount: ₹%s
Category: %s

Please provide:
1. Is this expense necessary or discretionary?
2. Suggestions for potential savings
3. Alternative options if applicable`,
		merchant, money.Fixed2(amount), category)
}

func savingsPrompt(income, expenses, goal float64, months int) string {
	return fmt.Sprintf(`Help me reach my savings goal:
Monthly Income: ₹%s
Current Monthly Expenses: ₹%s
Savings Goal: ₹%s
Timeframe: %d months

Please provide:
1. Is this goal realistic?
2. Monthly savings needed
3. Specific strategies to reach the goal
4. Potential obstacles and solutions`,
		money.Fixed2(income), money.Fixed2(expenses), money.Fixed2(goal), months)
}

func loanPrompt(amount, income, existing float64, purpose string) string {
	return fmt.Sprintf(`Analyze this loan scenario:
Loan Amount: ₹%s
Monthly Income: ₹%s
Existing Loans: ₹%s
Purpose: %s

Please provide:
1. Debt-to-income ratio analysis
2. Loan affordability assessment
3. Recommendations and alternatives
4. Risk factors to consider`,
		money.Fixed2(amount), money.Fixed2(income), money.Fixed2(existing), purpose)
}

func chatPrompt(message string) string {
	return fmt.Sprintf(`You are a helpful budget assistant. Your role is to help users manage their finances, track expenses, and provide budgeting advice.
User message: %s

Provide a helpful, concise response focused on budgeting and personal finance.`, message)
}
