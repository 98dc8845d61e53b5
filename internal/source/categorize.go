package source

import (
	"strings"

	"github.com/theirongolddev/budget/internal/model"
)

// keywordRules are checked in order; the first match wins.
var keywordRules = []struct {
	category model.Category
	keywords []string
}{
	{model.CategoryFood, []string{"SWIGGY", "ZOMATO", "RESTAURANT", "CAFE", "COFFEE", "STARBUCKS", "PIZZA", "BAKERY", "GROCER", "BIGBASKET", "BLINKIT", "SUPERMARKET", "WHOLE FOODS", "DOMINOS", "MCDONALD", "KFC"}},
	{model.CategoryTransportation, []string{"UBER", "OLA", "RAPIDO", "METRO", "FUEL", "PETROL", "SHELL", "HPCL", "BPCL", "IOCL", "PARKING", "TOLL", "FASTAG", "TAXI"}},
	{model.CategoryHousing, []string{"RENT", "MAINTENANCE", "SOCIETY", "MORTGAGE", "HOUSING", "NOBROKER"}},
	{model.CategoryUtilities, []string{"ELECTRICITY", "BESCOM", "WATER", "GAS BILL", "BROADBAND", "AIRTEL", "JIO", "VODAFONE", "RECHARGE", "INTERNET", "DTH"}},
	{model.CategoryEntertainment, []string{"NETFLIX", "SPOTIFY", "PRIME VIDEO", "HOTSTAR", "BOOKMYSHOW", "PVR", "INOX", "CINEMA", "STEAM", "PLAYSTATION"}},
	{model.CategoryShopping, []string{"AMAZON", "FLIPKART", "MYNTRA", "AJIO", "NYKAA", "MEESHO", "DECATHLON", "IKEA", "MALL", "STORE"}},
	{model.CategoryHealth, []string{"PHARMACY", "APOLLO", "MEDPLUS", "HOSPITAL", "CLINIC", "DOCTOR", "1MG", "PHARMEASY", "DENTAL", "INSURANCE"}},
	{model.CategoryEducation, []string{"SCHOOL", "COLLEGE", "UNIVERSITY", "TUITION", "UDEMY", "COURSERA", "BYJU", "BOOKS", "EXAM"}},
	{model.CategoryTravel, []string{"MAKEMYTRIP", "GOIBIBO", "IRCTC", "AIRLINE", "INDIGO", "VISTARA", "AIR INDIA", "HOTEL", "OYO", "AIRBNB", "BOOKING.COM", "CLEARTRIP"}},
}

// Categorize guesses a category from a merchant or memo string.
func Categorize(text string) model.Category {
	upper := " " + strings.ToUpper(text) + " "
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if matchesWord(upper, kw) {
				return rule.category
			}
		}
	}
	return model.CategoryOther
}

// matchesWord requires kw to start at a word boundary so "OLA" does not
// match "COLA".
func matchesWord(haystack, kw string) bool {
	for i := 0; ; {
		j := strings.Index(haystack[i:], kw)
		if j < 0 {
			return false
		}
		pos := i + j
		if pos == 0 || !isAlnum(haystack[pos-1]) {
			return true
		}
		i = pos + 1
	}
}

func isAlnum(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
