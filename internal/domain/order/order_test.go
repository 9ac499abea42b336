package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveTaxHints_DominantCategoryByValue(t *testing.T) {
	items := []*Item{
		{Name: "Monitor", Quantity: 2, PriceMinor: 25000, CategoryHint: "Electronics", TaxDeductible: true},
		{Name: "Notebook", Quantity: 1, PriceMinor: 500, CategoryHint: "Office Supplies"},
	}

	hints := DeriveTaxHints(items)

	assert.Equal(t, "Electronics", hints.Category)
	assert.True(t, hints.Deductible)
	assert.False(t, hints.Empty())
}

func TestDeriveTaxHints_DeductibleRequiresValueMajority(t *testing.T) {
	items := []*Item{
		{Name: "Desk", Quantity: 1, PriceMinor: 30000, CategoryHint: "Furniture", TaxDeductible: true},
		{Name: "Sofa", Quantity: 1, PriceMinor: 70000, CategoryHint: "Furniture"},
	}

	hints := DeriveTaxHints(items)

	assert.Equal(t, "Furniture", hints.Category)
	assert.False(t, hints.Deductible)
}

func TestDeriveTaxHints_QuantityWeighsLineValue(t *testing.T) {
	items := []*Item{
		{Name: "Cable", Quantity: 10, PriceMinor: 1000, CategoryHint: "Electronics", TaxDeductible: true},
		{Name: "Lamp", Quantity: 1, PriceMinor: 6000, CategoryHint: "Furniture"},
	}

	hints := DeriveTaxHints(items)

	assert.Equal(t, "Electronics", hints.Category)
	assert.True(t, hints.Deductible)
}

func TestDeriveTaxHints_TieBreaksAlphabetically(t *testing.T) {
	items := []*Item{
		{Name: "A", Quantity: 1, PriceMinor: 1000, CategoryHint: "Groceries"},
		{Name: "B", Quantity: 1, PriceMinor: 1000, CategoryHint: "Electronics"},
	}

	hints := DeriveTaxHints(items)

	assert.Equal(t, "Electronics", hints.Category)
}

func TestDeriveTaxHints_NoHintsIsEmpty(t *testing.T) {
	items := []*Item{
		{Name: "Mystery item", Quantity: 1, PriceMinor: 1500},
	}

	assert.True(t, DeriveTaxHints(items).Empty())
	assert.True(t, DeriveTaxHints(nil).Empty())
}
