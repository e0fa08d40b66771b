package export

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/finance-service/internal/models"
)

func TestTransactionsXML(t *testing.T) {
	txns := []models.Transaction{
		{
			ID: 2, Type: models.TypeExpense, Amount: decimal.RequireFromString("12.5"),
			Category: "Food & Drink", Description: "Pizza <large>",
			Date: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			ID: 1, Type: models.TypeIncome, Amount: decimal.NewFromInt(1000),
			Category: "Salary", Description: "March",
			Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	generated := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)

	out, err := TransactionsXML(txns, 9, generated)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))

	root := doc.SelectElement("transactions")
	require.NotNil(t, root)
	assert.Equal(t, "9", root.SelectAttrValue("user_id", ""))
	assert.Equal(t, "2025-03-05T10:00:00Z", root.SelectAttrValue("generated_at", ""))
	assert.Equal(t, "2", root.SelectAttrValue("count", ""))

	items := doc.FindElements("//transactions/transaction")
	require.Len(t, items, 2)
	assert.Equal(t, "expense", items[0].SelectAttrValue("type", ""))
	assert.Equal(t, "12.50", items[0].FindElement("./amount").Text())
	assert.Equal(t, "Food & Drink", items[0].FindElement("./category").Text())
	assert.Equal(t, "Pizza <large>", items[0].FindElement("./description").Text())
	assert.Equal(t, "2025-03-01", items[1].FindElement("./date").Text())
}

func TestTransactionsXML_Empty(t *testing.T) {
	out, err := TransactionsXML(nil, 1, time.Now())
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	assert.Equal(t, "0", doc.Root().SelectAttrValue("count", ""))
	assert.Empty(t, doc.FindElements("//transaction"))
}
