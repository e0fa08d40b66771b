package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/Dan9191/finance-service/internal/models"
)

// ContentType is the media type of TransactionsXML output
const ContentType = "application/xml; charset=utf-8"

// TransactionsXML renders transactions as an XML statement document
func TransactionsXML(txns []models.Transaction, userID int64, generated time.Time) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("transactions")
	root.CreateAttr("user_id", strconv.FormatInt(userID, 10))
	root.CreateAttr("generated_at", generated.UTC().Format(time.RFC3339))
	root.CreateAttr("count", strconv.Itoa(len(txns)))

	for _, t := range txns {
		el := root.CreateElement("transaction")
		el.CreateAttr("id", strconv.FormatInt(t.ID, 10))
		el.CreateAttr("type", string(t.Type))
		el.CreateElement("amount").SetText(t.Amount.StringFixed(2))
		el.CreateElement("category").SetText(t.Category)
		el.CreateElement("description").SetText(t.Description)
		el.CreateElement("date").SetText(t.Date.Format(models.DateLayout))
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render XML: %w", err)
	}
	return out, nil
}
