package patch

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/request"
	"github.com/Dan9191/finance-service/internal/validation"
)

// TransactionPatch is a sparse transaction modification
type TransactionPatch struct {
	Type        Field[models.TransactionType]
	Amount      Field[decimal.Decimal]
	Category    Field[string]
	Description Field[string]
	Date        Field[time.Time]
}

// ParseTransaction reads a transaction patch from an update body. A date that
// does not parse is an error; every other invalid field is ignored.
func ParseTransaction(f request.Fields) (TransactionPatch, error) {
	var p TransactionPatch

	if f.Has("type") {
		p.Type = Ignore[models.TransactionType]()
		if s, ok := f.String("type"); ok && models.TransactionType(s).Valid() {
			p.Type = Set(models.TransactionType(s))
		}
	}

	if f.Has("amount") {
		p.Amount = Ignore[decimal.Decimal]()
		if d, ok, err := validation.ParseAmount(f, "amount"); ok && err == nil && d.IsPositive() && validation.StorableAmount(d) {
			p.Amount = Set(d)
		}
	}

	p.Category = textField(f, "category", validation.MaxCategoryLength)
	p.Description = textField(f, "description", 0)

	if f.Has("date") {
		p.Date = Ignore[time.Time]()
		if f.Raw("date") != nil {
			d, err := validation.Date(f, "date", "Invalid date format")
			if err != nil {
				return TransactionPatch{}, err
			}
			p.Date = Set(d)
		}
	}

	return p, nil
}

// Build reduces the patch to column assignments for transaction id owned by
// userID. Transactions carry no update stamp.
func (p TransactionPatch) Build(id, userID int64) (Update, error) {
	var out []Assignment
	out = appendIfSet(out, ColType, p.Type)
	out = appendIfSet(out, ColAmount, p.Amount)
	out = appendIfSet(out, ColCategory, p.Category)
	out = appendIfSet(out, ColDescription, p.Description)
	out = appendIfSet(out, ColTransactionDate, p.Date)
	if len(out) == 0 {
		return Update{}, errNoFields()
	}
	return Update{ID: id, UserID: userID, Assignments: out}, nil
}

// TransactionColumns are the columns a transaction update may assign
var TransactionColumns = []Column{ColType, ColAmount, ColCategory, ColDescription, ColTransactionDate}

// textField reads a non-blank string. A positive limit caps its length in
// characters.
func textField(f request.Fields, key string, limit int) Field[string] {
	if !f.Has(key) {
		return Field[string]{}
	}
	s, ok := f.String(key)
	s = strings.TrimSpace(s)
	if !ok || s == "" || (limit > 0 && !validation.FitsLength(s, limit)) {
		return Ignore[string]()
	}
	return Set(s)
}
