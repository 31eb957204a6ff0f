package specification

import (
	"fmt"

	"gorm.io/gorm"

	"stockflow/pkg/document"
	"stockflow/pkg/listquery"
)

// Columns maps client field names to the columns a list may be sorted and
// filtered on. Fields outside the map are rejected with
// listquery.ErrUnknownField.
type Columns map[string]string

func (c Columns) column(field string) (string, error) {
	col, ok := c[field]
	if !ok {
		return "", fmt.Errorf("%w: %q", listquery.ErrUnknownField, field)
	}
	return col, nil
}

func (c Columns) check(fields ...string) error {
	for _, f := range fields {
		if _, err := c.column(f); err != nil {
			return err
		}
	}
	return nil
}

var InvoiceColumns = Columns{
	string(document.FieldInvoiceNumber):  "invoice_number",
	string(document.FieldStatus):         "status",
	string(document.FieldComment):        "comment",
	string(document.FieldTheirReference): "their_reference",
	string(document.FieldColour):         "colour",
	string(document.FieldOtherPartyID):   "other_party_id",
	string(document.FieldOtherPartyName): "other_party_name",
	string(document.FieldOnHold):         "on_hold",
	string(document.FieldCreatedAt):      "created_at",
	string(document.FieldFinalisedAt):    "finalised_at",
}

var RequisitionColumns = Columns{
	string(document.FieldRequisitionNumber): "requisition_number",
	string(document.FieldStatus):            "status",
	string(document.FieldComment):           "comment",
	string(document.FieldTheirReference):    "their_reference",
	string(document.FieldColour):            "colour",
	string(document.FieldOtherPartyID):      "other_party_id",
	string(document.FieldOtherPartyName):    "other_party_name",
	string(document.FieldMinMonthsOfStock):  "min_months_of_stock",
	string(document.FieldMaxMonthsOfStock):  "max_months_of_stock",
	string(document.FieldCreatedAt):         "created_at",
	string(document.FieldSentAt):            "sent_at",
	string(document.FieldFinalisedAt):       "finalised_at",
}

var StocktakeColumns = Columns{
	string(document.FieldStocktakeNumber): "stocktake_number",
	string(document.FieldStatus):          "status",
	string(document.FieldDescription):     "description",
	string(document.FieldComment):         "comment",
	string(document.FieldStocktakeDate):   "stocktake_date",
	string(document.FieldIsLocked):        "is_locked",
	string(document.FieldCreatedAt):       "created_at",
	string(document.FieldFinalisedAt):     "finalised_at",
}

// MatchingQuery applies the filter rules of a list query. Use it on its own
// for counts and together with QueryPage for pages.
type MatchingQuery struct {
	Query   listquery.ListQuery
	Columns Columns
}

func (s MatchingQuery) Apply(db *gorm.DB) *gorm.DB {
	for _, r := range s.Query.Filters() {
		col, err := s.Columns.column(r.Field)
		if err != nil {
			_ = db.AddError(err)
			return db
		}
		switch r.Operator {
		case listquery.EqualTo:
			db = db.Where(col+" = ?", r.Operand)
		case listquery.NotEqualTo:
			db = db.Where(col+" <> ?", r.Operand)
		case listquery.Like:
			db = db.Where(col+" ILIKE ?", "%"+fmt.Sprint(r.Operand)+"%")
		case listquery.BeforeOrEqualTo:
			db = db.Where(col+" <= ?", r.Operand)
		case listquery.AfterOrEqualTo:
			db = db.Where(col+" >= ?", r.Operand)
		default:
			_ = db.AddError(fmt.Errorf("%w %q on %q", listquery.ErrUnknownOperator, r.Operator, r.Field))
			return db
		}
	}
	return db
}

func (s MatchingQuery) Filter(rows []document.Document) ([]document.Document, error) {
	filters := s.Query.Filters()
	for _, r := range filters {
		if err := s.Columns.check(r.Field); err != nil {
			return nil, err
		}
	}
	m, err := listquery.Compile(filters)
	if err != nil {
		return nil, err
	}
	out := make([]document.Document, 0, len(rows))
	for _, row := range rows {
		ok, err := m.Match(row)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, row)
		}
	}
	return out, nil
}

// QueryPage applies the sort and page window of a list query. Ties are
// broken by id so pages do not overlap.
type QueryPage struct {
	Query   listquery.ListQuery
	Columns Columns
}

func (s QueryPage) Apply(db *gorm.DB) *gorm.DB {
	sort := s.Query.Sort()
	if sort.Key != "" {
		col, err := s.Columns.column(sort.Key)
		if err != nil {
			_ = db.AddError(err)
			return db
		}
		direction := "ASC"
		if sort.IsDesc() {
			direction = "DESC"
		}
		db = db.Order(fmt.Sprintf("%s %s", col, direction))
	}
	db = db.Order("id ASC")
	if s.Query.First() > 0 {
		db = db.Limit(s.Query.First())
	}
	return db.Offset(s.Query.Offset())
}

func (s QueryPage) Filter(rows []document.Document) ([]document.Document, error) {
	sort := s.Query.Sort()
	if sort.Key != "" {
		if err := s.Columns.check(sort.Key); err != nil {
			return nil, err
		}
	}
	out := make([]document.Document, len(rows))
	copy(out, rows)
	listquery.SortDocuments(out, listquery.Sort{Key: string(document.FieldID)})
	listquery.SortDocuments(out, sort)

	start := s.Query.Offset()
	if start > len(out) {
		start = len(out)
	}
	end := len(out)
	if s.Query.First() > 0 && start+s.Query.First() < end {
		end = start + s.Query.First()
	}
	return out[start:end], nil
}
