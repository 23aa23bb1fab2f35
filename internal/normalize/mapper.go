package normalize

import (
	"github.com/MichalMitros/az-phone-market/internal/platform/models"
)

// Unified field names, in output order.
const (
	FieldSource         = "source"
	FieldProductID      = "product_id"
	FieldName           = "name"
	FieldBrand          = "brand"
	FieldPriceCurrent   = "price_current"
	FieldPriceOriginal  = "price_original"
	FieldDiscountAmt    = "discount_amt"
	FieldDiscountPct    = "discount_pct"
	FieldCurrency       = "currency"
	FieldInstallment6M  = "installment_6m"
	FieldInstallment12M = "installment_12m"
	FieldInstallment18M = "installment_18m"
	FieldInStock        = "in_stock"
	FieldURL            = "url"
	FieldImage          = "image"
)

// Staging fields are consumed by transformers and never written out.
const (
	FieldInstallmentMonthly = "installment_monthly"
	FieldInstallmentTerm    = "installment_term"
	FieldInstallmentText    = "installment_text"
	FieldDiscountText       = "discount_text"
	FieldDiscountBadge      = "discount_badge"
	FieldStockQuantity      = "stock_qty"
)

// UnifiedFields is the output schema.
var UnifiedFields = []string{
	FieldSource, FieldProductID, FieldName, FieldBrand,
	FieldPriceCurrent, FieldPriceOriginal, FieldDiscountAmt, FieldDiscountPct,
	FieldCurrency, FieldInstallment6M, FieldInstallment12M, FieldInstallment18M,
	FieldInStock, FieldURL, FieldImage,
}

var knownFields = func() map[string]struct{} {
	fields := make(map[string]struct{}, len(UnifiedFields)+6)
	for _, f := range UnifiedFields {
		fields[f] = struct{}{}
	}
	for _, f := range []string{
		FieldInstallmentMonthly, FieldInstallmentTerm, FieldInstallmentText,
		FieldDiscountText, FieldDiscountBadge, FieldStockQuantity,
	} {
		fields[f] = struct{}{}
	}
	return fields
}()

// Mapper renames source fields to unified field names.
type Mapper struct {
	aliases map[string]map[string]string
}

// NewMapper returns Mapper with alias table per source.
func NewMapper(aliases map[string]map[string]string) *Mapper {
	return &Mapper{aliases: aliases}
}

// Map returns record with renamed fields. Fields that are neither aliased nor
// part of the schema are dropped. Values are not changed.
func (m *Mapper) Map(source string, raw models.RawRecord) models.RawRecord {
	aliases := m.aliases[source]
	mapped := models.NewRawRecord(raw.Len())

	for _, key := range raw.Keys() {
		target, aliased := aliases[key]
		if !aliased {
			target = key
		}
		if _, ok := knownFields[target]; !ok {
			continue
		}
		// an alias target wins over a same-named raw field
		if _, exists := mapped.Get(target); exists && !aliased {
			continue
		}
		mapped.Set(target, raw.Value(key))
	}

	return mapped
}
