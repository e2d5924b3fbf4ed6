package ingest

// Field identifies one canonical column the importer understands,
// independent of how it is spelled in any given source file.
type Field string

const (
	FieldFirstName       Field = "first_name"
	FieldLastName        Field = "last_name"
	FieldEmail           Field = "email"
	FieldAccountNumber   Field = "account_number"
	FieldOriginalBalance Field = "original_balance"
	FieldCurrentBalance  Field = "current_balance"
	FieldStatus          Field = "status"
	FieldAddress         Field = "address"
	FieldCity            Field = "city"
	FieldState           Field = "state"
	FieldZip             Field = "zip"
	FieldPhone           Field = "phone"
	FieldCreditorName    Field = "creditor_name"
	FieldClientName      Field = "client_name"
	FieldPortfolioID     Field = "portfolio_id"
	FieldCaseFileNumber  Field = "case_file_number"
	FieldDateLoaded      Field = "date_loaded"
	FieldOriginationDate Field = "origination_date"
	FieldChargedOffDate  Field = "charged_off_date"
	FieldPurchaseDate    Field = "purchase_date"
)

// FieldSpec describes one canonical field: whether a matching column must
// be present, and the header spellings accepted for it. Aliases are listed
// in priority order; the first alias in the list is the field's primary
// name and is what the template generator emits.
type FieldSpec struct {
	Field    Field
	Required bool
	Aliases  []string
}

// AliasTable is the ordered set of field specs for an import run. The
// declaration order is the documented column order of the template file.
// Tables are read-only after construction; resolvers receive them as a
// parameter rather than reading ambient state.
type AliasTable []FieldSpec

// DefaultAliasTable returns the field specs for debtor account imports.
func DefaultAliasTable() AliasTable {
	return AliasTable{
		{Field: FieldFirstName, Required: true, Aliases: []string{"first_name", "firstname", "first name"}},
		{Field: FieldLastName, Required: true, Aliases: []string{"last_name", "lastname", "last name"}},
		{Field: FieldEmail, Aliases: []string{"email", "email_address"}},
		{Field: FieldAccountNumber, Required: true, Aliases: []string{"account_number", "accountnumber", "account number", "account #"}},
		{Field: FieldOriginalBalance, Required: true, Aliases: []string{"original_balance", "originalbalance", "original balance"}},
		{Field: FieldCurrentBalance, Aliases: []string{"current_balance", "currentbalance", "current balance", "balance"}},
		{Field: FieldStatus, Aliases: []string{"status"}},
		{Field: FieldAddress, Aliases: []string{"address", "street_address"}},
		{Field: FieldCity, Aliases: []string{"city"}},
		{Field: FieldState, Aliases: []string{"state"}},
		{Field: FieldZip, Aliases: []string{"zip", "zipcode", "zip_code"}},
		{Field: FieldPhone, Aliases: []string{"phone", "phone_number", "telephone"}},
		{Field: FieldCreditorName, Aliases: []string{"creditor_name", "creditor", "original_creditor"}},
		{Field: FieldClientName, Aliases: []string{"client_name", "client"}},
		{Field: FieldPortfolioID, Aliases: []string{"portfolio_id", "portfolio"}},
		{Field: FieldCaseFileNumber, Aliases: []string{"case_file_number", "case_number", "file_number"}},
		{Field: FieldDateLoaded, Aliases: []string{"date_loaded", "load_date"}},
		{Field: FieldOriginationDate, Aliases: []string{"origination_date", "orig_date"}},
		{Field: FieldChargedOffDate, Aliases: []string{"charged_off_date", "charge_off_date"}},
		{Field: FieldPurchaseDate, Aliases: []string{"purchase_date"}},
	}
}

// Spec returns the spec for a field, if the table declares it.
func (t AliasTable) Spec(f Field) (FieldSpec, bool) {
	for _, spec := range t {
		if spec.Field == f {
			return spec, true
		}
	}
	return FieldSpec{}, false
}
