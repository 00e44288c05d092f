package validation

import "github.com/kingstons-portal/irr-engine-backend/internal/model"

// ValidateValuationUpsert checks the fields of a valuation upsert request.
// Returns a *Error keyed by field name, or nil when the request is valid.
func ValidateValuationUpsert(portfolioFundID, date string) error {
	fields := map[string]string{}

	if err := ValidateUUID(portfolioFundID); err != nil {
		fields["portfolioFundId"] = err.Error()
	}
	if _, err := ParseDate(date); err != nil {
		fields["date"] = err.Error()
	}

	if len(fields) > 0 {
		return &Error{Fields: fields}
	}
	return nil
}

// ValidateActivityInput checks one activity row of a batch change.
func ValidateActivityInput(portfolioFundID, date, kind string) error {
	fields := map[string]string{}

	if err := ValidateUUID(portfolioFundID); err != nil {
		fields["portfolioFundId"] = err.Error()
	}
	if _, err := ParseDate(date); err != nil {
		fields["date"] = err.Error()
	}
	if !model.ValidActivityKind(kind) {
		fields["kind"] = "unknown activity kind: " + kind
	}

	if len(fields) > 0 {
		return &Error{Fields: fields}
	}
	return nil
}
