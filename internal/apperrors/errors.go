package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrPortfolioNotFound indicates that a portfolio with the given ID does not exist.
	ErrPortfolioNotFound = errors.New("portfolio not found")

	// ErrFundNotFound indicates that a fund with the given ID does not exist.
	ErrFundNotFound = errors.New("fund not found")

	// ErrPortfolioFundNotFound indicates that a portfolio-fund relationship does not exist.
	ErrPortfolioFundNotFound = errors.New("portfolio-fund relationship not found")

	// ErrValuationNotFound indicates that a fund valuation with the given ID,
	// or for the given portfolio-fund and date, does not exist.
	ErrValuationNotFound = errors.New("fund valuation not found")

	// ErrPortfolioValuationNotFound indicates no portfolio valuation exists for
	// the given portfolio and date.
	ErrPortfolioValuationNotFound = errors.New("portfolio valuation not found")

	// ErrIRRNotFound indicates no IRR value exists for the given key and date.
	ErrIRRNotFound = errors.New("irr value not found")

	// ErrSettingNotFound indicates that a system setting key has no stored value.
	ErrSettingNotFound = errors.New("system setting not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrInvalidDate indicates that a date parameter is missing or not in YYYY-MM-DD format.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidAmount indicates that an amount field could not be parsed or is out of range.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrUnknownActivityKind indicates an activity record carries an unrecognised kind.
	ErrUnknownActivityKind = errors.New("unknown activity kind")

	// ErrEmptyActivityBatch indicates an activity batch change was submitted with no dates.
	ErrEmptyActivityBatch = errors.New("activity batch contains no affected dates")

	// Validation errors for required request fields.
	ErrInvalidPortfolioID     = errors.New("portfolio ID is required")
	ErrInvalidPortfolioFundID = errors.New("portfolio-fund ID is required")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrDataInconsistency indicates that the data is in an inconsistent state
	// (e.g., a fund IRR exists for a date with no matching fund valuation).
	ErrDataInconsistency = errors.New("data inconsistency detected")
)
