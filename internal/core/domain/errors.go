package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy. Every service error wraps exactly one of these.
var (
	ErrNotFound        = errors.New("resource not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrTransientStore  = errors.New("store temporarily unavailable")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
)

// Auth errors
var (
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	ErrTokenExpired       = fmt.Errorf("token expired: %w", ErrUnauthorized)
	ErrTokenInvalid       = fmt.Errorf("token invalid: %w", ErrUnauthorized)
	ErrAccountInactive    = fmt.Errorf("account inactive: %w", ErrForbidden)
)

// Member errors
var (
	ErrMemberNotFound     = fmt.Errorf("member %w", ErrNotFound)
	ErrPhoneAlreadyExists = fmt.Errorf("phone already registered: %w", ErrConflict)
	ErrInvalidPhone       = fmt.Errorf("phone must be 11 digits: %w", ErrInvalidArgument)
	ErrInvalidPassword    = fmt.Errorf("password must be at least 6 characters: %w", ErrInvalidArgument)
	ErrInvalidRegNo       = fmt.Errorf("registration number must be 6 digits: %w", ErrInvalidArgument)
	ErrInvalidRole        = fmt.Errorf("unknown role: %w", ErrInvalidArgument)
	ErrInvalidTarget      = fmt.Errorf("monthly target must not be negative: %w", ErrInvalidArgument)
)

// Deposit and request queue errors
var (
	ErrDepositNotFound     = fmt.Errorf("deposit request %w", ErrNotFound)
	ErrDepositResolved     = fmt.Errorf("deposit request already resolved: %w", ErrConflict)
	ErrDuplicateTrxID      = fmt.Errorf("transaction reference already submitted: %w", ErrConflict)
	ErrInvalidAmount       = fmt.Errorf("amount must be greater than 0: %w", ErrInvalidArgument)
	ErrInvalidMethod       = fmt.Errorf("unsupported payment method: %w", ErrInvalidArgument)
	ErrTrxIDRequired       = fmt.Errorf("transaction reference required for electronic payments: %w", ErrInvalidArgument)
	ErrInvalidPeriod       = fmt.Errorf("period must look like \"March 2025\": %w", ErrInvalidArgument)
	ErrJoinRequestNotFound = fmt.Errorf("join request %w", ErrNotFound)
	ErrJoinRequestResolved = fmt.Errorf("join request already resolved: %w", ErrConflict)
)

// Loan errors
var (
	ErrLoanNotFound            = fmt.Errorf("loan %w", ErrNotFound)
	ErrInvalidDuration         = fmt.Errorf("duration must be greater than 0 months: %w", ErrInvalidArgument)
	ErrInvalidInterestRate     = fmt.Errorf("interest rate must not be negative: %w", ErrInvalidArgument)
	ErrRepaymentExceedsBalance = fmt.Errorf("repayment exceeds remaining balance: %w", ErrInvalidArgument)
)

// Misc errors
var (
	ErrNoticeInvalid   = fmt.Errorf("notice title and message are required: %w", ErrInvalidArgument)
	ErrNoticeNotFound  = fmt.Errorf("notice %w", ErrNotFound)
	ErrSettingNotFound = fmt.Errorf("setting %w", ErrNotFound)
	ErrInvalidRange    = fmt.Errorf("report range start must not be after end: %w", ErrInvalidArgument)
)
