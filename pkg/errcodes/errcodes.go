package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	AccessTokenExpired  failure.ErrorCode = "AccessTokenExpired"
	AccessTokenInvalid  failure.ErrorCode = "AccessTokenInvalid"
	NotFound            failure.ErrorCode = "NotFound"
	CredentialsMismatch failure.ErrorCode = "CredentialsMismatch"

	// Deals
	DealNotFound          failure.ErrorCode = "DealNotFound"
	InvalidDealID         failure.ErrorCode = "InvalidDealID"
	InvalidDealStatus     failure.ErrorCode = "InvalidDealStatus"
	InvalidDealTransition failure.ErrorCode = "InvalidDealTransition"
	DealNotScored         failure.ErrorCode = "DealNotScored"
	DealLocked            failure.ErrorCode = "DealLocked"
	DuplicateDeal         failure.ErrorCode = "DuplicateDeal"

	// Settings
	InvalidSettings failure.ErrorCode = "InvalidSettings"
	InvalidMode     failure.ErrorCode = "InvalidMode"

	// Scanning
	ScanAlreadyRunning failure.ErrorCode = "ScanAlreadyRunning"
	UnknownSource      failure.ErrorCode = "UnknownSource"
)
