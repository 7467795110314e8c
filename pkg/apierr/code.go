package apierr

// Code is a machine-readable error code returned in API responses.
type Code string

// Common errors.
const (
	CodeInvalidRequestBody Code = "INVALID_REQUEST_BODY"
	CodeInternalError      Code = "INTERNAL_ERROR"
)

// Auth errors.
const (
	CodeUnauthorized        Code = "UNAUTHORIZED"
	CodeForbidden           Code = "FORBIDDEN"
	CodeInvalidCredentials  Code = "INVALID_CREDENTIALS"
	CodeEmailTaken          Code = "EMAIL_TAKEN"
	CodeInvalidRefreshToken Code = "INVALID_REFRESH_TOKEN"
	CodeInvalidResetToken   Code = "INVALID_RESET_TOKEN"
)

// User errors.
const (
	CodeUserNotFound       Code = "USER_NOT_FOUND"
	CodeInvalidUserID      Code = "INVALID_USER_ID"
	CodeInvalidRole        Code = "INVALID_ROLE"
	CodeUserUpdateFailed   Code = "USER_UPDATE_FAILED"
	CodeUserDeleteFailed   Code = "USER_DELETE_FAILED"
	CodeUserListFailed     Code = "USER_LIST_FAILED"
	CodeRegistrationFailed Code = "REGISTRATION_FAILED"
	CodeUserHasDocuments   Code = "USER_HAS_DOCUMENTS"
)

// Document errors.
const (
	CodeDocumentNotFound     Code = "DOCUMENT_NOT_FOUND"
	CodeInvalidDocumentID    Code = "INVALID_DOCUMENT_ID"
	CodeTitleRequired        Code = "TITLE_REQUIRED"
	CodeTitleTooLong         Code = "TITLE_TOO_LONG"
	CodeDocumentCreateFailed Code = "DOCUMENT_CREATE_FAILED"
	CodeDocumentUpdateFailed Code = "DOCUMENT_UPDATE_FAILED"
	CodeDocumentDeleteFailed Code = "DOCUMENT_DELETE_FAILED"
	CodeDocumentListFailed   Code = "DOCUMENT_LIST_FAILED"
	CodeFileRequired         Code = "FILE_REQUIRED"
	CodeUploadFailed         Code = "UPLOAD_FAILED"
	CodeDownloadFailed       Code = "DOWNLOAD_FAILED"
	CodeNoStoredFile         Code = "NO_STORED_FILE"
)

// Ingestion errors.
const (
	CodeProcessNotFound      Code = "INGESTION_PROCESS_NOT_FOUND"
	CodeInvalidProcessID     Code = "INVALID_PROCESS_ID"
	CodeInvalidIngestionType Code = "INVALID_INGESTION_TYPE"
	CodeTriggerFailed        Code = "INGESTION_TRIGGER_FAILED"
	CodeProcessListFailed    Code = "INGESTION_PROCESS_LIST_FAILED"
)

// Validation errors.
const (
	CodeEmailRequired    Code = "EMAIL_REQUIRED"
	CodeEmailInvalid     Code = "EMAIL_INVALID"
	CodePasswordRequired Code = "PASSWORD_REQUIRED"
	CodePasswordTooShort Code = "PASSWORD_TOO_SHORT"
)

// Health errors.
const (
	CodeDatabaseNotReady Code = "DATABASE_NOT_READY"
)
