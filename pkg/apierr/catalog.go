package apierr

import "net/http"

// --- Common ---

func InvalidRequestBody() *Error {
	return New(CodeInvalidRequestBody, http.StatusBadRequest, "Invalid request body")
}

func InternalError(cause error) *Error {
	return Wrap(CodeInternalError, http.StatusInternalServerError, "Internal server error", cause)
}

// --- Auth ---

func Unauthorized() *Error {
	return New(CodeUnauthorized, http.StatusUnauthorized, "Authentication required")
}

func Forbidden() *Error {
	return New(CodeForbidden, http.StatusForbidden, "Insufficient role")
}

func InvalidCredentials() *Error {
	return New(CodeInvalidCredentials, http.StatusUnauthorized, "Invalid credentials")
}

func EmailTaken() *Error {
	return New(CodeEmailTaken, http.StatusConflict, "Email already registered")
}

func InvalidRefreshToken() *Error {
	return New(CodeInvalidRefreshToken, http.StatusUnauthorized, "Invalid refresh token")
}

func InvalidResetToken() *Error {
	return New(CodeInvalidResetToken, http.StatusUnauthorized, "Invalid or expired reset token")
}

func RegistrationFailed(cause error) *Error {
	return Wrap(CodeRegistrationFailed, http.StatusInternalServerError, "Failed to register user", cause)
}

// --- User ---

func UserNotFound() *Error {
	return New(CodeUserNotFound, http.StatusNotFound, "User not found")
}

func InvalidUserID() *Error {
	return New(CodeInvalidUserID, http.StatusBadRequest, "Invalid user ID")
}

func InvalidRole() *Error {
	return New(CodeInvalidRole, http.StatusBadRequest, "role must be one of: admin, editor, viewer")
}

func UserUpdateFailed(cause error) *Error {
	return Wrap(CodeUserUpdateFailed, http.StatusInternalServerError, "Failed to update user", cause)
}

func UserDeleteFailed(cause error) *Error {
	return Wrap(CodeUserDeleteFailed, http.StatusInternalServerError, "Failed to delete user", cause)
}

func UserListFailed(cause error) *Error {
	return Wrap(CodeUserListFailed, http.StatusInternalServerError, "Failed to list users", cause)
}

func UserHasDocuments() *Error {
	return New(CodeUserHasDocuments, http.StatusConflict, "Cannot delete user: user still owns documents")
}

// --- Document ---

func DocumentNotFound() *Error {
	return New(CodeDocumentNotFound, http.StatusNotFound, "Document not found")
}

func InvalidDocumentID() *Error {
	return New(CodeInvalidDocumentID, http.StatusBadRequest, "Invalid document ID")
}

func TitleRequired() *Error {
	return New(CodeTitleRequired, http.StatusBadRequest, "title is required")
}

func TitleTooLong() *Error {
	return New(CodeTitleTooLong, http.StatusBadRequest, "title must be at most 255 characters")
}

func DocumentCreateFailed(cause error) *Error {
	return Wrap(CodeDocumentCreateFailed, http.StatusInternalServerError, "Failed to create document", cause)
}

func DocumentUpdateFailed(cause error) *Error {
	return Wrap(CodeDocumentUpdateFailed, http.StatusInternalServerError, "Failed to update document", cause)
}

func DocumentDeleteFailed(cause error) *Error {
	return Wrap(CodeDocumentDeleteFailed, http.StatusInternalServerError, "Failed to delete document", cause)
}

func DocumentListFailed(cause error) *Error {
	return Wrap(CodeDocumentListFailed, http.StatusInternalServerError, "Failed to list documents", cause)
}

func FileRequired() *Error {
	return New(CodeFileRequired, http.StatusBadRequest, "A file is required")
}

func UploadFailed(cause error) *Error {
	return Wrap(CodeUploadFailed, http.StatusInternalServerError, "Failed to store uploaded file", cause)
}

func DownloadFailed(cause error) *Error {
	return Wrap(CodeDownloadFailed, http.StatusInternalServerError, "Failed to retrieve stored file", cause)
}

func NoStoredFile() *Error {
	return New(CodeNoStoredFile, http.StatusNotFound, "Document has no stored file")
}

// --- Ingestion ---

func ProcessNotFound() *Error {
	return New(CodeProcessNotFound, http.StatusNotFound, "Ingestion process not found")
}

func InvalidProcessID() *Error {
	return New(CodeInvalidProcessID, http.StatusBadRequest, "Invalid process ID")
}

func InvalidIngestionType() *Error {
	return New(CodeInvalidIngestionType, http.StatusBadRequest,
		"type must be one of: full_ingestion, incremental_ingestion, document_specific")
}

func TriggerFailed(cause error) *Error {
	return Wrap(CodeTriggerFailed, http.StatusInternalServerError, "Failed to trigger ingestion", cause)
}

func ProcessListFailed(cause error) *Error {
	return Wrap(CodeProcessListFailed, http.StatusInternalServerError, "Failed to list ingestion processes", cause)
}

// --- Validation ---

func EmailRequired() *Error {
	return New(CodeEmailRequired, http.StatusBadRequest, "email is required")
}

func EmailInvalid() *Error {
	return New(CodeEmailInvalid, http.StatusBadRequest, "email is not a valid address")
}

func PasswordRequired() *Error {
	return New(CodePasswordRequired, http.StatusBadRequest, "password is required")
}

func PasswordTooShort() *Error {
	return New(CodePasswordTooShort, http.StatusBadRequest, "password must be at least 8 characters")
}

// --- Health ---

func DatabaseNotReady() *Error {
	return New(CodeDatabaseNotReady, http.StatusServiceUnavailable, "Database not ready")
}
