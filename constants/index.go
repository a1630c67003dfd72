package constants

const (
	ERROR_INPUT               = "Invalid input data"
	ERROR_INTERNAL_ERROR      = "Internal server error"
	ERROR_CREATE              = "Create failed"
	ERROR_PARSE_DATA_TO_LOCLS = "Cannot parse request data"
	DATA_INPUT_IS_NOT_NUMBER  = "Input is not a number"

	MISSING_LOGIN_INPUT   = "Email and password are required"
	INVALID_EMAIL         = "Email does not exist"
	INVALID_PASSWORD      = "Wrong password"
	CAN_NOT_HASH_PASSWORD = "Cannot hash password"
	EMAIL_EXISTS          = "Email already registered"
	DOCUMENT_EXISTS       = "Document number already registered"

	CLIENT_NOT_FOUND = "Client not found"
)
