package identity

const (
	operationRegister = "register"
	operationLogin    = "login"
	operationIssue    = "issue_session"
	operationVerify   = "verify"

	operationStatusOK    = "ok"
	operationStatusError = "error"

	tokenByteLength = 32
)
