package constants

// Field size limits shared by validation and the schema.
const (
	FirstNameMaxLength   = 50
	LastNameMaxLength    = 50
	PasswordMinLength    = 6
	PasswordMaxLength    = 15
	TitleMaxLength       = 255
	DescriptionMaxLength = 5000

	RefreshTokenLength = 64
)

// PasswordPattern restricts passwords to letters, digits and a fixed
// set of punctuation characters.
const PasswordPattern = "^[A-Za-z0-9~'`!@#$%^&*()_+,.-]*$"

// Public success messages.
const (
	MsgRegistered     = "Account created successfully! Welcome to our platform."
	MsgLoggedOut      = "You have been successfully logged out. See you again soon!"
	MsgDeactivated    = "Account deactivated."
	MsgProductDeleted = "Product deleted successfully"
)
