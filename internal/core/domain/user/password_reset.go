package user

// PasswordResetToken is masked when formatted so it never ends up in logs.
type PasswordResetToken string

func (t PasswordResetToken) String() string {
	return "***"
}

type PasswordResetTokenGenerator interface {
	GeneratePasswordResetToken() (PasswordResetToken, error)
}
