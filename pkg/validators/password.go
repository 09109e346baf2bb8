package validators

import "errors"

var (
	ErrPasswordEmpty     = errors.New("no password provided")
	ErrPasswordTooShort  = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong   = errors.New("password must be 128 characters or less")
	ErrPasswordLowercase = errors.New("password must contain at least one lowercase letter")
	ErrPasswordUppercase = errors.New("password must contain at least one uppercase letter")
	ErrPasswordDigit     = errors.New("password must contain at least one digit")
	ErrPasswordSpecial   = errors.New("password must contain at least one special character")
)

const passwordSpecials = `!@#$%^&*(),.?":{}|<>`

func PasswordValidator(p string) error {
	if p == "" {
		return ErrPasswordEmpty
	}

	if len(p) < 8 {
		return ErrPasswordTooShort
	}

	if len(p) > 128 {
		return ErrPasswordTooLong
	}

	var lower, upper, digit, special bool

	for _, r := range p {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			for _, s := range passwordSpecials {
				if r == s {
					special = true
					break
				}
			}
		}
	}

	if !lower {
		return ErrPasswordLowercase
	}
	if !upper {
		return ErrPasswordUppercase
	}
	if !digit {
		return ErrPasswordDigit
	}
	if !special {
		return ErrPasswordSpecial
	}

	return nil
}
