package mailer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	require.NoError(t, validateEmail("brother@gtphipsi.org"))
	require.NoError(t, validateEmail("first.last+tag@gmail.com"))

	require.ErrorIs(t, validateEmail("not-an-email"), ErrInvalidEmailFormat)
	require.ErrorIs(t, validateEmail("missing@tld@double.com"), ErrInvalidEmailFormat)
	require.ErrorIs(t, validateEmail(""), ErrInvalidEmailFormat)
}
