package i18n

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEveryKeyHasEnglish(t *testing.T) {
	for _, k := range Keys() {
		require.NotEmpty(t, T(k, English), "key %q has no English text", k)
	}
}

func TestHindiLookupAndFallback(t *testing.T) {
	require.Equal(t, "ग्राहक", T(KeyCustomers, Hindi))
	require.Equal(t, "Customers", T(KeyCustomers, English))
}

func TestUnknownKeyReturnsItself(t *testing.T) {
	require.Equal(t, "no_such_key", T(Key("no_such_key"), English))
}

func TestAllCoversEveryKey(t *testing.T) {
	en := All(English)
	hi := All(Hindi)
	require.Len(t, en, len(Keys()))
	require.Len(t, hi, len(Keys()))
	for k, v := range en {
		require.NotEmpty(t, v, "key %q empty in English table", k)
		require.NotEmpty(t, hi[k], "key %q empty in Hindi table", k)
	}
}
