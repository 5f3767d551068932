package admincli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordPasswords stubs readPassword and keeps every slice it hands out.
func recordPasswords(t *testing.T, entries ...string) *[][]byte {
	t.Helper()
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	var handed [][]byte
	readPassword = func(int) ([]byte, error) {
		pw := []byte(entries[0])
		entries = entries[1:]
		handed = append(handed, pw)
		return pw, nil
	}
	return &handed
}

func assertWiped(t *testing.T, handed [][]byte) {
	t.Helper()
	for i, b := range handed {
		assert.Equal(t, make([]byte, len(b)), b, "entry %d not wiped", i)
	}
}

func TestGetNewPassword_WipesEntries(t *testing.T) {
	handed := recordPasswords(t, "Sup3rSecret!", "Sup3rSecret!")
	var out bytes.Buffer

	pw, err := GetNewPassword(&out)
	require.NoError(t, err)
	assert.Equal(t, "Sup3rSecret!", pw)
	require.Len(t, *handed, 2)
	assertWiped(t, *handed)
}

func TestGetNewPassword_MismatchWipesEntries(t *testing.T) {
	handed := recordPasswords(t, "Sup3rSecret!", "different1")
	var out bytes.Buffer

	_, err := GetNewPassword(&out)
	assert.EqualError(t, err, "passwords do not match")
	require.Len(t, *handed, 2)
	assertWiped(t, *handed)
}
