package secrets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func newBox(t *testing.T) *Box {
	t.Helper()
	box, err := New(testKey)
	require.NoError(t, err)
	return box
}

func TestNewRejectsBadKeys(t *testing.T) {
	_, err := New("not-hex")
	require.Error(t, err)

	_, err = New("0001")
	require.Error(t, err)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	box := newBox(t)

	cases := []string{
		"42",
		"The answer is Paris",
		"",
		"答案是北京",
		"  spaces preserved  ",
		strings.Repeat("long", 1000),
	}

	for _, plaintext := range cases {
		ciphertext, err := box.Encrypt(plaintext)
		require.NoError(t, err)
		require.True(t, box.IsEncrypted(ciphertext))

		decrypted, err := box.Decrypt(ciphertext)
		require.NoError(t, err)
		require.Equal(t, plaintext, decrypted)
	}
}

func TestEncryptUsesFreshNonce(t *testing.T) {
	box := newBox(t)

	first, err := box.Encrypt("same input")
	require.NoError(t, err)
	second, err := box.Encrypt("same input")
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestDecryptRejectsMalformedInput(t *testing.T) {
	box := newBox(t)

	for _, input := range []string{
		"",
		"no-separator",
		"zzzz:zzzz",
		"abcd:1234", // nonce 太短
	} {
		_, err := box.Decrypt(input)
		require.ErrorIs(t, err, ErrDecryption)
	}
}

func TestDecryptRejectsTamperedCiphertext(t *testing.T) {
	box := newBox(t)

	ciphertext, err := box.Encrypt("secret")
	require.NoError(t, err)

	tampered := ciphertext[:len(ciphertext)-2] + "00"
	if tampered == ciphertext {
		tampered = ciphertext[:len(ciphertext)-2] + "11"
	}
	_, err = box.Decrypt(tampered)
	require.ErrorIs(t, err, ErrDecryption)
}

func TestDecryptRejectsWrongKey(t *testing.T) {
	box := newBox(t)
	other, err := New("ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff")
	require.NoError(t, err)

	ciphertext, err := box.Encrypt("secret")
	require.NoError(t, err)

	_, err = other.Decrypt(ciphertext)
	require.ErrorIs(t, err, ErrDecryption)
}

func TestIsEncryptedDetectsLegacyPlaintext(t *testing.T) {
	box := newBox(t)

	// 加密功能上线前落库的都是明文
	require.False(t, box.IsEncrypted("Paris"))
	require.False(t, box.IsEncrypted("answer:with:colons"))
	require.False(t, box.IsEncrypted(""))

	ciphertext, err := box.Encrypt("Paris")
	require.NoError(t, err)
	require.True(t, box.IsEncrypted(ciphertext))
}
