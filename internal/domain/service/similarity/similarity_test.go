package similarity_test

import (
	"crypto/sha1" //nolint:gosec
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"smartdeals/internal/domain/service/similarity"
)

func TestNormalize(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "Punctuation and case", input: "RTX 5060!!", want: "rtx 5060"},
		{name: "Collapsed whitespace", input: "  Placa   de\tVídeo ", want: "placa de v deo"},
		{name: "Symbols only", input: "!!!", want: ""},
		{name: "Empty", input: "", want: ""},
		{name: "Hyphenated model", input: "GeForce-RTX_5060 Ti", want: "geforce rtx 5060 ti"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			rq.Equal(tc.want, similarity.Normalize(tc.input))
		})
	}
}

func TestKey(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name      string
		a         [3]string
		b         [3]string
		wantEqual bool
	}{
		{
			name:      "Case and punctuation insensitive",
			a:         [3]string{"RTX 5060!!", "", ""},
			b:         [3]string{"rtx 5060", "", ""},
			wantEqual: true,
		},
		{
			name:      "Brand and model swap",
			a:         [3]string{"Placa de video", "Asus", "Dual"},
			b:         [3]string{"Placa de video", "Dual", "Asus"},
			wantEqual: false,
		},
		{
			name:      "Different brand",
			a:         [3]string{"Tenis 574", "New Balance", ""},
			b:         [3]string{"Tenis 574", "Nike", ""},
			wantEqual: false,
		},
		{
			name:      "Field boundary matters",
			a:         [3]string{"a b", "", ""},
			b:         [3]string{"a", "b", ""},
			wantEqual: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			ka := similarity.Key(tc.a[0], tc.a[1], tc.a[2])
			kb := similarity.Key(tc.b[0], tc.b[1], tc.b[2])

			rq.Len(ka, 40)
			rq.Equal(tc.wantEqual, ka == kb)
		})
	}
}

func TestKeyStableDigest(t *testing.T) {
	rq := require.New(t)

	sum := sha1.Sum([]byte("rtx 5060|asus|dual")) //nolint:gosec

	rq.Equal(hex.EncodeToString(sum[:]), similarity.Key("RTX-5060", " ASUS ", "Dual."))
	rq.Equal(similarity.Key("", "", ""), similarity.Key("!!", "  ", "--"))
}
