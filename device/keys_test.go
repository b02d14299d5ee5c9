package device

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeKey(t *testing.T) {
	cases := map[byte]Key{
		'q':  KeyQuit,
		'Q':  KeyQuit,
		0x03: KeyQuit,
		' ':  KeyTogglePlayback,
		's':  KeySnapshot,
		'r':  KeyRandomize,
		'R':  KeyToggleAutoRandom,
		'\t': KeyTogglePanel,
		'm':  KeyToggleMirror,
		'M':  KeyToggleMirror,
		'i':  KeyToggleInvert,
		'g':  KeyToggleGrayscale,
		'[':  KeyStepDown,
		']':  KeyStepUp,
		'0':  KeyReset,
		'z':  KeyNone,
		0x1b: KeyNone,
	}
	for b, want := range cases {
		require.Equal(t, want, decodeKey(b), "byte %q", b)
	}
}
