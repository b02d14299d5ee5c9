package device

import (
	"bufio"
	"context"
	"os"

	"golang.org/x/term"
)

// Key is one decoded keyboard press relevant to the application.
type Key byte

const (
	KeyNone Key = iota
	KeyQuit
	KeyTogglePlayback
	KeySnapshot
	KeyRandomize
	KeyToggleAutoRandom
	KeyTogglePanel
	KeyToggleMirror
	KeyToggleInvert
	KeyToggleGrayscale
	KeyStepDown
	KeyStepUp
	KeyReset
)

// StartKeyReader switches stdin into raw mode and returns a channel of
// decoded keys. The terminal state is restored when ctx is canceled. On a
// non-TTY stdin the returned channel stays open but never delivers.
func StartKeyReader(ctx context.Context) (<-chan Key, error) {
	out := make(chan Key, 8)

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return out, nil
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}

	go func() {
		<-ctx.Done()
		_ = term.Restore(fd, oldState)
	}()

	go func() {
		defer close(out)
		reader := bufio.NewReader(os.Stdin)
		for {
			b, err := reader.ReadByte()
			if err != nil {
				return
			}
			key := decodeKey(b)
			if key == KeyNone {
				continue
			}
			select {
			case out <- key:
			case <-ctx.Done():
				return
			}
			if key == KeyQuit {
				return
			}
		}
	}()

	return out, nil
}

func decodeKey(b byte) Key {
	switch b {
	case 'q', 'Q', 0x03: // Ctrl-C arrives as a raw byte in raw mode
		return KeyQuit
	case ' ':
		return KeyTogglePlayback
	case 's':
		return KeySnapshot
	case 'r':
		return KeyRandomize
	case 'R':
		return KeyToggleAutoRandom
	case '\t':
		return KeyTogglePanel
	case 'm', 'M':
		return KeyToggleMirror
	case 'i', 'I':
		return KeyToggleInvert
	case 'g', 'G':
		return KeyToggleGrayscale
	case '[':
		return KeyStepDown
	case ']':
		return KeyStepUp
	case '0':
		return KeyReset
	default:
		return KeyNone
	}
}
