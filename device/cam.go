package device

import (
	"context"
	"fmt"
	"strings"

	gocam "github.com/svanichkin/gocam"
)

// CameraFrame is the raw RGB frame type produced by the camera backend.
type CameraFrame = gocam.Frame

// Capture error taxonomy. Both map to the same user-visible notice; the
// pipeline stays idle without retrying.
var (
	ErrPermissionDenied  = fmt.Errorf("camera permission denied")
	ErrDeviceUnavailable = fmt.Errorf("no camera device available")
)

// StartCameraStream starts camera capture using gocam and returns a frame
// channel. The channel always holds the newest frame: when the consumer lags,
// the oldest buffered frame is dropped rather than queued.
func StartCameraStream(ctx context.Context) (<-chan CameraFrame, error) {
	src, err := gocam.StartStream(ctx)
	if err != nil {
		return nil, classifyCameraError(err)
	}

	out := make(chan CameraFrame, 2)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case f, ok := <-src:
				if !ok {
					return
				}
				if f.Width <= 0 || f.Height <= 0 || len(f.Data) < f.Width*f.Height*3 {
					continue
				}
				select {
				case out <- f:
				default:
					// consumer lagging: drop the stale frame, keep the newest
					select {
					case <-out:
					default:
					}
					select {
					case out <- f:
					default:
					}
				}
			}
		}
	}()
	return out, nil
}

func classifyCameraError(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "permission") || strings.Contains(msg, "denied") || strings.Contains(msg, "not authorized") {
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}
	return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
}
