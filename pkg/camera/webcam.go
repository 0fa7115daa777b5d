package camera

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Webcam reads frames from a local capture device and encodes them as
// JPEG. Safe for concurrent callers; reads are serialized.
type Webcam struct {
	mu      sync.Mutex
	cap     *gocv.VideoCapture
	img     gocv.Mat
	quality int
}

// Open opens the capture device and applies the configuration.
func Open(cfg Config) (*Webcam, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cap, err := gocv.OpenVideoCapture(cfg.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", cfg.DeviceID, err)
	}

	cap.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	cap.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	cap.Set(gocv.VideoCaptureFPS, float64(cfg.Framerate))

	return &Webcam{
		cap:     cap,
		img:     gocv.NewMat(),
		quality: cfg.Quality,
	}, nil
}

// CaptureJPEG grabs one frame and returns it as JPEG bytes.
func (w *Webcam) CaptureJPEG() ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if ok := w.cap.Read(&w.img); !ok || w.img.Empty() {
		return nil, fmt.Errorf("camera read failed")
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, w.img, []int{gocv.IMWriteJpegQuality, w.quality})
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())
	return data, nil
}

// Close releases the capture device.
func (w *Webcam) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.img.Close()
	return w.cap.Close()
}
