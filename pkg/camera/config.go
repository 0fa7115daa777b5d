// Package camera provides the webcam frame source for the monitoring
// loop. Frames are delivered as JPEG bytes so every downstream
// consumer (detector, mesher, capture sink, dashboard stream) shares
// one encode.
package camera

import "fmt"

// Config holds webcam capture parameters.
type Config struct {
	DeviceID  int `json:"device_id"` // Capture device index
	Width     int `json:"width"`     // Frame width in pixels
	Height    int `json:"height"`    // Frame height in pixels
	Framerate int `json:"framerate"` // Target FPS
	Quality   int `json:"quality"`   // JPEG quality 1-100
}

// DefaultConfig returns the recommended capture configuration.
// 640x480 keeps detection latency low; face landmarks do not benefit
// from higher resolutions at typical webcam distances.
func DefaultConfig() Config {
	return Config{
		DeviceID:  0,
		Width:     640,
		Height:    480,
		Framerate: 30,
		Quality:   85,
	}
}

// Validate checks the configuration bounds.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid resolution %dx%d", c.Width, c.Height)
	}
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("invalid JPEG quality %d", c.Quality)
	}
	if c.Framerate <= 0 {
		return fmt.Errorf("invalid framerate %d", c.Framerate)
	}
	return nil
}
