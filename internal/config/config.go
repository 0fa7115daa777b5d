// Package config provides configuration helpers for proctoring commands.
package config

import (
	"os"
	"strconv"
)

// Default service configuration.
const (
	DefaultPort           = "8090"
	DefaultModelPath      = "models/face_detection_yunet.onnx"
	DefaultEnrollmentPath = "data/enrolled_faces.json"
	DefaultCaptureDir     = "captures"
)

// Port returns the dashboard port from PROCTOR_PORT env var or default.
func Port() string {
	if p := os.Getenv("PROCTOR_PORT"); p != "" {
		return p
	}
	return DefaultPort
}

// ModelPath returns the face detection model path from FACE_MODEL env var
// or default.
func ModelPath() string {
	if p := os.Getenv("FACE_MODEL"); p != "" {
		return p
	}
	return DefaultModelPath
}

// EnrollmentPath returns the enrolled embeddings file path from
// ENROLLMENT_FILE env var or default.
func EnrollmentPath() string {
	if p := os.Getenv("ENROLLMENT_FILE"); p != "" {
		return p
	}
	return DefaultEnrollmentPath
}

// CaptureDir returns the violation frame output directory from CAPTURE_DIR
// env var or default.
func CaptureDir() string {
	if d := os.Getenv("CAPTURE_DIR"); d != "" {
		return d
	}
	return DefaultCaptureDir
}

// MeshURL returns the landmark mesh sidecar URL from MESH_URL env var.
// Empty means no mesh collaborator is configured.
func MeshURL() string {
	return os.Getenv("MESH_URL")
}

// CameraID returns the capture device index from CAMERA_ID env var or 0.
func CameraID() int {
	if v := os.Getenv("CAMERA_ID"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			return id
		}
	}
	return 0
}

// LogLevel returns the log level from LOG_LEVEL env var or "info".
func LogLevel() string {
	if l := os.Getenv("LOG_LEVEL"); l != "" {
		return l
	}
	return "info"
}
