// Proctor - webcam exam monitoring service.
// Conditions noisy per-frame vision signals into stable attention,
// presence, and identity states, and records them in an append-only
// session log served on a local dashboard.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Saurabh-Shisode/proctoring-v0/internal/config"
	"github.com/Saurabh-Shisode/proctoring-v0/internal/log"
	"github.com/Saurabh-Shisode/proctoring-v0/pkg/camera"
	"github.com/Saurabh-Shisode/proctoring-v0/pkg/detection"
	"github.com/Saurabh-Shisode/proctoring-v0/pkg/mesh"
	"github.com/Saurabh-Shisode/proctoring-v0/pkg/monitor"
	"github.com/Saurabh-Shisode/proctoring-v0/pkg/session"
	"github.com/Saurabh-Shisode/proctoring-v0/pkg/storage"
	"github.com/Saurabh-Shisode/proctoring-v0/pkg/web"
)

func main() {
	// .env is optional; real env vars win either way
	godotenv.Load()

	flags := parseFlags()
	log.Init(flags.logLevel)

	if err := run(flags); err != nil {
		log.Error("fatal", "error", err)
		os.Exit(1)
	}
}

type cliFlags struct {
	port       string
	modelPath  string
	enrollment string
	captureDir string
	meshURL    string
	cameraID   int
	logLevel   string
}

func parseFlags() cliFlags {
	f := cliFlags{}
	flag.StringVar(&f.port, "port", config.Port(), "dashboard port")
	flag.StringVar(&f.modelPath, "model", config.ModelPath(), "face detection ONNX model path")
	flag.StringVar(&f.enrollment, "enrollment", config.EnrollmentPath(), "enrolled embeddings JSON path")
	flag.StringVar(&f.captureDir, "captures", config.CaptureDir(), "violation frame output directory")
	flag.StringVar(&f.meshURL, "mesh-url", "", "landmark mesh sidecar URL (overrides MESH_URL)")
	flag.IntVar(&f.cameraID, "camera", config.CameraID(), "capture device index")
	flag.StringVar(&f.logLevel, "log-level", config.LogLevel(), "log level: debug, info, warn, error")
	flag.Parse()

	if f.meshURL == "" {
		f.meshURL = config.MeshURL()
	}
	if f.meshURL == "" {
		f.meshURL = "http://localhost:9100"
	}
	return f
}

func run(flags cliFlags) error {
	camCfg := camera.DefaultConfig()
	camCfg.DeviceID = flags.cameraID
	cam, err := camera.Open(camCfg)
	if err != nil {
		return fmt.Errorf("open webcam: %w", err)
	}
	defer cam.Close()

	detCfg := detection.DefaultConfig()
	detCfg.ModelPath = flags.modelPath
	detector, err := detection.NewYuNet(detCfg)
	if err != nil {
		return fmt.Errorf("load face detector: %w", err)
	}
	defer detector.Close()

	meshClient := mesh.NewClient(flags.meshURL)
	server := web.NewServer(flags.port)

	m, err := monitor.NewMonitor(monitor.DefaultConfig(), monitor.Deps{
		Source:     cam,
		Detector:   detector,
		Mesher:     meshClient,
		Embedder:   meshClient,
		Enrollment: storage.NewJSONStore(flags.enrollment),
		Sink:       &session.DirectorySink{Dir: flags.captureDir},

		OnEvent:     server.PublishEvent,
		OnViolation: server.RecordViolation,
		OnFrame:     server.PublishFrame,
		OnState: func(s monitor.Snapshot) {
			server.UpdateStatus(func(st *web.Status) {
				st.Monitoring = s.Monitoring
				st.SessionID = s.SessionID
				st.Attention = s.Attention
				st.Person = s.Person
				st.Presence = s.Presence
				st.FaceCount = s.FaceCount
			})
		},
	})
	if err != nil {
		return fmt.Errorf("build monitor: %w", err)
	}
	server.OnExport = m.ExportJSON

	server.StartAsync()
	if err := m.Start(); err != nil {
		return fmt.Errorf("start monitoring: %w", err)
	}
	log.Info("monitoring started", "port", flags.port, "mesh", flags.meshURL)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info("shutting down")
	doc := m.Stop()
	if err := saveDocument(doc); err != nil {
		log.Error("session export failed", "error", err)
	}
	return server.Shutdown()
}

// saveDocument writes the exported session record next to the
// enrollment data.
func saveDocument(doc session.Document) error {
	data, err := session.MarshalDocument(doc)
	if err != nil {
		return err
	}

	path := fmt.Sprintf("data/session_%s.json", time.Now().Format("20060102_150405"))
	if err := storage.NewJSONStore(path).Save(data); err != nil {
		return err
	}
	log.Info("session exported", "path", path, "events", doc.Statistics.TotalEvents)
	return nil
}
