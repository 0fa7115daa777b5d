// Package monitor runs the per-frame proctoring loop: it pulls webcam
// frames, fans them out to the detection and landmark collaborators,
// and feeds the results through calibration, attention, presence, and
// identity into the session log.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Saurabh-Shisode/proctoring-v0/internal/log"
	"github.com/Saurabh-Shisode/proctoring-v0/pkg/attention"
	"github.com/Saurabh-Shisode/proctoring-v0/pkg/detection"
	"github.com/Saurabh-Shisode/proctoring-v0/pkg/identity"
	"github.com/Saurabh-Shisode/proctoring-v0/pkg/landmarks"
	"github.com/Saurabh-Shisode/proctoring-v0/pkg/presence"
	"github.com/Saurabh-Shisode/proctoring-v0/pkg/session"
	"github.com/Saurabh-Shisode/proctoring-v0/pkg/storage"
)

// ErrMissingCollaborator is returned when a required dependency or
// callback is absent at construction.
var ErrMissingCollaborator = errors.New("missing required collaborator")

// ErrAlreadyRunning is returned by Start when a session is active.
var ErrAlreadyRunning = errors.New("monitoring already running")

// FaceDetector locates faces in a frame.
type FaceDetector interface {
	Detect(jpeg []byte) ([]detection.Detection, error)
}

// LandmarkMesher produces the facial landmark set for the primary face.
// An empty set means no face was meshed this frame.
type LandmarkMesher interface {
	Landmarks(ctx context.Context, jpeg []byte) (landmarks.Set, error)
}

// Embedder computes a face embedding for the primary face, with the
// model's quality score for the crop it embedded.
type Embedder interface {
	Embedding(ctx context.Context, jpeg []byte) (identity.Embedding, float64, error)
}

// Snapshot is the externally visible monitoring state, published after
// every processed frame.
type Snapshot struct {
	Monitoring bool
	SessionID  string
	Attention  string
	Person     string
	Presence   string
	FaceCount  int
}

// Deps wires the monitor to its collaborators. Source, Detector,
// Mesher, OnEvent, and OnViolation are required. Embedder and
// Enrollment enable identity checks; Sink enables violation frame
// capture; OnFrame and OnState feed the dashboard.
type Deps struct {
	Source     session.FrameSource
	Detector   FaceDetector
	Mesher     LandmarkMesher
	Embedder   Embedder
	Enrollment storage.Store
	Sink       session.Sink

	OnEvent     session.EventFunc
	OnViolation session.ViolationFunc
	OnFrame     func(jpeg []byte)
	OnState     func(Snapshot)
}

// Monitor owns one proctoring session at a time. All signal state is
// touched only on the monitoring goroutine; the mutex guards the
// fields read from other goroutines (export, status).
type Monitor struct {
	cfg  Config
	deps Deps

	sessionLog *session.Log

	calibrator *attention.Calibrator
	classifier *attention.Classifier
	machine    *attention.Machine
	presence   *presence.Monitor
	verifier   *identity.Verifier

	startedAt    time.Time
	lastIdentity time.Time

	mu       sync.RWMutex
	running  bool
	baseline attention.Baseline

	stop chan struct{}
	done chan struct{}

	now func() time.Time
}

// NewMonitor validates the wiring and builds an idle monitor.
func NewMonitor(cfg Config, deps Deps) (*Monitor, error) {
	if deps.Source == nil || deps.Detector == nil || deps.Mesher == nil {
		return nil, fmt.Errorf("%w: frame source, detector, and mesher are required", ErrMissingCollaborator)
	}
	if deps.OnEvent == nil || deps.OnViolation == nil {
		return nil, fmt.Errorf("%w: event and violation callbacks are required", ErrMissingCollaborator)
	}

	var capture *session.Capture
	if deps.Sink != nil {
		capture = session.NewCapture(cfg.CaptureInterval, deps.Source, deps.Sink)
	}

	sessionLog, err := session.NewLog(deps.OnEvent, deps.OnViolation, capture)
	if err != nil {
		return nil, err
	}

	return &Monitor{
		cfg:        cfg,
		deps:       deps,
		sessionLog: sessionLog,
		calibrator: attention.NewCalibrator(cfg.Attention),
		machine:    attention.NewMachine(cfg.Attention),
		presence:   presence.NewMonitor(),
		verifier:   identity.NewVerifier(cfg.Identity, nil),
		now:        time.Now,
	}, nil
}

// Start begins a monitoring session and returns once the loop is
// running.
func (m *Monitor) Start() error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return ErrAlreadyRunning
	}
	m.running = true
	m.mu.Unlock()

	m.begin()

	m.stop = make(chan struct{})
	m.done = make(chan struct{})
	go m.loop()
	return nil
}

// begin resets all per-session state, loads enrollment, and opens the
// session log.
func (m *Monitor) begin() {
	m.calibrator.Reset()
	m.machine.Reset()
	m.presence.Reset()

	m.mu.Lock()
	m.classifier = nil
	m.baseline = attention.Baseline{}
	m.mu.Unlock()

	m.startedAt = m.now()
	m.lastIdentity = time.Time{}

	m.sessionLog.Start()

	enrolled := m.loadEnrollment()
	m.verifier = identity.NewVerifier(m.cfg.Identity, enrolled)

	if m.verifier.Enabled() {
		log.Info("identity verification enabled", "enrolled", len(enrolled))
	} else if m.deps.Embedder != nil {
		m.sessionLog.LogEvent("Face recognition disabled - no enrolled faces", session.SeverityInfo, session.ReasonNone)
	}
}

// loadEnrollment reads the enrolled embeddings. A load failure degrades
// to identity-disabled and is surfaced as a session error event rather
// than aborting the session.
func (m *Monitor) loadEnrollment() []identity.Embedding {
	if m.deps.Enrollment == nil || m.deps.Embedder == nil {
		return nil
	}
	enrolled, err := identity.LoadEnrollment(m.deps.Enrollment)
	if err != nil {
		log.Error("enrollment load failed", "error", err)
		m.sessionLog.LogEvent("Failed to load enrolled faces", session.SeverityError, session.ReasonNone)
		return nil
	}
	return enrolled
}

// Stop ends the session and returns the exported session document.
func (m *Monitor) Stop() session.Document {
	m.mu.Lock()
	wasRunning := m.running
	m.running = false
	m.mu.Unlock()

	if wasRunning {
		close(m.stop)
		<-m.done
		m.sessionLog.End()
	}

	m.mu.RLock()
	base := m.baseline
	m.mu.RUnlock()
	return m.sessionLog.Export(base)
}

// ExportJSON renders the current session document, usable while the
// session is still running.
func (m *Monitor) ExportJSON() ([]byte, error) {
	m.mu.RLock()
	base := m.baseline
	m.mu.RUnlock()
	return session.MarshalDocument(m.sessionLog.Export(base))
}

// Running reports whether a session is active.
func (m *Monitor) Running() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running
}

func (m *Monitor) loop() {
	defer close(m.done)

	ticker := time.NewTicker(m.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.tick()
			// Re-check after the tick so a stop requested mid-frame
			// does not wait out another interval.
			select {
			case <-m.stop:
				return
			default:
			}
		}
	}
}

type detectResult struct {
	dets []detection.Detection
	err  error
}

type meshResult struct {
	set landmarks.Set
	err error
}

// tick processes one frame end to end. Detection and landmark meshing
// run concurrently; both are awaited before any state is touched, so
// every component sees a consistent frame.
func (m *Monitor) tick() {
	frame, err := m.deps.Source.CaptureJPEG()
	if err != nil {
		log.Debug("frame capture failed", "error", err)
		m.machine.ResetCounters()
		m.verifier.ResetCounters()
		return
	}

	if m.deps.OnFrame != nil {
		m.deps.OnFrame(frame)
	}

	ctx := context.Background()

	detCh := make(chan detectResult, 1)
	meshCh := make(chan meshResult, 1)
	go func() {
		dets, err := m.deps.Detector.Detect(frame)
		detCh <- detectResult{dets: dets, err: err}
	}()
	go func() {
		set, err := m.deps.Mesher.Landmarks(ctx, frame)
		meshCh <- meshResult{set: set, err: err}
	}()
	det := <-detCh
	msh := <-meshCh

	if det.err != nil {
		log.Debug("face detection failed", "error", det.err)
		m.machine.ResetCounters()
		m.verifier.ResetCounters()
		m.publishState()
		return
	}

	count := len(det.dets)
	m.observePresence(count)

	if count != 1 {
		m.verifier.ResetCounters()
	}

	m.observeAttention(count, msh)

	if count == 1 {
		m.checkIdentity(ctx, frame)
	}

	m.publishState()
}

// observePresence records the frame's face count and emits the
// presence events and entries.
func (m *Monitor) observePresence(count int) {
	ch := m.presence.Observe(count)

	if ch.CountChanged {
		m.sessionLog.Append(session.Entry{
			Kind:      session.KindFaceCountChange,
			FaceCount: &session.FaceCountChange{Previous: ch.Previous, Current: ch.Current},
		})
	}

	if !ch.Transition {
		return
	}

	switch ch.State {
	case presence.StateNone:
		m.sessionLog.LogEvent("No face detected", session.SeverityViolation, session.ReasonPresence)
	case presence.StateMultiple:
		m.sessionLog.LogEvent("Multiple faces detected", session.SeverityViolation, session.ReasonPresence)
	case presence.StateSingle:
		m.sessionLog.LogEvent("Single face detected - OK", session.SeverityInfo, session.ReasonNone)
	}
}

// observeAttention runs the calibration/classification pipeline on the
// frame's landmarks. Frames with no usable head pose clear the
// confirmation counters but never fabricate a classification.
func (m *Monitor) observeAttention(count int, msh meshResult) {
	if count == 0 || msh.err != nil || len(msh.set) == 0 {
		if msh.err != nil {
			log.Debug("landmark mesh failed", "error", msh.err)
		}
		m.machine.ResetCounters()
		return
	}

	yaw, pitch, err := landmarks.HeadPose(msh.set)
	if err != nil {
		log.Debug("head pose unavailable", "error", err)
		m.machine.ResetCounters()
		return
	}
	gaze, gazeOK := landmarks.Gaze(msh.set)

	if !m.calibrator.Complete() {
		if m.calibrator.Observe(yaw, pitch, gaze, gazeOK) {
			m.finishCalibration()
		}
		return
	}

	f := m.classifier.Classify(yaw, pitch, gaze, gazeOK)
	tr := m.machine.Observe(f)
	if tr == nil {
		return
	}

	m.sessionLog.Append(session.Entry{
		Kind: session.KindAttentionChange,
		Attention: &session.AttentionChange{
			From:       tr.From.String(),
			To:         tr.To.String(),
			Cause:      string(tr.Cause),
			DurationMs: tr.Duration.Milliseconds(),
		},
	})

	switch tr.To {
	case attention.StateDistracted:
		m.sessionLog.LogEvent("Sustained distraction detected", session.SeverityViolation, session.ReasonAttention)
	case attention.StateFocused:
		m.sessionLog.LogEvent("Focus restored", session.SeverityInfo, session.ReasonNone)
	}
}

// finishCalibration freezes the baseline, builds the classifier, and
// records the calibration entry.
func (m *Monitor) finishCalibration() {
	base := m.calibrator.Baseline()

	m.mu.Lock()
	m.baseline = base
	m.classifier = attention.NewClassifier(m.cfg.Attention, base)
	m.mu.Unlock()

	m.sessionLog.Append(session.Entry{Kind: session.KindCalibrationComplete, Baseline: &base})
	m.sessionLog.LogEvent("Calibration complete - monitoring started", session.SeverityInfo, session.ReasonNone)
	log.Info("calibration complete", "yaw", base.Yaw, "pitch", base.Pitch, "gaze", base.Gaze)
}

// checkIdentity runs one scheduled identity check. The schedule is only
// consumed when an embedding attempt actually happens, so checks missed
// during multi-face or no-face intervals run at the next opportunity.
func (m *Monitor) checkIdentity(ctx context.Context, frame []byte) {
	if !m.verifier.Enabled() || m.deps.Embedder == nil {
		return
	}

	now := m.now()
	if now.Sub(m.startedAt) < m.cfg.IdentityInitialDelay {
		return
	}
	if !m.lastIdentity.IsZero() && now.Sub(m.lastIdentity) < m.cfg.IdentityInterval {
		return
	}
	m.lastIdentity = now

	emb, conf, err := m.deps.Embedder.Embedding(ctx, frame)
	if err != nil {
		log.Debug("embedding failed", "error", err)
		m.verifier.ResetCounters()
		return
	}
	log.Debug("identity check", "confidence", conf, "dims", len(emb))

	res := m.verifier.Observe(emb)
	if res == nil {
		return
	}

	authorized := res.To == identity.StateAuthorized
	m.sessionLog.Append(session.Entry{
		Kind: session.KindFaceRecognition,
		Recognition: &session.RecognitionResult{
			Authorized: authorized,
			Distance:   res.Distance,
			Threshold:  res.Threshold,
		},
	})

	if authorized {
		m.sessionLog.LogEvent("Authorized person verified", session.SeverityInfo, session.ReasonNone)
	} else {
		m.sessionLog.LogEvent("Wrong person detected", session.SeverityViolation, session.ReasonIdentity)
	}
}

// publishState pushes the post-frame snapshot to the dashboard.
func (m *Monitor) publishState() {
	if m.deps.OnState == nil {
		return
	}

	m.mu.RLock()
	running := m.running
	m.mu.RUnlock()

	m.deps.OnState(Snapshot{
		Monitoring: running,
		SessionID:  m.sessionLog.ID(),
		Attention:  m.machine.State().String(),
		Person:     m.verifier.State().String(),
		Presence:   m.presence.State().String(),
		FaceCount:  m.presence.Count(),
	})
}
