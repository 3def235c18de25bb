package assistant

import (
	"io"

	"sonny/internal/capture"
	"sonny/internal/config"
	"sonny/internal/knowledge"
	"sonny/internal/memory"
	"sonny/internal/reasoner"
	"sonny/internal/voice"

	"go.uber.org/zap"
)

// Initializer constructs each subsystem in isolation. A failure in one
// role never prevents the others from being attempted; the system starts
// in degraded mode with the failed roles absent.
type Initializer struct {
	cfg *config.Config
	log *zap.Logger

	// Constructor hooks, overridable in tests.
	newReasoner  func() (Reasoner, func() error, error)
	newMemory    func() (MemoryStore, func() error, error)
	newMesh      func() (MemoryStore, func() error, error)
	newKnowledge func() (Knowledge, error)
	newVoice     func() (Speaker, error)
	newCapture   func() (Listener, []string, error)
}

// NewInitializer wires the real subsystem constructors.
func NewInitializer(cfg *config.Config, log *zap.Logger) *Initializer {
	ini := &Initializer{cfg: cfg, log: log}

	ini.newReasoner = func() (Reasoner, func() error, error) {
		return reasoner.New(cfg, log.Named("reasoner"))
	}
	ini.newMemory = func() (MemoryStore, func() error, error) {
		engine, err := memory.NewEngine(cfg.Memory.StorePath, log.Named("memory"))
		if err != nil {
			return nil, nil, err
		}
		return engine, engine.Close, nil
	}
	ini.newMesh = func() (MemoryStore, func() error, error) {
		mesh, err := memory.NewMeshBridge(cfg.Memory.MeshDir)
		if err != nil {
			return nil, nil, err
		}
		return mesh, mesh.Close, nil
	}
	ini.newKnowledge = func() (Knowledge, error) {
		return knowledge.NewClient(knowledge.Config{
			APIKey:  cfg.Knowledge.APIKey,
			BaseURL: cfg.Knowledge.BaseURL,
			Model:   cfg.Knowledge.Model,
			Timeout: cfg.GetKnowledgeTimeout(),
		})
	}
	ini.newVoice = func() (Speaker, error) {
		return voice.NewSynthesizer(voice.Config{
			BaseURL: cfg.Voice.BaseURL,
			VoiceID: cfg.Voice.VoiceID,
			Speed:   cfg.Voice.Speed,
			Timeout: cfg.GetVoiceTimeout(),
		})
	}
	ini.newCapture = func() (Listener, []string, error) {
		mic, devices, err := capture.NewMicrophone(capture.Config{
			BaseURL:     cfg.Capture.BaseURL,
			DeviceIndex: cfg.Capture.MicIndex,
		})
		if err != nil {
			return nil, devices, err
		}
		return mic, devices, nil
	}

	return ini
}

// Initialize attempts every role and returns the populated registry.
// It never fails: construction errors are downgraded to absent roles,
// with one log line per role either way.
func (ini *Initializer) Initialize() *Registry {
	reg := &Registry{}

	if r, cleanupFn, err := ini.newReasoner(); err != nil {
		ini.log.Warn("reasoner unavailable", zap.Error(err))
	} else {
		reg.Reasoner = r
		if cleanupFn != nil {
			reg.addCleanup("reasoner", cleanupFn)
		}
		ini.log.Info("reasoner ready",
			zap.String("provider", ini.cfg.Reasoner.Provider),
			zap.String("model", ini.cfg.Reasoner.Model))
	}

	if m, closeFn, err := ini.newMemory(); err != nil {
		ini.log.Warn("memory engine unavailable", zap.Error(err))
	} else {
		reg.Memory = m
		if closeFn != nil {
			reg.addCleanup("memory engine", closeFn)
		}
		ini.log.Info("memory engine ready", zap.String("path", ini.cfg.Memory.StorePath))
	}

	if m, closeFn, err := ini.newMesh(); err != nil {
		ini.log.Warn("conversation memory unavailable", zap.Error(err))
	} else {
		reg.Mesh = m
		if closeFn != nil {
			reg.addCleanup("conversation memory", closeFn)
		}
		ini.log.Info("conversation memory ready", zap.String("dir", ini.cfg.Memory.MeshDir))
	}

	if !ini.cfg.Knowledge.Enabled {
		ini.log.Info("knowledge lookup disabled")
	} else if k, err := ini.newKnowledge(); err != nil {
		ini.log.Warn("knowledge lookup unavailable", zap.Error(err))
	} else {
		reg.Knowledge = k
		ini.log.Info("knowledge lookup ready")
	}

	if !ini.cfg.Voice.Enabled {
		ini.log.Info("voice output disabled")
	} else if v, err := ini.newVoice(); err != nil {
		ini.log.Warn("voice output unavailable", zap.Error(err))
	} else {
		reg.Voice = v
		if c, ok := v.(io.Closer); ok {
			reg.addCleanup("voice output", c.Close)
		}
		ini.log.Info("voice output ready", zap.String("voice", ini.cfg.Voice.VoiceID))
	}

	if ini.cfg.Mode != "voice" || !ini.cfg.Capture.Enabled {
		ini.log.Info("audio capture disabled, using text input")
	} else if l, devices, err := ini.newCapture(); err != nil {
		reg.CaptureDevices = devices
		ini.log.Warn("audio capture unavailable, falling back to text input",
			zap.Strings("devices", devices), zap.Error(err))
	} else {
		reg.Capture = l
		reg.CaptureDevices = devices
		if c, ok := l.(io.Closer); ok {
			reg.addCleanup("audio capture", c.Close)
		}
		ini.log.Info("audio capture ready",
			zap.Int("device", ini.cfg.Capture.MicIndex),
			zap.Strings("devices", devices))
	}

	if ini.cfg.Vision {
		// No vision engine ships in this build; the flag only surfaces intent.
		ini.log.Warn("vision requested but no vision engine is available")
	}

	return reg
}
