package worker

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/furkanc/voicecloning-backend/internal/config"
	"github.com/furkanc/voicecloning-backend/pkg/logger"
	"github.com/pkg/errors"
)

type SynthesisRequest struct {
	JobID     string
	Text      string
	Quality   string
	VoiceDir  string
	OutputDir string
}

// Synthesizer produces one output audio file from a text and a set of
// reference voice samples. The model itself is external.
type Synthesizer interface {
	Synthesize(ctx context.Context, req *SynthesisRequest) (string, error)
}

type commandSynthesizer struct {
	cfg    *config.Config
	logger logger.Logger
}

func NewCommandSynthesizer(cfg *config.Config, log logger.Logger) Synthesizer {
	return &commandSynthesizer{
		cfg:    cfg,
		logger: log,
	}
}

// Synthesize shells out to the configured text-to-speech command and returns
// the path of the produced wav file.
func (s *commandSynthesizer) Synthesize(ctx context.Context, req *SynthesisRequest) (string, error) {
	outputPath := filepath.Join(req.OutputDir, fmt.Sprintf("%s.wav", req.JobID))
	cmd := exec.CommandContext(
		ctx,
		s.cfg.Synth.Command,
		"--text", req.Text,
		"--quality", req.Quality,
		"--voice-dir", req.VoiceDir,
		"--models-dir", s.cfg.Synth.ModelsDir,
		"--output", outputPath,
	)
	s.logger.Infof("running synthesis for job %s with quality %s", req.JobID, req.Quality)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", errors.Wrapf(err, "synthesis command failed: %s", string(output))
	}
	return outputPath, nil
}
