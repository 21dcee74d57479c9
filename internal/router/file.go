package router

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/shiftgate/shiftgate/internal/utils"
)

// FileRouter publishes traffic weights as one JSON file per target for an
// external load balancer to watch. Each SetWeights call performs exactly
// one atomic write; a failed write means the previous weights still stand.
type FileRouter struct {
	dir string
	log zerolog.Logger
}

func NewFileRouter(dir string, log zerolog.Logger) (*FileRouter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create router dir: %w", err)
	}
	return &FileRouter{dir: dir, log: log}, nil
}

type upstream struct {
	Env    string `json:"env"`
	Weight int    `json:"weight"`
}

type weightsFile struct {
	Target    string    `json:"target"`
	Stable    upstream  `json:"stable"`
	Candidate upstream  `json:"candidate"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *FileRouter) SetWeights(ctx context.Context, target, stableEnv, candidateEnv string, stableWeight, candidateWeight int) error {
	payload := weightsFile{
		Target:    target,
		Stable:    upstream{Env: stableEnv, Weight: stableWeight},
		Candidate: upstream{Env: candidateEnv, Weight: candidateWeight},
		UpdatedAt: time.Now(),
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal weights: %w", err)
	}

	path := r.pathFor(target)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write weights: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("publish weights: %w", err)
	}

	r.log.Debug().
		Str("target", target).
		Int("stable", stableWeight).
		Int("candidate", candidateWeight).
		Msg("weights published")
	return nil
}

func (r *FileRouter) pathFor(target string) string {
	return filepath.Join(r.dir, utils.EnsureSuffix(utils.SanitizeName(target), ".json"))
}
