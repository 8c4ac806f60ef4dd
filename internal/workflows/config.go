package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/sdp/internal/configs"
	sderrors "github.com/PolarWolf314/sdp/internal/errors"
	"github.com/PolarWolf314/sdp/internal/utils"
)

// InitConfigOptions configures config init.
type InitConfigOptions struct {
	DefaultRecipient string

	// ChunkSize is the encrypt.chunk_size to record. 0 keeps the default.
	ChunkSize int64

	EncryptOutputDir string
	DecryptOutputDir string

	// Force overwrites an existing config file.
	Force bool
}

// ConfigResult describes the user configuration on disk.
type ConfigResult struct {
	Path   string
	Exists bool
	Config *configs.UserConfig
}

// InitConfig writes a new user config file.
//
// Returns ErrConfigExists if a config file is present and Force is not set.
// Returns ErrInvalidConfig if a value is out of range.
func InitConfig(ctx context.Context, opts InitConfigOptions) (*ConfigResult, error) {
	path := configs.ConfigPath()
	if configs.ConfigExists() && !opts.Force {
		return nil, fmt.Errorf("%w: %s", sderrors.ErrConfigExists, path)
	}

	cfg := configs.DefaultUserConfig()
	cfg.Keys.DefaultRecipient = opts.DefaultRecipient
	if opts.ChunkSize != 0 {
		cfg.Encrypt.ChunkSize = utils.ByteSize(opts.ChunkSize)
	}
	cfg.Encrypt.OutputDir = opts.EncryptOutputDir
	cfg.Decrypt.OutputDir = opts.DecryptOutputDir

	if err := configs.SaveUserConfig(cfg); err != nil {
		return nil, err
	}

	return &ConfigResult{Path: path, Exists: true, Config: cfg}, nil
}

// ShowConfig returns the effective user configuration. A missing file
// yields the defaults.
func ShowConfig(ctx context.Context) (*ConfigResult, error) {
	cfg, err := configs.LoadUserConfig()
	if err != nil {
		return nil, err
	}
	return &ConfigResult{
		Path:   configs.ConfigPath(),
		Exists: configs.ConfigExists(),
		Config: cfg,
	}, nil
}
