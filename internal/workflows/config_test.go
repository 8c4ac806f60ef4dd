package workflows

import (
	"context"
	"errors"
	"testing"

	sderrors "github.com/PolarWolf314/sdp/internal/errors"
	"github.com/PolarWolf314/sdp/internal/sdp"
)

func TestInitConfig(t *testing.T) {
	setupWorkflowEnv(t)

	shown, err := ShowConfig(context.Background())
	if err != nil {
		t.Fatalf("ShowConfig failed: %v", err)
	}
	if shown.Exists {
		t.Error("Expected no config file yet")
	}
	if int64(shown.Config.Encrypt.ChunkSize) != sdp.DefaultChunkSize {
		t.Errorf("Expected default chunk size, got %d", shown.Config.Encrypt.ChunkSize)
	}

	created, err := InitConfig(context.Background(), InitConfigOptions{
		DefaultRecipient: "evidence",
		ChunkSize:        4 << 20,
		DecryptOutputDir: "/tmp/recovered",
	})
	if err != nil {
		t.Fatalf("InitConfig failed: %v", err)
	}
	if !created.Exists {
		t.Error("Expected config file to exist after init")
	}

	shown, err = ShowConfig(context.Background())
	if err != nil {
		t.Fatalf("ShowConfig failed: %v", err)
	}
	if shown.Config.Keys.DefaultRecipient != "evidence" ||
		shown.Config.Encrypt.ChunkSize != 4<<20 ||
		shown.Config.Decrypt.OutputDir != "/tmp/recovered" {
		t.Errorf("Unexpected config %+v", shown.Config)
	}
}

func TestInitConfig_Errors(t *testing.T) {
	setupWorkflowEnv(t)

	if _, err := InitConfig(context.Background(), InitConfigOptions{}); err != nil {
		t.Fatalf("InitConfig failed: %v", err)
	}
	if _, err := InitConfig(context.Background(), InitConfigOptions{}); !errors.Is(err, sderrors.ErrConfigExists) {
		t.Errorf("Expected ErrConfigExists, got %v", err)
	}
	if _, err := InitConfig(context.Background(), InitConfigOptions{Force: true}); err != nil {
		t.Errorf("Expected Force to overwrite, got %v", err)
	}
	if _, err := InitConfig(context.Background(), InitConfigOptions{Force: true, ChunkSize: sdp.MaxChunkSize + 1}); !errors.Is(err, sderrors.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
	if _, err := InitConfig(context.Background(), InitConfigOptions{Force: true, DefaultRecipient: "../x"}); !errors.Is(err, sderrors.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for a bad recipient, got %v", err)
	}
}
