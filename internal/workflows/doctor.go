package workflows

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/PolarWolf314/sdp/internal/audit"
	"github.com/PolarWolf314/sdp/internal/configs"
	sderrors "github.com/PolarWolf314/sdp/internal/errors"
	"github.com/PolarWolf314/sdp/internal/keys"
	"github.com/PolarWolf314/sdp/internal/sdp"
)

// CheckStatus represents the result status of a health check.
type CheckStatus int

const (
	// CheckPass means the check passed.
	CheckPass CheckStatus = iota
	// CheckWarning means the check found a non-critical issue.
	CheckWarning
	// CheckError means the check found a critical issue.
	CheckError
)

// String returns a string representation of CheckStatus.
func (s CheckStatus) String() string {
	switch s {
	case CheckPass:
		return "pass"
	case CheckWarning:
		return "warning"
	case CheckError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for CheckStatus.
func (s CheckStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// CheckResult holds the result of a single health check.
type CheckResult struct {
	Name       string      `json:"name"`
	Status     CheckStatus `json:"status"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// DoctorResult holds the complete result of the doctor workflow.
type DoctorResult struct {
	Checks      []CheckResult `json:"checks"`
	Summary     DoctorSummary `json:"summary"`
	Suggestions []string      `json:"suggestions,omitempty"`
}

// DoctorSummary holds counts of checks by status.
type DoctorSummary struct {
	Passed   int `json:"passed"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}

// Doctor runs health checks on the local sdp setup.
//
// The doctor workflow checks:
//   - User configuration validity
//   - Key store presence
//   - Default recipient existence
//   - Private key permissions
//   - Key pair consistency
//   - Audit log readability
func Doctor(ctx context.Context) (*DoctorResult, error) {
	checks := []func() CheckResult{
		checkUserConfig,
		checkKeyStore,
		checkDefaultRecipient,
		checkPrivateKeyPermissions,
		checkKeyConsistency,
		checkAuditLog,
	}

	var results []CheckResult
	for _, check := range checks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results = append(results, check())
	}

	var suggestions []string
	seen := make(map[string]bool)
	for _, result := range results {
		if result.Suggestion != "" && result.Status != CheckPass && !seen[result.Suggestion] {
			suggestions = append(suggestions, result.Suggestion)
			seen[result.Suggestion] = true
		}
	}

	return &DoctorResult{
		Checks:      results,
		Summary:     calculateDoctorSummary(results),
		Suggestions: suggestions,
	}, nil
}

// checkUserConfig checks the config file parses and holds valid values.
func checkUserConfig() CheckResult {
	name := "User configuration"
	if !configs.ConfigExists() {
		return CheckResult{
			Name:    name,
			Status:  CheckPass,
			Message: "No config file, using defaults",
		}
	}
	if _, err := configs.LoadUserConfig(); err != nil {
		return CheckResult{
			Name:       name,
			Status:     CheckError,
			Message:    err.Error(),
			Suggestion: fmt.Sprintf("Fix or recreate %s with 'sdp config init --force'", configs.ConfigPath()),
		}
	}
	return CheckResult{
		Name:    name,
		Status:  CheckPass,
		Message: "User configuration valid",
	}
}

// checkKeyStore checks that at least one key is stored.
func checkKeyStore() CheckResult {
	name := "Key store"
	stored, err := keys.DefaultStore().List()
	if err != nil {
		return CheckResult{
			Name:       name,
			Status:     CheckError,
			Message:    fmt.Sprintf("Failed to read key store: %v", err),
			Suggestion: fmt.Sprintf("Check that %s is accessible", configs.UserSDPSettings.UserKeysPath),
		}
	}
	if len(stored) == 0 {
		return CheckResult{
			Name:       name,
			Status:     CheckWarning,
			Message:    "No keys stored",
			Suggestion: "Run 'sdp keys generate NAME' to create a key pair",
		}
	}
	return CheckResult{
		Name:    name,
		Status:  CheckPass,
		Message: fmt.Sprintf("%d key(s) stored", len(stored)),
	}
}

// checkDefaultRecipient checks the configured default key is stored.
func checkDefaultRecipient() CheckResult {
	name := "Default recipient"
	cfg, err := configs.LoadUserConfig()
	if err != nil {
		return CheckResult{
			Name:    name,
			Status:  CheckError,
			Message: "Cannot check default recipient: configuration invalid",
		}
	}

	recipient := cfg.Keys.DefaultRecipient
	if recipient == "" {
		return CheckResult{
			Name:       name,
			Status:     CheckWarning,
			Message:    "No default recipient configured",
			Suggestion: "Pass --recipient, or run 'sdp keys generate NAME --default'",
		}
	}

	if _, err := keys.DefaultStore().Get(recipient); err != nil {
		message := fmt.Sprintf("Failed to load default recipient %q: %v", recipient, err)
		if errors.Is(err, sderrors.ErrKeyNotFound) {
			message = fmt.Sprintf("Default recipient %q is not in the key store", recipient)
		}
		return CheckResult{
			Name:       name,
			Status:     CheckError,
			Message:    message,
			Suggestion: fmt.Sprintf("Run 'sdp keys generate %s' or change keys.default_recipient", recipient),
		}
	}

	return CheckResult{
		Name:    name,
		Status:  CheckPass,
		Message: fmt.Sprintf("Default recipient %q found", recipient),
	}
}

// checkPrivateKeyPermissions checks every private key is owner-only.
func checkPrivateKeyPermissions() CheckResult {
	name := "Private key permissions"
	store := keys.DefaultStore()
	stored, err := store.List()
	if err != nil || len(stored) == 0 {
		return CheckResult{
			Name:    name,
			Status:  CheckPass,
			Message: "No private keys to check",
		}
	}

	for _, key := range stored {
		path := store.PrivateKeyPath(key.Name)
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			// Public-only recipients are allowed.
			continue
		}
		if err != nil {
			return CheckResult{
				Name:       name,
				Status:     CheckError,
				Message:    fmt.Sprintf("Failed to stat private key: %v", err),
				Suggestion: "Check that the private key file is accessible",
			}
		}
		if mode := info.Mode().Perm(); mode&0077 != 0 {
			return CheckResult{
				Name:       name,
				Status:     CheckWarning,
				Message:    fmt.Sprintf("Private key %q has insecure permissions (%04o)", key.Name, mode),
				Suggestion: fmt.Sprintf("Run 'chmod 600 %s' to fix permissions", path),
			}
		}
	}

	return CheckResult{
		Name:    name,
		Status:  CheckPass,
		Message: "Private keys have correct permissions (0600)",
	}
}

// checkKeyConsistency checks every private key matches its public key and
// recorded fingerprint.
func checkKeyConsistency() CheckResult {
	name := "Key pair consistency"
	store := keys.DefaultStore()
	stored, err := store.List()
	if err != nil || len(stored) == 0 {
		return CheckResult{
			Name:    name,
			Status:  CheckPass,
			Message: "No key pairs to check",
		}
	}

	for _, key := range stored {
		if key.Metadata != nil && key.Metadata.Fingerprint != "" && key.Metadata.Fingerprint != key.Fingerprint {
			return CheckResult{
				Name:       name,
				Status:     CheckError,
				Message:    fmt.Sprintf("Public key %q does not match its recorded fingerprint", key.Name),
				Suggestion: fmt.Sprintf("Inspect %s for tampering", key.Dir),
			}
		}

		priv, err := store.PrivateKey(key.Name)
		if errors.Is(err, sderrors.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return CheckResult{
				Name:       name,
				Status:     CheckError,
				Message:    fmt.Sprintf("Failed to load private key %q: %v", key.Name, err),
				Suggestion: fmt.Sprintf("Inspect %s", key.Dir),
			}
		}
		pub, err := sdp.PublicKeyOf(priv.Key)
		priv.Zero()
		if err != nil || !bytes.Equal(pub, key.PublicKey) {
			return CheckResult{
				Name:       name,
				Status:     CheckError,
				Message:    fmt.Sprintf("Private key %q does not match its public key", key.Name),
				Suggestion: fmt.Sprintf("Re-import the key with 'sdp keys import %s'", key.Name),
			}
		}
	}

	return CheckResult{
		Name:    name,
		Status:  CheckPass,
		Message: "All key pairs are consistent",
	}
}

// checkAuditLog checks the audit log can be read.
func checkAuditLog() CheckResult {
	name := "Audit log"
	logPath := audit.LogPath()
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		return CheckResult{
			Name:    name,
			Status:  CheckPass,
			Message: "No audit log yet",
		}
	}

	entries, err := audit.ReadEntries()
	if err != nil {
		return CheckResult{
			Name:       name,
			Status:     CheckWarning,
			Message:    fmt.Sprintf("Failed to read audit log: %v", err),
			Suggestion: fmt.Sprintf("Check that %s is readable", logPath),
		}
	}
	return CheckResult{
		Name:    name,
		Status:  CheckPass,
		Message: fmt.Sprintf("Audit log holds %d entries", len(entries)),
	}
}

func calculateDoctorSummary(results []CheckResult) DoctorSummary {
	var summary DoctorSummary
	for _, result := range results {
		switch result.Status {
		case CheckPass:
			summary.Passed++
		case CheckWarning:
			summary.Warnings++
		case CheckError:
			summary.Errors++
		}
	}
	return summary
}
