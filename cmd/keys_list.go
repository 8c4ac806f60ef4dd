package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/PolarWolf314/sdp/internal/ui"
	"github.com/PolarWolf314/sdp/internal/workflows"
	"github.com/spf13/cobra"
)

var keysListJSON bool

func init() {
	keysListCmd.Flags().BoolVar(&keysListJSON, "json", false, "output as JSON")
}

func resetKeysListState() {
	keysListJSON = false
}

// keyView is the JSON form of a stored key.
type keyView struct {
	Name        string `json:"name"`
	ID          string `json:"id,omitempty"`
	Fingerprint string `json:"fingerprint"`
	CreatedAt   string `json:"created_at,omitempty"`
	PublicKey   string `json:"public_key_path"`
	Default     bool   `json:"default"`
}

func newKeyView(r *workflows.KeyResult) keyView {
	v := keyView{
		Name:        r.Key.Name,
		Fingerprint: r.Key.Fingerprint,
		PublicKey:   r.PublicKeyPath,
		Default:     r.IsDefault,
	}
	if r.Key.Metadata != nil {
		v.ID = r.Key.Metadata.ID
		v.CreatedAt = r.Key.Metadata.CreatedAt.Format("2006-01-02 15:04:05")
	}
	return v
}

var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists stored key pairs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting keys list command")

		results, err := workflows.ListKeys(context.Background())
		if err != nil {
			fmt.Println(formatError(err))
			if isUnexpectedError(err) {
				return reported(err)
			}
			return nil
		}

		if keysListJSON {
			views := make([]keyView, 0, len(results))
			for _, r := range results {
				views = append(views, newKeyView(r))
			}
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(views)
		}

		if len(results) == 0 {
			fmt.Println("No keys stored.")
			fmt.Println(ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("sdp keys generate NAME") + " to create one")
			return nil
		}

		for _, r := range results {
			v := newKeyView(r)
			marker := " "
			if v.Default {
				marker = ui.Success.Sprint("*")
			}
			fmt.Printf("%s %-20s  %s  %s\n", marker, v.Name, v.Fingerprint, v.CreatedAt)
		}
		return nil
	},
}
