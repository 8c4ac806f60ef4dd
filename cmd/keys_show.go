package cmd

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/PolarWolf314/sdp/internal/ui"
	"github.com/PolarWolf314/sdp/internal/workflows"
	"github.com/spf13/cobra"
)

var keysShowPublic bool

func init() {
	keysShowCmd.Flags().BoolVar(&keysShowPublic, "public", false, "print only the base64 public key")
}

func resetKeysShowState() {
	keysShowPublic = false
}

var keysShowCmd = &cobra.Command{
	Use:   "show [NAME]",
	Short: "Shows a stored key pair",
	Long: `Shows a stored key pair. Without NAME the default recipient is shown.
The private key is never printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting keys show command")

		name := ""
		if len(args) == 1 {
			name = args[0]
		}

		result, err := workflows.ShowKey(context.Background(), name)
		if err != nil {
			fmt.Println(formatError(err))
			if isUnexpectedError(err) {
				return reported(err)
			}
			return nil
		}

		publicKey := base64.StdEncoding.EncodeToString(result.Key.PublicKey)
		if keysShowPublic {
			fmt.Println(publicKey)
			return nil
		}

		v := newKeyView(result)
		fmt.Printf("Name:        %s\n", ui.Highlight.Sprint(v.Name))
		if v.ID != "" {
			fmt.Printf("ID:          %s\n", v.ID)
			fmt.Printf("Created:     %s\n", v.CreatedAt)
		}
		fmt.Printf("Fingerprint: %s\n", v.Fingerprint)
		fmt.Printf("Public key:  %s\n", publicKey)
		fmt.Printf("Location:    %s\n", ui.Path.Sprint(result.Key.Dir))
		fmt.Printf("Default:     %t\n", v.Default)
		return nil
	},
}
