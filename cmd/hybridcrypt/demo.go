package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hybrid-cipher-go/internal/encryption"
)

const demoText = "This is Hybrid"

func newDemoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "demo [text]",
		Short: "Generate keys, encrypt and decrypt a sample text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := demoText
			if len(args) == 1 {
				text = args[0]
			}

			keys, err := encryption.KeyGenerator{
				Columns: encryption.DefaultColumns,
				KeySize: a.cfg.Cipher.KeySize,
			}.Generate()
			if err != nil {
				return err
			}

			ciphertext, err := encryption.HybridEncrypt(text, keys.StreamKey, keys.Permutation)
			if err != nil {
				return err
			}
			decrypted, err := encryption.HybridDecrypt(ciphertext, keys.StreamKey, keys.Permutation)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Original Text: %s\n", text)
			fmt.Fprintf(out, "Stream Key (hex): %s\n", keys.StreamKeyHex())
			fmt.Fprintf(out, "Transposition Key: %v\n", []int(keys.Permutation))
			fmt.Fprintf(out, "Encrypted (hex): %s\n", hex.EncodeToString(ciphertext))
			fmt.Fprintf(out, "Decrypted: %s\n", decrypted)
			return nil
		},
	}
}
