package main

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hybrid-cipher-go/internal/dao"
	"github.com/hybrid-cipher-go/internal/encryption"
	"github.com/hybrid-cipher-go/internal/storage"
)

func newKeygenCmd(a *app) *cobra.Command {
	var (
		columns int
		name    string
	)

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Print a fresh key set as JSON, optionally storing it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if columns == 0 {
				columns = a.cfg.Cipher.Columns
			}
			keys, err := encryption.KeyGenerator{Columns: columns, KeySize: a.cfg.Cipher.KeySize}.Generate()
			if err != nil {
				return err
			}

			if name != "" {
				store, err := storage.NewStore(a.cfg.DataDir)
				if err != nil {
					return err
				}
				defer store.Close()

				if _, err := dao.NewKeySetDAO(store, nil).Save(name, keys); err != nil {
					return err
				}
				log.Info().Str("name", name).Str("db", store.Path()).Msg("Key set stored")
			}

			data, err := json.MarshalIndent(keys, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().IntVar(&columns, "columns", 0, "transposition columns (default from config)")
	cmd.Flags().StringVar(&name, "name", "", "store the key set in the keystore under this name")
	return cmd
}
