package main

import (
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hybrid-cipher-go/internal/encryption"
)

func newStreamCmd(a *app) *cobra.Command {
	var (
		f       keyFlags
		decrypt bool
		offset  int64
	)

	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Apply the additive stream stage to stdin, writing stdout",
		Long: "Runs only the additive stage, chunk by chunk, so input of any size\n" +
			"and any bytes can be processed. --offset starts the key at that\n" +
			"stream position, matching a slice of a larger stream.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := f.load(a)
			if err != nil {
				return err
			}
			s, err := encryption.NewAdditive(keys.StreamKey)
			if err != nil {
				return err
			}
			if err := s.SetPosition(offset); err != nil {
				return err
			}

			in := cmd.InOrStdin()
			var r io.Reader
			if decrypt {
				r = s.DecryptReader(in)
			} else {
				r = s.EncryptReader(in)
			}

			n, err := io.Copy(cmd.OutOrStdout(), r)
			if err != nil {
				return err
			}
			log.Debug().Int64("bytes", n).Bool("decrypt", decrypt).Msg("Stream processed")
			return nil
		},
	}

	f.registerKeys(cmd)
	cmd.Flags().BoolVarP(&decrypt, "decrypt", "d", false, "decrypt instead of encrypt")
	cmd.Flags().Int64Var(&offset, "offset", 0, "stream position of the first input byte")
	return cmd
}
