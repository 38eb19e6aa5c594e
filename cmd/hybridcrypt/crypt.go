package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hybrid-cipher-go/internal/client"
	"github.com/hybrid-cipher-go/internal/dao"
	"github.com/hybrid-cipher-go/internal/encryption"
	apperrors "github.com/hybrid-cipher-go/internal/errors"
	"github.com/hybrid-cipher-go/internal/handler"
	"github.com/hybrid-cipher-go/internal/storage"
)

// keyFlags selects key material from the keystore or a JSON file, and
// optionally a remote server to run the operation on
type keyFlags struct {
	keySet   string
	keysFile string
	encType  string
	server   string
	h2c      bool
}

func (f *keyFlags) register(cmd *cobra.Command) {
	f.registerKeys(cmd)
	cmd.Flags().StringVar(&f.encType, "type", "", "scheme: hybrid, additive or columnar (default from config)")
	cmd.Flags().StringVar(&f.server, "server", "", "API server URL; runs the operation remotely (default from config)")
	cmd.Flags().BoolVar(&f.h2c, "h2c", false, "talk HTTP/2 cleartext to --server")
}

func (f *keyFlags) registerKeys(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.keySet, "key-set", "", "name of a stored key set")
	cmd.Flags().StringVar(&f.keysFile, "keys", "", "path to a key set JSON file")
	cmd.MarkFlagsMutuallyExclusive("key-set", "keys")
	cmd.MarkFlagsOneRequired("key-set", "keys")
}

func (f *keyFlags) readKeysFile() (*encryption.KeySet, error) {
	if f.keysFile == "" {
		return nil, nil
	}
	data, err := os.ReadFile(f.keysFile)
	if err != nil {
		return nil, err
	}
	var keys encryption.KeySet
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, err
	}
	return &keys, nil
}

func (f *keyFlags) load(a *app) (encryption.KeySet, error) {
	keys, err := f.readKeysFile()
	if err != nil {
		return encryption.KeySet{}, err
	}
	if keys != nil {
		return *keys, nil
	}

	store, err := storage.NewStore(a.cfg.DataDir)
	if err != nil {
		return encryption.KeySet{}, err
	}
	defer store.Close()
	return dao.NewKeySetDAO(store, nil).Keys(f.keySet)
}

// remote returns a logged in API client, or nil when no server is configured
func (f *keyFlags) remote(ctx context.Context, a *app) (*client.Client, error) {
	cc := a.cfg.Client
	if f.server != "" {
		cc.ServerURL = f.server
	}
	if f.h2c {
		cc.EnableH2C = true
	}
	if cc.ServerURL == "" {
		return nil, nil
	}

	c, err := client.New(cc)
	if err != nil {
		return nil, err
	}
	if err := c.Login(ctx, cc.Username, cc.Password); err != nil {
		return nil, err
	}
	log.Debug().Str("server", cc.ServerURL).Bool("h2c", cc.EnableH2C).Msg("Using remote server")
	return c, nil
}

func (f *keyFlags) scheme(a *app) (encryption.Scheme, error) {
	keys, err := f.load(a)
	if err != nil {
		return nil, err
	}
	encType := f.encType
	if encType == "" {
		encType = a.cfg.Cipher.DefaultType
	}
	return encryption.NewScheme(encryption.EncType(encType), keys)
}

func newEncryptCmd(a *app) *cobra.Command {
	var f keyFlags
	cmd := &cobra.Command{
		Use:   "encrypt TEXT",
		Short: "Encrypt text and print hex ciphertext",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := f.remote(cmd.Context(), a)
			if err != nil {
				return err
			}

			var ciphertext []byte
			if c != nil {
				keys, err := f.readKeysFile()
				if err != nil {
					return err
				}
				ciphertext, err = c.Encrypt(cmd.Context(), handler.EncryptRequest{
					KeySet: f.keySet, Keys: keys, Plaintext: args[0], Type: f.encType,
				})
				if err != nil {
					return err
				}
			} else {
				s, err := f.scheme(a)
				if err != nil {
					return err
				}
				if ciphertext, err = s.Encrypt(args[0]); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(ciphertext))
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newDecryptCmd(a *app) *cobra.Command {
	var f keyFlags
	cmd := &cobra.Command{
		Use:   "decrypt HEX",
		Short: "Decrypt hex ciphertext and print the text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ciphertext, err := hex.DecodeString(args[0])
			if err != nil {
				return apperrors.NewBadRequestWithCause("ciphertext must be hex encoded", err)
			}
			c, err := f.remote(cmd.Context(), a)
			if err != nil {
				return err
			}

			var plaintext string
			if c != nil {
				keys, err := f.readKeysFile()
				if err != nil {
					return err
				}
				plaintext, err = c.Decrypt(cmd.Context(), handler.DecryptRequest{
					KeySet: f.keySet, Keys: keys, Ciphertext: args[0], Type: f.encType,
				})
				if err != nil {
					return err
				}
			} else {
				s, err := f.scheme(a)
				if err != nil {
					return err
				}
				if plaintext, err = s.Decrypt(ciphertext); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), plaintext)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}
