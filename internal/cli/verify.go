package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ralt/metalinker/internal/models"
	"github.com/ralt/metalinker/internal/signer"
	"github.com/ralt/metalinker/internal/verify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewVerifyCmd creates the verify command
func NewVerifyCmd(opts *rootOptions) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "verify <metalink> <local-file>",
		Short: "Verify a downloaded file against a Metalink document",
		Long: `Checks the size, whole-file hashes and piece hashes of a downloaded
file. With --keyring, the PGP signatures attached to the file entry are
checked as well.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			keyring := stringFlag(cmd, "keyring", opts.config.Keyring)

			ml, err := loadMetalink(cmd, args[0])
			if err != nil {
				return err
			}

			localPath := args[1]
			file, err := selectFile(ml, name, localPath)
			if err != nil {
				return err
			}

			logrus.Infof("Verifying %s against %s", localPath, file.File)
			result, err := verify.File(localPath, *file)
			if err != nil {
				return &models.MetalinkError{Type: models.ErrFileOp, Element: localPath, Err: err}
			}

			out := cmd.OutOrStdout()
			writeResult(out, result, file)
			failed := !result.OK()

			if keyring != "" {
				if !verifySignatures(out, keyring, localPath, file) {
					failed = true
				}
			} else if len(file.Signatures) > 0 {
				logrus.Info("Signatures present; pass --keyring to check them")
			}

			if failed {
				return fmt.Errorf("verification of %s failed", localPath)
			}
			if !result.Verified() {
				logrus.Warnf("No supported digest found for %s, only the size was checked", file.File)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "File entry to verify against (defaults to the local file name)")
	cmd.Flags().StringP("keyring", "k", "", "Path to an OpenPGP public keyring")

	return cmd
}

// selectFile picks the entry matching name, the only entry, or the entry named like the local file
func selectFile(ml *models.Metalink, name, localPath string) (*models.MetalinkFile, error) {
	if name == "" {
		if len(ml.Files) == 1 {
			return &ml.Files[0], nil
		}
		name = filepath.Base(localPath)
	}

	for i := range ml.Files {
		if ml.Files[i].File == name {
			return &ml.Files[i], nil
		}
	}
	return nil, fmt.Errorf("no file entry named %q in metalink (%d entries)", name, len(ml.Files))
}

func writeResult(w io.Writer, result *verify.Result, file *models.MetalinkFile) {
	status := func(ok bool) string {
		if ok {
			return "OK"
		}
		return "FAILED"
	}

	if result.ExpectedSize > 0 {
		fmt.Fprintf(w, "size     %s (%d bytes, expected %d)\n", status(result.SizeMatch()), result.ActualSize, result.ExpectedSize)
	}

	for _, h := range result.Hashes {
		if h.Skipped {
			fmt.Fprintf(w, "%-8s SKIPPED (unsupported)\n", h.Type)
			continue
		}
		fmt.Fprintf(w, "%-8s %s\n", h.Type, status(h.Match))
	}

	if file.PieceInfo == nil {
		return
	}
	if result.PiecesSkipped {
		fmt.Fprintf(w, "pieces   SKIPPED (%s unsupported)\n", result.PieceType)
		return
	}
	fmt.Fprintf(w, "pieces   %s (%d checked, %d bad)\n", status(len(result.BadPieces) == 0), result.PiecesChecked, len(result.BadPieces))
	for _, i := range result.BadPieces {
		start, end := file.PieceInfo.PieceRange(i, file.Size)
		fmt.Fprintf(w, "  piece %d bytes [%d, %d)\n", i, start, end)
	}
}

// verifySignatures loads the keyring and checks every signature of file
func verifySignatures(w io.Writer, keyring, localPath string, file *models.MetalinkFile) bool {
	verifier, err := signer.NewGPGVerifier(keyring)
	if err != nil {
		logrus.Errorf("Failed to load keyring: %v", err)
		return false
	}
	return checkSignatures(w, verifier, localPath, file)
}

// checkSignatures reports whether every signature of file verifies over localPath
func checkSignatures(w io.Writer, verifier signer.Verifier, localPath string, file *models.MetalinkFile) bool {
	ok := true
	for _, sig := range file.Signatures {
		f, err := os.Open(localPath)
		if err != nil {
			logrus.Errorf("Failed to open %s: %v", localPath, err)
			return false
		}

		identity, err := verifier.VerifyDetached(f, sig)
		f.Close()
		if err != nil {
			fmt.Fprintf(w, "signature %s FAILED: %v\n", sig.SignatureFile, err)
			ok = false
			continue
		}
		fmt.Fprintf(w, "signature %s OK (%s)\n", sig.SignatureFile, identity)
	}
	return ok
}
