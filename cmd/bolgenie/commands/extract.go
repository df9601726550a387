package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func extractCmd() *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Extract Bill of Lading data from a shipping document",
		Long:  "Uploads an image or PDF of a shipping document and prints the structured data the backend extracted. With --save the result is stored as a new shipment.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()

			result, err := appCtx.OCR.Extract(cmd.Context(), filepath.Base(args[0]), f, func(percent int) {
				fmt.Fprintf(os.Stderr, "\ruploading %3d%%", percent)
				if percent == 100 {
					fmt.Fprintln(os.Stderr)
				}
			})
			if err != nil {
				toastErr(err)
				return err
			}

			toastOK("Extracted with %.0f%% confidence in %.1fs", result.Confidence*100, result.ProcessingTime)
			if save {
				shipment, err := appCtx.Shipments.Create(cmd.Context(), result.Data)
				if err != nil {
					toastErr(err)
					return err
				}
				toastOK("Saved as shipment %s", shipment.ID)
				return nil
			}
			return printJSON(result.Data)
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "store the extracted data as a new shipment")
	return cmd
}

func pdfCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "pdf [shipment-id]",
		Short: "Generate and download a Bill of Lading PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shipment, err := appCtx.Shipments.Get(cmd.Context(), args[0])
			if err != nil {
				toastErr(err)
				return err
			}

			path, err := appCtx.PDF.Download(cmd.Context(), *shipment, out)
			if err != nil {
				toastErr(err)
				return err
			}
			toastOK("Wrote %s", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default BOL_<id>.pdf)")
	return cmd
}
