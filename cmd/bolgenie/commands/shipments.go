package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/saarzint/bolgenie/domain"
	"github.com/saarzint/bolgenie/internal/transport"
)

func shipmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "shipments",
		Aliases: []string{"bol"},
		Short:   "Work with Bill of Lading shipments",
	}
	cmd.AddCommand(
		shipmentsListCmd(), shipmentsGetCmd(),
		shipmentsCreateCmd(), shipmentsUpdateCmd(), shipmentsDeleteCmd(),
	)
	return cmd
}

func shipmentsListCmd() *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your shipments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result *domain.ShipmentPage
			err := transport.WithRetry(cmd.Context(), func() error {
				var listErr error
				result, listErr = appCtx.Shipments.List(cmd.Context(), page, pageSize)
				return listErr
			}, nil)
			if err != nil {
				toastErr(err)
				return err
			}

			if len(result.Items) == 0 {
				fmt.Println(dim("No shipments yet"))
				return nil
			}
			fmt.Println(head(fmt.Sprintf("Shipments (%d total)", result.Total)))
			for _, s := range result.Items {
				fmt.Printf("  %s  %-8s  %s -> %s\n",
					s.ID, s.Status,
					s.Parties.Shipper.Name, s.Parties.Consignee.Name)
			}
			if result.HasMore {
				fmt.Println(dim(fmt.Sprintf("More available: --page %d", result.Page+1)))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "items per page")
	return cmd
}

func shipmentsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [id]",
		Short: "Print one shipment as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shipment, err := appCtx.Shipments.Get(cmd.Context(), args[0])
			if err != nil {
				toastErr(err)
				return err
			}
			return printJSON(shipment)
		},
	}
}

func shipmentsCreateCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a shipment from a Bill of Lading JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readBOLFile(file)
			if err != nil {
				return err
			}
			shipment, err := appCtx.Shipments.Create(cmd.Context(), data)
			if err != nil {
				toastErr(err)
				return err
			}
			toastOK("Created shipment %s", shipment.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "path to Bill of Lading JSON")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func shipmentsUpdateCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Replace a shipment's Bill of Lading data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readBOLFile(file)
			if err != nil {
				return err
			}
			shipment, err := appCtx.Shipments.Get(cmd.Context(), args[0])
			if err != nil {
				toastErr(err)
				return err
			}
			shipment.BillOfLadingData = data

			updated, err := appCtx.Shipments.Update(cmd.Context(), args[0], *shipment)
			if err != nil {
				toastErr(err)
				return err
			}
			toastOK("Updated shipment %s (%s)", updated.ID, updated.Status)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "path to Bill of Lading JSON")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func shipmentsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a shipment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.Shipments.Delete(cmd.Context(), args[0]); err != nil {
				toastErr(err)
				return err
			}
			toastOK("Deleted shipment %s", args[0])
			return nil
		},
	}
}

func readBOLFile(path string) (domain.BillOfLadingData, error) {
	var data domain.BillOfLadingData
	raw, err := os.ReadFile(path)
	if err != nil {
		return data, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("invalid Bill of Lading JSON in %s: %w", path, err)
	}
	return data, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
