package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Platform administration (requires the admin role)",
	}
	cmd.AddCommand(
		adminStatsCmd(), adminUsersCmd(), adminShipmentsCmd(),
		adminDeleteShipmentCmd(), adminSetAdminCmd(), adminRemoveAdminCmd(), adminSetAdminsCmd(),
	)
	return cmd
}

func adminStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show platform-wide activity numbers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := appCtx.Admin.Stats(cmd.Context())
			if err != nil {
				toastErr(err)
				return err
			}
			fmt.Println(head("Platform stats"))
			fmt.Printf("  Users:                %d\n", stats.TotalUsers)
			fmt.Printf("  Shipments:            %d\n", stats.TotalShipments)
			fmt.Printf("  Active subscriptions: %d\n", stats.ActiveSubscriptions)
			fmt.Printf("  Monthly revenue:      $%.2f\n", stats.MonthlyRevenue)
			return nil
		},
	}
}

func adminUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List all registered users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := appCtx.Admin.Users(cmd.Context())
			if err != nil {
				toastErr(err)
				return err
			}
			fmt.Println(head(fmt.Sprintf("Users (%d total)", page.Total)))
			for _, u := range page.Items {
				paid := " "
				if u.IsPaid {
					paid = "$"
				}
				fmt.Printf("  %s  %-6s %s %-10s %s\n", u.ID, u.Role, paid, u.Plan, u.Email)
			}
			return nil
		},
	}
}

func adminShipmentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shipments",
		Short: "List shipments across all users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := appCtx.Admin.Shipments(cmd.Context())
			if err != nil {
				toastErr(err)
				return err
			}
			fmt.Println(head(fmt.Sprintf("Shipments (%d total)", page.Total)))
			for _, s := range page.Items {
				fmt.Printf("  %s  %-8s user=%s\n", s.ID, s.Status, s.UserID)
			}
			return nil
		},
	}
}

func adminDeleteShipmentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-shipment [id]",
		Short: "Delete any user's shipment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.Admin.DeleteShipment(cmd.Context(), args[0]); err != nil {
				toastErr(err)
				return err
			}
			toastOK("Deleted shipment %s", args[0])
			return nil
		},
	}
}

func adminSetAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-admin [user-id]",
		Short: "Grant the admin role to a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.Admin.SetAdmin(cmd.Context(), args[0]); err != nil {
				toastErr(err)
				return err
			}
			toastOK("User %s is now an admin", args[0])
			return nil
		},
	}
}

func adminRemoveAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-admin [user-id]",
		Short: "Revoke the admin role from a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.Admin.RemoveAdmin(cmd.Context(), args[0]); err != nil {
				toastErr(err)
				return err
			}
			toastOK("User %s is no longer an admin", args[0])
			return nil
		},
	}
}

func adminSetAdminsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-admins [email...]",
		Short: "Grant the admin role to every listed email",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			updated, err := appCtx.Admin.SetAdminsByEmail(cmd.Context(), args)
			if err != nil {
				toastErr(err)
				return err
			}
			toastOK("Updated %d users", updated)
			return nil
		},
	}
}
