package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saarzint/bolgenie/internal/routes"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Aliases: []string{"whoami"},
		Short:   "Show the current session and where it lands",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := session(cmd.Context()).Session

			if !svc.IsAuthenticated() {
				fmt.Println(dim("Not signed in"))
				return nil
			}

			profile := svc.Profile()
			fmt.Println(head("Session"))
			fmt.Printf("  Email:    %s\n", profile.Email)
			fmt.Printf("  Role:     %s\n", profile.Role)
			fmt.Printf("  Plan:     %s\n", profile.Plan)
			fmt.Printf("  Status:   %s\n", profile.Status)
			fmt.Printf("  Paid:     %v\n", svc.IsPaid())
			if profile.CompanyName != "" {
				fmt.Printf("  Company:  %s\n", profile.CompanyName)
			}

			resolution := routes.Resolve(routes.Session{
				Authenticated:     true,
				IsAdmin:           svc.IsAdmin(),
				IsPaid:            svc.IsPaid(),
				HasCompletedSetup: svc.HasCompletedSetup(),
			}, routes.PathDashboard)
			fmt.Printf("  Lands on: %s\n", resolution.View)
			return nil
		},
	}
}
