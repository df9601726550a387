package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saarzint/bolgenie/domain"
)

func planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Inspect or choose the subscription plan",
	}
	cmd.AddCommand(planShowCmd(), planSelectCmd(), planClearCmd())
	return cmd
}

func planShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the currently selected plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan := appCtx.Session.SelectedPlan()
			if plan == "" {
				fmt.Println(dim("No plan selected (defaults to " + domain.PlanStarter + " at checkout)"))
				return nil
			}
			fmt.Println(plan)
			return nil
		},
	}
}

func planSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "select [plan]",
		Short:     "Select a plan to purchase",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{domain.PlanStarter, domain.PlanPro, domain.PlanEnterprise},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.Session.SetSelectedPlan(args[0]); err != nil {
				toastErr(err)
				return err
			}
			toastOK("Selected the %s plan", args[0])
			return nil
		},
	}
}

func planClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the plan selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.Session.SetSelectedPlan(""); err != nil {
				toastErr(err)
				return err
			}
			toastOK("Plan selection cleared")
			return nil
		},
	}
}

func payCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pay",
		Short: "Complete payment for the selected plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := session(cmd.Context()).Session
			if err := svc.CompletePayment(cmd.Context()); err != nil {
				toastErr(err)
				return err
			}
			toastOK("Payment complete, the %s plan is active", svc.Profile().Plan)
			return nil
		},
	}
}
