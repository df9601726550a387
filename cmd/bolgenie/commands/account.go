package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/saarzint/bolgenie/domain"
)

func accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the signed-in account",
	}
	cmd.AddCommand(
		accountUpdateCmd(), accountDeleteCmd(),
		accountResetPasswordCmd(), accountConfirmResetCmd(), accountChangePasswordCmd(),
		accountVerifyEmailCmd(), accountResendVerificationCmd(),
	)
	return cmd
}

func accountUpdateCmd() *cobra.Command {
	var companyName, companyAddress string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update company details on the profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var update domain.ProfileUpdate
			if cmd.Flags().Changed("company-name") {
				update.CompanyName = &companyName
			}
			if cmd.Flags().Changed("company-address") {
				update.CompanyAddress = &companyAddress
			}
			if update.CompanyName == nil && update.CompanyAddress == nil {
				return errors.New("nothing to update: pass --company-name or --company-address")
			}

			if err := appCtx.Session.UpdateProfile(cmd.Context(), update); err != nil {
				toastErr(err)
				return err
			}
			toastOK("Profile updated")
			return nil
		},
	}
	cmd.Flags().StringVar(&companyName, "company-name", "", "company name")
	cmd.Flags().StringVar(&companyAddress, "company-address", "", "company address")
	return cmd
}

func accountDeleteCmd() *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Permanently delete the account and all its data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return errors.New("refusing to delete without --yes")
			}
			result := appCtx.Session.DeleteAccount(cmd.Context())
			if !result.Success {
				toastErr(errors.New(result.Error))
				return errors.New(result.Error)
			}
			toastOK("Account deleted")
			return nil
		},
	}
	cmd.Flags().BoolVar(&confirmed, "yes", false, "confirm deletion")
	return cmd
}

func accountResetPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password [email]",
		Short: "Request a password reset email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result := appCtx.Session.ResetPassword(cmd.Context(), args[0])
			if !result.Success {
				toastErr(errors.New(result.Error))
				return errors.New(result.Error)
			}
			toastOK("If the address exists, a reset email is on its way")
			return nil
		},
	}
}

func accountConfirmResetCmd() *cobra.Command {
	var token, newPassword string

	cmd := &cobra.Command{
		Use:   "confirm-reset",
		Short: "Set a new password using a reset token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.AuthAPI.ConfirmPasswordReset(cmd.Context(), token, newPassword); err != nil {
				toastErr(err)
				return err
			}
			toastOK("Password changed, sign in with the new one")
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "reset token from the email")
	cmd.Flags().StringVar(&newPassword, "password", "", "new password")
	_ = cmd.MarkFlagRequired("token")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func accountChangePasswordCmd() *cobra.Command {
	var current, next string

	cmd := &cobra.Command{
		Use:   "change-password",
		Short: "Change the password of the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token := appCtx.Store.AccessToken()
			if token == "" {
				err := errors.New("not signed in")
				toastErr(err)
				return err
			}
			if err := appCtx.AuthAPI.ChangePassword(cmd.Context(), token, current, next); err != nil {
				toastErr(err)
				return err
			}
			toastOK("Password changed")
			return nil
		},
	}
	cmd.Flags().StringVar(&current, "current", "", "current password")
	cmd.Flags().StringVar(&next, "new", "", "new password")
	_ = cmd.MarkFlagRequired("current")
	_ = cmd.MarkFlagRequired("new")
	return cmd
}

func accountVerifyEmailCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "verify-email",
		Short: "Verify the account email with an emailed token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.AuthAPI.VerifyEmail(cmd.Context(), token); err != nil {
				toastErr(err)
				return err
			}
			toastOK("Email verified")
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "verification token from the email")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}

func accountResendVerificationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resend-verification [email]",
		Short: "Resend the verification email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.AuthAPI.ResendVerification(cmd.Context(), args[0]); err != nil {
				toastErr(err)
				return err
			}
			toastOK("Verification email sent to %s", args[0])
			return nil
		},
	}
}
