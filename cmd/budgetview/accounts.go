package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/budgetview/internal/accounts"
	"github.com/Veraticus/budgetview/internal/cli"
	"github.com/Veraticus/budgetview/internal/common"
	"github.com/Veraticus/budgetview/internal/model"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Show and edit bank accounts",
		Long:  `List, add, edit and delete the bank accounts known to the server.`,
	}

	cmd.AddCommand(listAccountsCmd())
	cmd.AddCommand(addAccountCmd())
	cmd.AddCommand(editAccountCmd())
	cmd.AddCommand(deleteAccountCmd())

	return cmd
}

func listAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, client, err := initClient()
			if err != nil {
				return err
			}

			var (
				accts   *model.Accounts
				schemas *model.StatementSchemas
			)
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				var err error
				accts, err = client.GetAccounts(ctx)
				return err
			})
			g.Go(func() error {
				var err error
				schemas, err = client.GetStatementSchemas(ctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return fmt.Errorf("failed to get accounts: %w", err)
			}

			view, err := accounts.NewView(*accts, *schemas)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if view.Len() == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No accounts found."))
				return nil
			}
			return cli.RenderAccounts(out, view)
		},
	}
}

// schemaFlag turns the --schema flag into a statement schema id, with 0
// meaning none.
func schemaFlag(schemaID int) *int {
	if schemaID == 0 {
		return nil
	}
	return &schemaID
}

func addAccountCmd() *cobra.Command {
	var (
		name     string
		class    string
		schemaID int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an account",
		Long: `Create an account. --schema names the statement format used when importing
its statements; see "budgetview accounts list".

Examples:
  budgetview accounts add --name Checking --class bank --schema 7
  budgetview accounts add --name Amex --class creditcard`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			accountClass, err := model.ParseAccountClass(class)
			if err != nil {
				return err
			}

			refresher, _, year, err := editSession(cmd)
			if err != nil {
				return err
			}

			fields := model.AccountFields{Name: name, Class: accountClass, StatementSchemaID: schemaFlag(schemaID)}
			if _, err := refresher.AddAccount(cmd.Context(), year, fields); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added account %s", name)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "account name")
	cmd.Flags().StringVar(&class, "class", string(model.AccountBank), "Bank, CreditCard or Shop")
	cmd.Flags().IntVar(&schemaID, "schema", 0, "statement schema id")
	_ = cmd.MarkFlagRequired("name")
	addYearFlag(cmd)

	return cmd
}

func editAccountCmd() *cobra.Command {
	var (
		name     string
		class    string
		schemaID int
	)

	cmd := &cobra.Command{
		Use:   "edit <account-id>",
		Short: "Change an account",
		Long:  `Change the name, class or statement format of an account. --schema 0 removes the format.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "account")
			if err != nil {
				return err
			}

			refresher, snapshot, year, err := editSession(cmd)
			if err != nil {
				return err
			}
			current, err := snapshot.Accounts.GetAccount(id)
			if err != nil {
				return err
			}

			account := current.Account
			changed := false
			if cmd.Flags().Changed("name") {
				account.Name, changed = name, true
			}
			if cmd.Flags().Changed("class") {
				if account.Class, err = model.ParseAccountClass(class); err != nil {
					return err
				}
				changed = true
			}
			if cmd.Flags().Changed("schema") {
				account.StatementSchemaID, changed = schemaFlag(schemaID), true
			}
			if !changed {
				return common.NewValidationError("flags", "nothing to change, use --name, --class or --schema")
			}

			if _, err := refresher.UpdateAccount(cmd.Context(), year, account); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Updated account %s", account.Name)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new account name")
	cmd.Flags().StringVar(&class, "class", "", "Bank, CreditCard or Shop")
	cmd.Flags().IntVar(&schemaID, "schema", 0, "statement schema id, 0 for none")
	addYearFlag(cmd)

	return cmd
}

func deleteAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <account-id>",
		Short: "Delete an account without expenses",
		Long:  `Delete an account. The server refuses accounts that still have expenses.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "account")
			if err != nil {
				return err
			}

			refresher, snapshot, year, err := editSession(cmd)
			if err != nil {
				return err
			}
			account, err := snapshot.Accounts.GetAccount(id)
			if err != nil {
				return err
			}
			if _, err := refresher.DeleteAccount(cmd.Context(), year, id); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted account %s", account.Name())))
			return nil
		},
	}
	addYearFlag(cmd)
	return cmd
}
